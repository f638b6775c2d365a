package filterquery

import (
	"fmt"
	"strings"

	"github.com/goccy/go-reflect"
)

// Apply фильтрует срез по условию. Нулевое условие возвращает исходный срез.
// Применение чистое относительно источника: повторное применение того же
// условия к тому же срезу дает тот же результат.
func Apply[E any](items []E, cond *Condition) ([]E, error) {
	if cond == nil {
		return items, nil
	}

	filtered := make([]E, 0, len(items))
	for _, item := range items {
		ok, err := Match(item, cond)
		if err != nil {
			return nil, err
		}
		if ok {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

// Match проверяет один элемент на соответствие условию.
// Значение поля приводится к строке; сравнение выполняется строковым
// семейством операторов.
func Match[E any](item E, cond *Condition) (bool, error) {
	fieldValue, err := fieldString(item, cond.Field)
	if err != nil {
		return false, err
	}

	switch cond.Operator {
	case OperatorEq:
		return fieldValue == cond.Value, nil
	case OperatorContains:
		return strings.Contains(fieldValue, cond.Value), nil
	case OperatorStartsWith:
		return strings.HasPrefix(fieldValue, cond.Value), nil
	case OperatorEndsWith:
		return strings.HasSuffix(fieldValue, cond.Value), nil
	default:
		return false, &UnsupportedQueryError{
			Provider: ProviderUnknown,
			Reason:   "неизвестный оператор '" + string(cond.Operator) + "'",
			Hint:     "допустимы операторы eq, contains, startsWith, endsWith",
		}
	}
}

// fieldString извлекает поле структуры по имени и приводит его к строке.
// Имя ищется точно, затем без учета регистра: таблица соответствия
// использует форму "Id", тогда как в моделях Go принято "ID".
func fieldString(item any, name string) (string, error) {
	val := reflect.ValueOf(item)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return "", fmt.Errorf("фильтрация поддерживается только для структур, получен %s", val.Kind())
	}

	field := val.FieldByName(name)
	if !field.IsValid() {
		t := val.Type()
		for i := 0; i < t.NumField(); i++ {
			if strings.EqualFold(t.Field(i).Name, name) {
				field = val.Field(i)
				break
			}
		}
	}
	if !field.IsValid() {
		return "", fmt.Errorf("поле '%s' не найдено в типе %s", name, val.Type())
	}

	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return "", nil
		}
		field = field.Elem()
	}

	if field.Kind() == reflect.String {
		return field.String(), nil
	}
	return fmt.Sprintf("%v", field.Interface()), nil
}
