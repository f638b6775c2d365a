package filterquery

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Operator задает оператор сравнения условия фильтра.
// Поддерживается только строковое семейство: сравнение на равенство
// и проверки вхождения; числовых операторов сравнения нет.
type Operator string

const (
	// OperatorEq — равенство.
	OperatorEq Operator = "eq"
	// OperatorContains — вхождение подстроки.
	OperatorContains Operator = "contains"
	// OperatorStartsWith — совпадение префикса.
	OperatorStartsWith Operator = "startsWith"
	// OperatorEndsWith — совпадение суффикса.
	OperatorEndsWith Operator = "endsWith"
)

// Condition — тройка "поле, оператор, значение", извлеченная из строки фильтра.
type Condition struct {
	Field    string
	Operator Operator
	Value    string
}

var (
	// whereRe выделяет тело единственного поддерживаемого блока where.
	// Флаг (?s) позволяет телу блока занимать несколько строк.
	whereRe = regexp.MustCompile(`(?s)where\s*:\s*\{(.+)\}`)

	// conditionRe извлекает тройку поле/оператор/значение;
	// значение может быть в кавычках или без них.
	conditionRe = regexp.MustCompile(`(\w+)\s*:\s*\{\s*(\w+)\s*:\s*(?:"([^"]*)"|([^\s{},]+))\s*\}`)

	// combinatorRe распознает булевы комбинаторы, которые грамматика не поддерживает.
	combinatorRe = regexp.MustCompile(`\b(and|or|not)\s*:`)
)

// fieldNames — фиксированная таблица соответствия имен полей фильтра
// именам полей модели. Для отсутствующих в таблице имен первая буква
// переводится в верхний регистр.
var fieldNames = map[string]string{
	"name":     "Name",
	"price":    "Price",
	"category": "Category",
	"id":       "Id",
	"isActive": "IsActive",
}

// Parse разбирает строку фильтра, содержащую не более одного условия вида
//
//	where: { field: { operator: value } }
//
// Строка без блока where дает (nil, nil). Несколько условий, булевы
// комбинаторы и неизвестные операторы дают UnsupportedQueryError:
// это осознанное ограничение грамматики, а не молчаливый неверный разбор.
func Parse(query string) (*Condition, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	whereMatches := whereRe.FindAllStringSubmatch(query, -1)
	if len(whereMatches) == 0 {
		// Строка упоминает where, но блок не разобрался: это выход
		// за пределы грамматики, а не отсутствие условия.
		if strings.Contains(strings.ToLower(query), "where") {
			return nil, &UnsupportedQueryError{
				Provider: ProviderUnknown,
				Reason:   "блок where не удалось разобрать",
				Hint:     "ожидается форма where: { field: { operator: value } }",
			}
		}
		return nil, nil
	}
	if len(whereMatches) > 1 {
		return nil, &UnsupportedQueryError{
			Provider: ProviderUnknown,
			Reason:   "найдено несколько блоков where",
			Hint:     "используйте ровно один блок where с одним условием",
		}
	}

	body := whereMatches[0][1]

	if combinatorRe.MatchString(body) {
		return nil, &UnsupportedQueryError{
			Provider: ProviderUnknown,
			Reason:   "булевы комбинаторы (and/or/not) не поддерживаются",
			Hint:     "сведите фильтр к одному условию вида field: { operator: value }",
		}
	}

	conditions := conditionRe.FindAllStringSubmatch(body, -1)
	if len(conditions) == 0 {
		return nil, &UnsupportedQueryError{
			Provider: ProviderUnknown,
			Reason:   "не удалось разобрать условие фильтра",
			Hint:     "ожидается форма where: { field: { operator: value } }",
		}
	}
	if len(conditions) > 1 {
		return nil, &UnsupportedQueryError{
			Provider: ProviderUnknown,
			Reason:   "поддерживается ровно одно условие на фильтр",
			Hint:     "разбейте запрос на несколько вызовов с одним условием",
		}
	}

	m := conditions[0]
	field, op := m[1], Operator(m[2])
	value := m[3]
	if value == "" && m[4] != "" {
		value = m[4]
	}

	switch op {
	case OperatorEq, OperatorContains, OperatorStartsWith, OperatorEndsWith:
	default:
		return nil, &UnsupportedQueryError{
			Provider: ProviderUnknown,
			Reason:   "неизвестный оператор '" + string(op) + "'",
			Hint:     "допустимы операторы eq, contains, startsWith, endsWith",
		}
	}

	return &Condition{
		Field:    MapFieldName(field),
		Operator: op,
		Value:    value,
	}, nil
}

// MapFieldName переводит имя поля фильтра в имя поля модели:
// по фиксированной таблице, иначе переводом первой буквы в верхний регистр.
func MapFieldName(field string) string {
	if mapped, ok := fieldNames[field]; ok {
		return mapped
	}
	r, size := utf8.DecodeRuneInString(field)
	if r == utf8.RuneError {
		return field
	}
	return string(unicode.ToUpper(r)) + field[size:]
}
