package entity

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-reflect"
)

// sortEntities сортирует срез устойчиво по перечисленным ключам:
// равенство по ключу разрешается следующими ключами в заданном порядке,
// полное равенство сохраняет исходный порядок элементов.
func sortEntities[E any](items []E, keys []SortField) {
	if len(keys) == 0 {
		return
	}

	sort.SliceStable(items, func(i, j int) bool {
		for _, key := range keys {
			c := compareField(items[i], items[j], key.Field)
			if c == 0 {
				continue
			}
			if key.Descending {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

// compareField сравнивает одноименные поля двух структур.
// Несуществующее поле считается равным у всех элементов, чтобы один
// неверный ключ не ронял сортировку по остальным.
func compareField[E any](a, b E, field string) int {
	av, aok := fieldValue(a, field)
	bv, bok := fieldValue(b, field)
	if !aok || !bok {
		return 0
	}

	switch av.Kind() {
	case reflect.String:
		return strings.Compare(av.String(), bv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmpOrdered(av.Int(), bv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return cmpOrdered(av.Uint(), bv.Uint())
	case reflect.Float32, reflect.Float64:
		return cmpOrdered(av.Float(), bv.Float())
	case reflect.Bool:
		return cmpOrdered(boolToInt(av.Bool()), boolToInt(bv.Bool()))
	default:
		return strings.Compare(fmt.Sprintf("%v", av.Interface()), fmt.Sprintf("%v", bv.Interface()))
	}
}

// fieldValue извлекает поле структуры по имени, сначала точно,
// затем без учета регистра.
func fieldValue[E any](item E, name string) (reflect.Value, bool) {
	val := reflect.ValueOf(item)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return reflect.Value{}, false
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
		return reflect.Value{}, false
	}
	return field, true
}

func cmpOrdered[N int64 | uint64 | float64 | int](a, b N) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
