package filterquery

import (
	"encoding/json"
	"fmt"
	"strings"
)

// JSONPattern возвращает шаблон `"key":"value"`, по которому SQL-провайдеры
// выполняют поиск подстроки в сериализованной JSON-колонке. Тот же шаблон
// используется при построении SQL-условия LIKE на стороне хранилища.
func JSONPattern(key, value string) string {
	return fmt.Sprintf(`"%s":"%s"`, key, value)
}

// MatchJSON сопоставляет сериализованную JSON-колонку с парой ключ/значение,
// выбирая стратегию по тегу провайдера.
//
// Все SQL-провайдеры используют поиск подстроки по шаблону `"key":"value"` —
// это задокументированная слабая эвристика, а не структурный JSON-запрос:
// она дает ложные срабатывания при совпадении подстроки в чужом ключе
// и должна быть заменена настоящими JSON-функциями провайдера в его
// специализированной реализации. Внутрипроцессный провайдер материализует
// колонку и разбирает ее для истинно структурного сравнения, поскольку
// проталкивание предиката в хранилище к нему неприменимо.
func MatchJSON(provider Provider, raw, key, value string) (bool, error) {
	switch provider {
	case ProviderInMemory:
		return matchJSONStructural(raw, key, value)
	case ProviderPostgreSQL, ProviderSQLServer, ProviderMySQL, ProviderSQLite, ProviderOracle:
		return strings.Contains(raw, JSONPattern(key, value)), nil
	default:
		return false, &UnsupportedQueryError{
			Provider: provider,
			Reason:   "для провайдера нет стратегии сопоставления JSON",
			Hint:     "задайте имя провайдера хранилища либо используйте внутрипроцессный провайдер",
		}
	}
}

// matchJSONStructural разбирает JSON-документ и сравнивает значение ключа структурно.
func matchJSONStructural(raw, key, value string) (bool, error) {
	if strings.TrimSpace(raw) == "" {
		return false, nil
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return false, fmt.Errorf("не удалось разобрать JSON-колонку: %w", err)
	}

	v, ok := doc[key]
	if !ok {
		return false, nil
	}

	if s, ok := v.(string); ok {
		return s == value, nil
	}
	return fmt.Sprintf("%v", v) == value, nil
}
