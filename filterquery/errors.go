package filterquery

import "fmt"

// UnsupportedQueryError возвращается, когда фильтр выходит за пределы
// поддерживаемого подмножества (несколько условий, булевы комбинаторы,
// неизвестный оператор) либо когда для провайдера нет настоящей реализации
// структурного JSON-запроса. Ошибка несет обнаруженный тег провайдера
// и указание, как двигаться дальше.
type UnsupportedQueryError struct {
	// Provider — тег провайдера, для которого запрос не поддержан.
	Provider Provider

	// Reason описывает, что именно не поддержано.
	Reason string

	// Hint подсказывает вызывающей стороне, как переформулировать запрос.
	Hint string
}

// Error реализует интерфейс error.
func (e *UnsupportedQueryError) Error() string {
	msg := fmt.Sprintf("запрос не поддерживается (провайдер %s): %s", e.Provider, e.Reason)
	if e.Hint != "" {
		msg += "; " + e.Hint
	}
	return msg
}
