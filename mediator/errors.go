package mediator

import "errors"

var (
	// ErrHandlerNotFound возвращается при отправке запроса, для типа которого
	// не зарегистрирован ни один обработчик. Это ошибка конфигурации.
	ErrHandlerNotFound = errors.New("обработчик не найден")

	// ErrHandlerRegistered возвращается при попытке зарегистрировать второй
	// обработчик для того же типа запроса.
	ErrHandlerRegistered = errors.New("обработчик уже зарегистрирован")
)
