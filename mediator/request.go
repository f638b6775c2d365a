package mediator

import "context"

// Request представляет собой интерфейс-маркер для запроса к медиатору,
// параметризованный типом возвращаемого значения T.
// Запросом может быть как команда (изменение состояния), так и запрос
// на чтение данных; семантическое различие фиксируется методами Send и Query.
type Request[T any] interface{}

// Handler определяет строго типизированную функцию-обработчик для запроса R,
// которая возвращает результат типа T.
type Handler[R Request[T], T any] func(ctx context.Context, req R) (T, error)

// Behavior определяет единицу конвейера сквозной функциональности.
// Поведение получает запрос и делегат next, вызывающий следующее звено цепочки;
// оно может пропустить запрос без изменений, прервать выполнение,
// повторить вызов next или обернуть его в дополнительный контекст.
type Behavior[R Request[T], T any] interface {
	Handle(ctx context.Context, req R, next Handler[R, T]) (T, error)
}

// BehaviorFunc является адаптером, позволяющим использовать обычные функции как поведение.
type BehaviorFunc[R Request[T], T any] func(ctx context.Context, req R, next Handler[R, T]) (T, error)

// Handle реализует интерфейс Behavior.
func (f BehaviorFunc[R, T]) Handle(ctx context.Context, req R, next Handler[R, T]) (T, error) {
	return f(ctx, req, next)
}

// Metadatable определяет интерфейс для запросов, которые могут нести метаданные.
type Metadatable interface {
	Metadata() map[string]string
}
