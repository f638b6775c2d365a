// Package entity адаптирует произвольные пары сущность/DTO к конвейеру
// медиатора: обобщенные конверты команд и запросов, их обработчики
// и контракты репозитория и маппера.
package entity

import "context"

// Identifiable определяет сущность или DTO, несущие идентичность типа K.
type Identifiable[K comparable] interface {
	Identity() K
}

// Mapper определяет стратегию преобразования между сущностью и DTO.
// Оба метода обязаны быть чистыми и тотальными; маппер внедряется
// в обработчики как зависимость, а не наследуется.
type Mapper[E Identifiable[K], D Identifiable[K], K comparable] interface {
	ToEntity(dto D) E
	ToDto(entity E) D
}

// Repository определяет контракт хранилища, потребляемый обработчиками.
// Изменяющие операции откладываются до явного вызова Persist — это
// видимая граница единицы работы, обработчики обязаны вызывать Persist
// после каждой изменяющей операции.
type Repository[E Identifiable[K], K comparable] interface {
	// Add добавляет сущность и возвращает ее (с заполненной идентичностью).
	Add(ctx context.Context, entity E) (E, error)

	// AddBatch добавляет несколько сущностей.
	AddBatch(ctx context.Context, entities []E) ([]E, error)

	// Update обновляет сущность.
	Update(ctx context.Context, entity E) (E, error)

	// UpdateBatch обновляет несколько сущностей.
	UpdateBatch(ctx context.Context, entities []E) ([]E, error)

	// Delete удаляет сущность по идентичности и возвращает число затронутых строк.
	Delete(ctx context.Context, id K) (int64, error)

	// DeleteBatch удаляет несколько сущностей по списку идентичностей.
	DeleteBatch(ctx context.Context, ids []K) (int64, error)

	// Retrieve возвращает сущность по идентичности либо nil, если ее нет.
	Retrieve(ctx context.Context, id K) (*E, error)

	// List возвращает сущности по списку идентичностей.
	List(ctx context.Context, ids []K) ([]E, error)

	// GetAll возвращает все сущности.
	GetAll(ctx context.Context) ([]E, error)

	// Exists сообщает, существует ли сущность с данной идентичностью.
	Exists(ctx context.Context, id K) (bool, error)

	// Persist фиксирует отложенные изменения и возвращает число затронутых строк.
	Persist(ctx context.Context) (int64, error)
}
