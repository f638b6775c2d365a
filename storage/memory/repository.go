// Package memory содержит внутрипроцессную реализацию репозитория сущностей
// и снимочный менеджер транзакций. Пакет служит провайдером InMemory
// для трансляции фильтров и опорой для тестов.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/x-research-team/mediator-framework/entity"
	"github.com/x-research-team/mediator-framework/filterquery"
)

// changeKind задает вид отложенного изменения.
type changeKind int

const (
	changeAdd changeKind = iota
	changeUpdate
	changeDelete
)

// change — одно отложенное изменение единицы работы.
type change[E entity.Identifiable[K], K comparable] struct {
	kind   changeKind
	entity E
	id     K
}

// Repository — внутрипроцессная реализация entity.Repository.
// Изменяющие операции накапливаются и становятся видимыми для чтения
// только после явного вызова Persist; это делает границу единицы работы
// наблюдаемой, как того требует контракт репозитория.
type Repository[E entity.Identifiable[K], K comparable] struct {
	committed map[K]E
	order     []K
	staged    []change[E, K]
	mu        sync.RWMutex
	detector  *filterquery.Detector
}

// NewRepository создает новый пустой репозиторий.
func NewRepository[E entity.Identifiable[K], K comparable]() *Repository[E, K] {
	return &Repository[E, K]{
		committed: make(map[K]E),
		detector:  filterquery.NewDetector("inmemory"),
	}
}

// Provider возвращает тег провайдера хранилища.
func (r *Repository[E, K]) Provider() filterquery.Provider {
	return r.detector.Provider()
}

// Add откладывает добавление сущности.
func (r *Repository[E, K]) Add(ctx context.Context, e E) (E, error) {
	if err := ctx.Err(); err != nil {
		var zero E
		return zero, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.staged = append(r.staged, change[E, K]{kind: changeAdd, entity: e, id: e.Identity()})
	return e, nil
}

// AddBatch откладывает добавление нескольких сущностей.
func (r *Repository[E, K]) AddBatch(ctx context.Context, entities []E) ([]E, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range entities {
		r.staged = append(r.staged, change[E, K]{kind: changeAdd, entity: e, id: e.Identity()})
	}
	return entities, nil
}

// Update откладывает обновление сущности.
func (r *Repository[E, K]) Update(ctx context.Context, e E) (E, error) {
	if err := ctx.Err(); err != nil {
		var zero E
		return zero, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := e.Identity()
	if _, ok := r.committed[id]; !ok {
		var zero E
		return zero, fmt.Errorf("%w: сущность '%v' не найдена", entity.ErrRepository, id)
	}

	r.staged = append(r.staged, change[E, K]{kind: changeUpdate, entity: e, id: id})
	return e, nil
}

// UpdateBatch откладывает обновление нескольких сущностей.
func (r *Repository[E, K]) UpdateBatch(ctx context.Context, entities []E) ([]E, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range entities {
		id := e.Identity()
		if _, ok := r.committed[id]; !ok {
			return nil, fmt.Errorf("%w: сущность '%v' не найдена", entity.ErrRepository, id)
		}
		r.staged = append(r.staged, change[E, K]{kind: changeUpdate, entity: e, id: id})
	}
	return entities, nil
}

// Delete откладывает удаление сущности по идентичности.
func (r *Repository[E, K]) Delete(ctx context.Context, id K) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.committed[id]; !ok {
		return 0, nil
	}

	r.staged = append(r.staged, change[E, K]{kind: changeDelete, id: id})
	return 1, nil
}

// DeleteBatch откладывает удаление нескольких сущностей.
func (r *Repository[E, K]) DeleteBatch(ctx context.Context, ids []K) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var affected int64
	for _, id := range ids {
		if _, ok := r.committed[id]; !ok {
			continue
		}
		r.staged = append(r.staged, change[E, K]{kind: changeDelete, id: id})
		affected++
	}
	return affected, nil
}

// Retrieve возвращает зафиксированную сущность по идентичности либо nil.
func (r *Repository[E, K]) Retrieve(ctx context.Context, id K) (*E, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.committed[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

// List возвращает зафиксированные сущности по списку идентичностей.
func (r *Repository[E, K]) List(ctx context.Context, ids []K) ([]E, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]E, 0, len(ids))
	for _, id := range ids {
		if e, ok := r.committed[id]; ok {
			result = append(result, e)
		}
	}
	return result, nil
}

// GetAll возвращает все зафиксированные сущности в порядке вставки.
func (r *Repository[E, K]) GetAll(ctx context.Context) ([]E, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]E, 0, len(r.order))
	for _, id := range r.order {
		if e, ok := r.committed[id]; ok {
			result = append(result, e)
		}
	}
	return result, nil
}

// Exists сообщает, зафиксирована ли сущность с данной идентичностью.
func (r *Repository[E, K]) Exists(ctx context.Context, id K) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.committed[id]
	return ok, nil
}

// Persist применяет отложенные изменения и возвращает их число.
func (r *Repository[E, K]) Persist(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var affected int64
	for _, c := range r.staged {
		switch c.kind {
		case changeAdd:
			if _, ok := r.committed[c.id]; !ok {
				r.order = append(r.order, c.id)
			}
			r.committed[c.id] = c.entity
		case changeUpdate:
			r.committed[c.id] = c.entity
		case changeDelete:
			delete(r.committed, c.id)
		}
		affected++
	}

	r.staged = nil
	return affected, nil
}

// Snapshot снимает копию состояния и возвращает функцию его восстановления.
// Используется снимочным менеджером транзакций.
func (r *Repository[E, K]) Snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	committed := make(map[K]E, len(r.committed))
	for k, v := range r.committed {
		committed[k] = v
	}
	order := append([]K(nil), r.order...)
	staged := append([]change[E, K](nil), r.staged...)

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.committed = committed
		r.order = order
		r.staged = staged
	}
}
