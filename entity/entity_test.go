package entity_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/x-research-team/mediator-framework/entity"
)

// widget — тестовая сущность каталога.
type widget struct {
	Id       string
	Name     string
	Price    float64
	Category string
	IsActive bool
}

func (w widget) Identity() string { return w.Id }

// widgetDto — транспортное представление widget.
type widgetDto struct {
	Id       string
	Name     string
	Price    float64
	Category string
	IsActive bool
}

func (d widgetDto) Identity() string { return d.Id }

// widgetMapper преобразует widget↔widgetDto; идентичность назначается
// при создании, если DTO пришел без нее.
type widgetMapper struct{}

func (widgetMapper) ToEntity(d widgetDto) widget {
	id := d.Id
	if id == "" {
		id = uuid.NewString()
	}
	return widget{Id: id, Name: d.Name, Price: d.Price, Category: d.Category, IsActive: d.IsActive}
}

func (widgetMapper) ToDto(e widget) widgetDto {
	return widgetDto{Id: e.Id, Name: e.Name, Price: e.Price, Category: e.Category, IsActive: e.IsActive}
}

// failingRepo — репозиторий, отвергающий каждую операцию заданной ошибкой.
type failingRepo struct {
	err error
}

func (r *failingRepo) Add(ctx context.Context, e widget) (widget, error) { return widget{}, r.err }
func (r *failingRepo) AddBatch(ctx context.Context, entities []widget) ([]widget, error) {
	return nil, r.err
}
func (r *failingRepo) Update(ctx context.Context, e widget) (widget, error) {
	return widget{}, r.err
}
func (r *failingRepo) UpdateBatch(ctx context.Context, entities []widget) ([]widget, error) {
	return nil, r.err
}
func (r *failingRepo) Delete(ctx context.Context, id string) (int64, error) { return 0, r.err }
func (r *failingRepo) DeleteBatch(ctx context.Context, ids []string) (int64, error) {
	return 0, r.err
}
func (r *failingRepo) Retrieve(ctx context.Context, id string) (*widget, error) { return nil, r.err }
func (r *failingRepo) List(ctx context.Context, ids []string) ([]widget, error) { return nil, r.err }
func (r *failingRepo) GetAll(ctx context.Context) ([]widget, error)             { return nil, r.err }
func (r *failingRepo) Exists(ctx context.Context, id string) (bool, error)      { return false, r.err }
func (r *failingRepo) Persist(ctx context.Context) (int64, error)               { return 0, r.err }

var _ entity.Repository[widget, string] = (*failingRepo)(nil)
