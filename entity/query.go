package entity

import "github.com/google/uuid"

// QueryOperation задает операцию конверта запроса.
type QueryOperation int

const (
	// OpRetrieve — получение одной сущности по идентичности.
	OpRetrieve QueryOperation = iota
	// OpList — выборка списка сущностей.
	OpList
)

// String возвращает имя операции.
func (op QueryOperation) String() string {
	switch op {
	case OpRetrieve:
		return "retrieve"
	case OpList:
		return "list"
	default:
		return "unknown"
	}
}

// SortField описывает один ключ сортировки.
type SortField struct {
	// Field — имя поля сущности.
	Field string

	// Descending задает сортировку по убыванию.
	Descending bool
}

// Query — обобщенный конверт запроса над сущностью.
// Для OpList необязательные поля выбирают ветвь в порядке приоритета:
// явный список идентичностей → предикат → страница+размер → строка
// фильтра → полная выборка. Сортировка, если задана, применяется как
// устойчивая многоключевая: равенство по ключу разрешается следующими
// ключами в перечисленном порядке.
type Query[E Identifiable[K], D Identifiable[K], K comparable] struct {
	// ID — корреляционный идентификатор конверта.
	ID uuid.UUID

	// Operation — операция запроса.
	Operation QueryOperation

	// EntityID — идентичность запрашиваемой сущности (retrieve).
	EntityID *K

	// EntityIDs — явный список идентичностей (list).
	EntityIDs []K

	// Predicate — предикат над сущностью (list).
	Predicate func(E) bool

	// Page — номер страницы, нумерация с единицы (list).
	Page int

	// Size — размер страницы (list).
	Size int

	// Filter — строка фильтра в грамматике filterquery (list).
	Filter string

	// Sort — ключи устойчивой многоключевой сортировки.
	Sort []SortField
}

// NewRetrieveQuery создает конверт получения одной сущности.
func NewRetrieveQuery[E Identifiable[K], D Identifiable[K], K comparable](id K) Query[E, D, K] {
	return Query[E, D, K]{ID: uuid.New(), Operation: OpRetrieve, EntityID: &id}
}

// NewListQuery создает конверт полной выборки.
func NewListQuery[E Identifiable[K], D Identifiable[K], K comparable]() Query[E, D, K] {
	return Query[E, D, K]{ID: uuid.New(), Operation: OpList}
}

// NewListByIDsQuery создает конверт выборки по списку идентичностей.
func NewListByIDsQuery[E Identifiable[K], D Identifiable[K], K comparable](ids ...K) Query[E, D, K] {
	return Query[E, D, K]{ID: uuid.New(), Operation: OpList, EntityIDs: ids}
}

// NewListByPredicateQuery создает конверт выборки по предикату.
func NewListByPredicateQuery[E Identifiable[K], D Identifiable[K], K comparable](predicate func(E) bool) Query[E, D, K] {
	return Query[E, D, K]{ID: uuid.New(), Operation: OpList, Predicate: predicate}
}

// NewPagedQuery создает конверт постраничной выборки.
// Смещение вычисляется как (page-1)*size; ответ несет общее число строк.
func NewPagedQuery[E Identifiable[K], D Identifiable[K], K comparable](page, size int) Query[E, D, K] {
	return Query[E, D, K]{ID: uuid.New(), Operation: OpList, Page: page, Size: size}
}

// NewFilteredQuery создает конверт выборки по строке фильтра.
func NewFilteredQuery[E Identifiable[K], D Identifiable[K], K comparable](filter string) Query[E, D, K] {
	return Query[E, D, K]{ID: uuid.New(), Operation: OpList, Filter: filter}
}

// WithSort возвращает копию конверта с заданными ключами сортировки.
func (q Query[E, D, K]) WithSort(fields ...SortField) Query[E, D, K] {
	q.Sort = fields
	return q
}

// IsValid сообщает, корректен ли конверт.
func (q Query[E, D, K]) IsValid() bool {
	switch q.Operation {
	case OpRetrieve:
		return q.EntityID != nil
	case OpList:
		if q.Page < 0 || q.Size < 0 {
			return false
		}
		// Страница и размер задаются только вместе.
		return (q.Page > 0) == (q.Size > 0)
	default:
		return false
	}
}
