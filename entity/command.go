package entity

import "github.com/google/uuid"

// CommandOperation задает операцию конверта команды.
type CommandOperation int

const (
	// OpCreate — создание сущностей.
	OpCreate CommandOperation = iota
	// OpUpdate — обновление сущностей.
	OpUpdate
	// OpDelete — удаление сущностей.
	OpDelete
)

// String возвращает имя операции.
func (op CommandOperation) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Command — обобщенный конверт команды над сущностью.
// Конверт создается фабричными функциями, после чего не изменяется
// и потребляется медиатором ровно один раз. Из четырех форм полезной
// нагрузки (одиночный DTO, список DTO, идентичность, список идентичностей)
// заполнена должна быть ровно одна, и она должна соответствовать операции.
type Command[D Identifiable[K], K comparable] struct {
	// ID — корреляционный идентификатор конверта.
	ID uuid.UUID

	// Operation — операция команды.
	Operation CommandOperation

	// Dto — одиночная полезная нагрузка (create/update).
	Dto *D

	// Dtos — пакетная полезная нагрузка (create/update).
	Dtos []D

	// EntityID — идентичность удаляемой сущности (delete).
	EntityID *K

	// EntityIDs — идентичности удаляемых сущностей (delete).
	EntityIDs []K
}

// NewCreateCommand создает конверт одиночного создания.
func NewCreateCommand[D Identifiable[K], K comparable](dto D) Command[D, K] {
	return Command[D, K]{ID: uuid.New(), Operation: OpCreate, Dto: &dto}
}

// NewCreateBulkCommand создает конверт пакетного создания.
func NewCreateBulkCommand[D Identifiable[K], K comparable](dtos []D) Command[D, K] {
	return Command[D, K]{ID: uuid.New(), Operation: OpCreate, Dtos: dtos}
}

// NewUpdateCommand создает конверт одиночного обновления.
func NewUpdateCommand[D Identifiable[K], K comparable](dto D) Command[D, K] {
	return Command[D, K]{ID: uuid.New(), Operation: OpUpdate, Dto: &dto}
}

// NewUpdateBulkCommand создает конверт пакетного обновления.
func NewUpdateBulkCommand[D Identifiable[K], K comparable](dtos []D) Command[D, K] {
	return Command[D, K]{ID: uuid.New(), Operation: OpUpdate, Dtos: dtos}
}

// NewDeleteCommand создает конверт одиночного удаления.
func NewDeleteCommand[D Identifiable[K], K comparable](id K) Command[D, K] {
	return Command[D, K]{ID: uuid.New(), Operation: OpDelete, EntityID: &id}
}

// NewDeleteBulkCommand создает конверт пакетного удаления.
func NewDeleteBulkCommand[D Identifiable[K], K comparable](ids []K) Command[D, K] {
	return Command[D, K]{ID: uuid.New(), Operation: OpDelete, EntityIDs: ids}
}

// IsValid сообщает, корректен ли конверт: заполнена ровно одна форма
// полезной нагрузки, и она соответствует операции.
func (c Command[D, K]) IsValid() bool {
	populated := 0
	if c.Dto != nil {
		populated++
	}
	if len(c.Dtos) > 0 {
		populated++
	}
	if c.EntityID != nil {
		populated++
	}
	if len(c.EntityIDs) > 0 {
		populated++
	}
	if populated != 1 {
		return false
	}

	switch c.Operation {
	case OpCreate, OpUpdate:
		return c.Dto != nil || len(c.Dtos) > 0
	case OpDelete:
		return c.EntityID != nil || len(c.EntityIDs) > 0
	default:
		return false
	}
}
