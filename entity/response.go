package entity

import "github.com/x-research-team/mediator-framework/mediator/behavior"

// CommandResponse — ответ обработчика команды.
// Создается обработчиком и после этого не изменяется.
type CommandResponse[D any] struct {
	// Succeeded сообщает об успехе операции.
	Succeeded bool

	// Dto — одиночный результат (create/update).
	Dto *D

	// Dtos — пакетный результат (create/update).
	Dtos []D

	// RowsAffected — число строк, затронутых фиксацией изменений.
	RowsAffected int64

	// Message — сообщение об ошибке для неуспешного ответа.
	Message string

	// ValidationErrors — структурированные ошибки валидации конверта.
	ValidationErrors []behavior.FieldError
}

// CommandSuccess возвращает успешный ответ с одиночным результатом.
func CommandSuccess[D any](dto D, rowsAffected int64) CommandResponse[D] {
	return CommandResponse[D]{Succeeded: true, Dto: &dto, RowsAffected: rowsAffected}
}

// CommandSuccessBulk возвращает успешный ответ с пакетным результатом.
func CommandSuccessBulk[D any](dtos []D, rowsAffected int64) CommandResponse[D] {
	return CommandResponse[D]{Succeeded: true, Dtos: dtos, RowsAffected: rowsAffected}
}

// CommandDeleted возвращает успешный ответ операции удаления.
func CommandDeleted[D any](rowsAffected int64) CommandResponse[D] {
	return CommandResponse[D]{Succeeded: true, RowsAffected: rowsAffected}
}

// CommandFailure возвращает неуспешный ответ с сообщением.
func CommandFailure[D any](message string) CommandResponse[D] {
	return CommandResponse[D]{Succeeded: false, Message: message}
}

// QueryResponse — ответ обработчика запроса.
// Создается обработчиком и после этого не изменяется.
type QueryResponse[D any] struct {
	// Succeeded сообщает об успехе операции.
	Succeeded bool

	// Dto — одиночный результат (retrieve).
	Dto *D

	// Dtos — результат выборки (list).
	Dtos []D

	// TotalCount — общее число строк до постраничного среза.
	TotalCount int64

	// Page — номер возвращенной страницы (только постраничная выборка).
	Page int

	// Size — размер страницы (только постраничная выборка).
	Size int

	// Message — сообщение об ошибке для неуспешного ответа.
	Message string
}

// QuerySuccess возвращает успешный ответ с одиночным результатом.
func QuerySuccess[D any](dto D) QueryResponse[D] {
	return QueryResponse[D]{Succeeded: true, Dto: &dto, TotalCount: 1}
}

// QuerySuccessList возвращает успешный ответ выборки.
func QuerySuccessList[D any](dtos []D, totalCount int64) QueryResponse[D] {
	return QueryResponse[D]{Succeeded: true, Dtos: dtos, TotalCount: totalCount}
}

// QueryFailure возвращает неуспешный ответ с сообщением.
func QueryFailure[D any](message string) QueryResponse[D] {
	return QueryResponse[D]{Succeeded: false, Message: message}
}
