package entity

import (
	"context"
	"log/slog"
	"time"
)

// CommandHandler — обобщенный обработчик конвертов команд.
// Он переводит конверт в вызовы репозитория с преобразованием сущность↔DTO.
//
// Граница обработчика — осознанный контракт мягкого отказа: любая ошибка
// репозитория или маппера перехватывается, логируется и превращается
// в неуспешный ответ с текстом ошибки; исключение никогда не покидает
// обработчик. Вызывающая сторона всегда получает структурированный ответ.
type CommandHandler[E Identifiable[K], D Identifiable[K], K comparable] struct {
	repo   Repository[E, K]
	mapper Mapper[E, D, K]
	logger *slog.Logger
}

// NewCommandHandler создает новый обработчик команд.
func NewCommandHandler[E Identifiable[K], D Identifiable[K], K comparable](
	repo Repository[E, K],
	mapper Mapper[E, D, K],
	logger *slog.Logger,
) *CommandHandler[E, D, K] {
	if logger == nil {
		logger = slog.Default()
	}
	return &CommandHandler[E, D, K]{repo: repo, mapper: mapper, logger: logger}
}

// Handle выполняет операцию конверта. Возвращаемая ошибка всегда nil:
// отказ кодируется в ответе.
func (h *CommandHandler[E, D, K]) Handle(ctx context.Context, cmd Command[D, K]) (CommandResponse[D], error) {
	start := time.Now()
	log := h.logger.With(
		slog.String("operation", cmd.Operation.String()),
		slog.String("envelope_id", cmd.ID.String()),
	)
	log.Info("обработка команды начата")

	if !cmd.IsValid() {
		log.Warn("конверт команды невалиден", slog.Duration("duration", time.Since(start)))
		return CommandFailure[D]("конверт команды невалиден: форма полезной нагрузки не соответствует операции"), nil
	}

	resp := h.execute(ctx, cmd)
	if resp.Succeeded {
		log.Info("команда выполнена",
			slog.Int64("rows_affected", resp.RowsAffected),
			slog.Duration("duration", time.Since(start)),
		)
	} else {
		log.Error("команда не выполнена",
			slog.String("message", resp.Message),
			slog.Duration("duration", time.Since(start)),
		)
	}

	return resp, nil
}

// execute выбирает ветвь по операции и форме полезной нагрузки.
func (h *CommandHandler[E, D, K]) execute(ctx context.Context, cmd Command[D, K]) CommandResponse[D] {
	switch cmd.Operation {
	case OpCreate:
		if cmd.Dto != nil {
			return h.createSingle(ctx, *cmd.Dto)
		}
		return h.createBulk(ctx, cmd.Dtos)
	case OpUpdate:
		if cmd.Dto != nil {
			return h.updateSingle(ctx, *cmd.Dto)
		}
		return h.updateBulk(ctx, cmd.Dtos)
	case OpDelete:
		if cmd.EntityID != nil {
			return h.deleteSingle(ctx, *cmd.EntityID)
		}
		return h.deleteBulk(ctx, cmd.EntityIDs)
	default:
		return CommandFailure[D]("неизвестная операция команды")
	}
}

func (h *CommandHandler[E, D, K]) createSingle(ctx context.Context, dto D) CommandResponse[D] {
	added, err := h.repo.Add(ctx, h.mapper.ToEntity(dto))
	if err != nil {
		return CommandFailure[D](err.Error())
	}

	rows, err := h.repo.Persist(ctx)
	if err != nil {
		return CommandFailure[D](err.Error())
	}

	return CommandSuccess(h.mapper.ToDto(added), rows)
}

func (h *CommandHandler[E, D, K]) createBulk(ctx context.Context, dtos []D) CommandResponse[D] {
	entities := make([]E, 0, len(dtos))
	for _, dto := range dtos {
		entities = append(entities, h.mapper.ToEntity(dto))
	}

	added, err := h.repo.AddBatch(ctx, entities)
	if err != nil {
		return CommandFailure[D](err.Error())
	}

	rows, err := h.repo.Persist(ctx)
	if err != nil {
		return CommandFailure[D](err.Error())
	}

	result := make([]D, 0, len(added))
	for _, e := range added {
		result = append(result, h.mapper.ToDto(e))
	}
	return CommandSuccessBulk(result, rows)
}

func (h *CommandHandler[E, D, K]) updateSingle(ctx context.Context, dto D) CommandResponse[D] {
	updated, err := h.repo.Update(ctx, h.mapper.ToEntity(dto))
	if err != nil {
		return CommandFailure[D](err.Error())
	}

	rows, err := h.repo.Persist(ctx)
	if err != nil {
		return CommandFailure[D](err.Error())
	}

	return CommandSuccess(h.mapper.ToDto(updated), rows)
}

func (h *CommandHandler[E, D, K]) updateBulk(ctx context.Context, dtos []D) CommandResponse[D] {
	entities := make([]E, 0, len(dtos))
	for _, dto := range dtos {
		entities = append(entities, h.mapper.ToEntity(dto))
	}

	updated, err := h.repo.UpdateBatch(ctx, entities)
	if err != nil {
		return CommandFailure[D](err.Error())
	}

	rows, err := h.repo.Persist(ctx)
	if err != nil {
		return CommandFailure[D](err.Error())
	}

	result := make([]D, 0, len(updated))
	for _, e := range updated {
		result = append(result, h.mapper.ToDto(e))
	}
	return CommandSuccessBulk(result, rows)
}

func (h *CommandHandler[E, D, K]) deleteSingle(ctx context.Context, id K) CommandResponse[D] {
	if _, err := h.repo.Delete(ctx, id); err != nil {
		return CommandFailure[D](err.Error())
	}

	rows, err := h.repo.Persist(ctx)
	if err != nil {
		return CommandFailure[D](err.Error())
	}

	return CommandDeleted[D](rows)
}

func (h *CommandHandler[E, D, K]) deleteBulk(ctx context.Context, ids []K) CommandResponse[D] {
	if _, err := h.repo.DeleteBatch(ctx, ids); err != nil {
		return CommandFailure[D](err.Error())
	}

	rows, err := h.repo.Persist(ctx)
	if err != nil {
		return CommandFailure[D](err.Error())
	}

	return CommandDeleted[D](rows)
}
