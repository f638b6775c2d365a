package entity

import (
	"context"
	"log/slog"
	"time"

	"github.com/x-research-team/mediator-framework/filterquery"
)

// QueryHandler — обобщенный обработчик конвертов запросов.
// Как и CommandHandler, он работает по контракту мягкого отказа:
// ошибки репозитория, маппера и транслятора фильтра превращаются
// в неуспешный ответ и не покидают границу обработчика.
type QueryHandler[E Identifiable[K], D Identifiable[K], K comparable] struct {
	repo   Repository[E, K]
	mapper Mapper[E, D, K]
	logger *slog.Logger
}

// NewQueryHandler создает новый обработчик запросов.
func NewQueryHandler[E Identifiable[K], D Identifiable[K], K comparable](
	repo Repository[E, K],
	mapper Mapper[E, D, K],
	logger *slog.Logger,
) *QueryHandler[E, D, K] {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryHandler[E, D, K]{repo: repo, mapper: mapper, logger: logger}
}

// Handle выполняет операцию конверта. Возвращаемая ошибка всегда nil:
// отказ кодируется в ответе.
func (h *QueryHandler[E, D, K]) Handle(ctx context.Context, q Query[E, D, K]) (QueryResponse[D], error) {
	start := time.Now()
	log := h.logger.With(
		slog.String("operation", q.Operation.String()),
		slog.String("envelope_id", q.ID.String()),
	)
	log.Info("обработка запроса начата")

	if !q.IsValid() {
		log.Warn("конверт запроса невалиден", slog.Duration("duration", time.Since(start)))
		return QueryFailure[D]("конверт запроса невалиден"), nil
	}

	var resp QueryResponse[D]
	switch q.Operation {
	case OpRetrieve:
		resp = h.retrieve(ctx, *q.EntityID)
	case OpList:
		resp = h.list(ctx, q)
	default:
		resp = QueryFailure[D]("неизвестная операция запроса")
	}

	if resp.Succeeded {
		log.Info("запрос выполнен",
			slog.Int64("total_count", resp.TotalCount),
			slog.Duration("duration", time.Since(start)),
		)
	} else {
		log.Error("запрос не выполнен",
			slog.String("message", resp.Message),
			slog.Duration("duration", time.Since(start)),
		)
	}

	return resp, nil
}

// retrieve возвращает одну сущность по идентичности.
func (h *QueryHandler[E, D, K]) retrieve(ctx context.Context, id K) QueryResponse[D] {
	found, err := h.repo.Retrieve(ctx, id)
	if err != nil {
		return QueryFailure[D](err.Error())
	}
	if found == nil {
		return QueryFailure[D]("сущность не найдена")
	}
	return QuerySuccess(h.mapper.ToDto(*found))
}

// list выбирает ветвь выборки по заполненным необязательным полям конверта.
func (h *QueryHandler[E, D, K]) list(ctx context.Context, q Query[E, D, K]) QueryResponse[D] {
	switch {
	case len(q.EntityIDs) > 0:
		items, err := h.repo.List(ctx, q.EntityIDs)
		if err != nil {
			return QueryFailure[D](err.Error())
		}
		sortEntities(items, q.Sort)
		return h.toListResponse(items, int64(len(items)))

	case q.Predicate != nil:
		all, err := h.repo.GetAll(ctx)
		if err != nil {
			return QueryFailure[D](err.Error())
		}
		matched := make([]E, 0, len(all))
		for _, e := range all {
			if q.Predicate(e) {
				matched = append(matched, e)
			}
		}
		sortEntities(matched, q.Sort)
		return h.toListResponse(matched, int64(len(matched)))

	case q.Page > 0 && q.Size > 0:
		all, err := h.repo.GetAll(ctx)
		if err != nil {
			return QueryFailure[D](err.Error())
		}
		sortEntities(all, q.Sort)

		total := int64(len(all))
		skip := (q.Page - 1) * q.Size
		if skip > len(all) {
			skip = len(all)
		}
		take := q.Size
		if skip+take > len(all) {
			take = len(all) - skip
		}

		resp := h.toListResponse(all[skip:skip+take], total)
		resp.Page = q.Page
		resp.Size = q.Size
		return resp

	case q.Filter != "":
		cond, err := filterquery.Parse(q.Filter)
		if err != nil {
			return QueryFailure[D](err.Error())
		}
		all, err := h.repo.GetAll(ctx)
		if err != nil {
			return QueryFailure[D](err.Error())
		}
		matched, err := filterquery.Apply(all, cond)
		if err != nil {
			return QueryFailure[D](err.Error())
		}
		sortEntities(matched, q.Sort)
		return h.toListResponse(matched, int64(len(matched)))

	default:
		all, err := h.repo.GetAll(ctx)
		if err != nil {
			return QueryFailure[D](err.Error())
		}
		sortEntities(all, q.Sort)
		return h.toListResponse(all, int64(len(all)))
	}
}

// toListResponse преобразует сущности в DTO и собирает успешный ответ.
func (h *QueryHandler[E, D, K]) toListResponse(items []E, total int64) QueryResponse[D] {
	dtos := make([]D, 0, len(items))
	for _, e := range items {
		dtos = append(dtos, h.mapper.ToDto(e))
	}
	return QuerySuccessList(dtos, total)
}
