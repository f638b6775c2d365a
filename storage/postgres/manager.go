package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/x-research-team/mediator-framework/mediator/behavior"
)

// Manager — реализация behavior.Manager поверх пула соединений pgx.
// Открытая транзакция помещается в контекст; репозитории обязаны извлекать
// ее через QuerierFrom, чтобы их операции выполнялись в рамках области.
type Manager struct {
	pool *pgxpool.Pool
}

// NewManager создает менеджер поверх пула соединений.
func NewManager(pool *pgxpool.Pool) *Manager {
	return &Manager{pool: pool}
}

// Begin реализует behavior.Manager.
func (m *Manager) Begin(ctx context.Context, opts behavior.TxOptions) (context.Context, behavior.Tx, error) {
	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel: isoLevel(opts.Isolation),
	})
	if err != nil {
		return ctx, nil, fmt.Errorf("не удалось открыть транзакцию postgres: %w", err)
	}

	return WithTx(ctx, tx), &pgxTx{tx: tx}, nil
}

// InTransaction реализует behavior.Manager.
func (m *Manager) InTransaction(ctx context.Context) bool {
	_, ok := TxFrom(ctx)
	return ok
}

// isoLevel переводит уровень изоляции поведения в уровень pgx.
// Пустой уровень оставляет выбор за сервером (read committed по умолчанию).
func isoLevel(level behavior.IsolationLevel) pgx.TxIsoLevel {
	switch level {
	case behavior.LevelRepeatableRead:
		return pgx.RepeatableRead
	case behavior.LevelSerializable:
		return pgx.Serializable
	case behavior.LevelReadCommitted:
		return pgx.ReadCommitted
	default:
		return ""
	}
}

// pgxTx адаптирует pgx.Tx к behavior.Tx.
type pgxTx struct {
	tx pgx.Tx
}

// Commit фиксирует транзакцию.
func (t *pgxTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback откатывает транзакцию.
func (t *pgxTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}
