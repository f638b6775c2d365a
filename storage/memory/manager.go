package memory

import (
	"context"

	"github.com/x-research-team/mediator-framework/mediator/behavior"
)

// Snapshotter определяет хранилище, умеющее снимать и восстанавливать
// копию своего состояния.
type Snapshotter interface {
	Snapshot() func()
}

// txKey — ключ контекста, помечающий открытую снимочную транзакцию.
type txKey struct{}

// Manager — снимочная реализация behavior.Manager поверх внутрипроцессных
// хранилищ: Begin снимает копию состояния каждого хранилища, Rollback
// восстанавливает ее, Commit отбрасывает. Откат корректен при одном
// писателе на область; для конкурентных писателей предназначен
// менеджер на настоящем хранилище.
type Manager struct {
	stores []Snapshotter
}

// NewManager создает менеджер поверх перечисленных хранилищ.
func NewManager(stores ...Snapshotter) *Manager {
	return &Manager{stores: stores}
}

// Begin реализует behavior.Manager.
func (m *Manager) Begin(ctx context.Context, opts behavior.TxOptions) (context.Context, behavior.Tx, error) {
	restores := make([]func(), 0, len(m.stores))
	for _, s := range m.stores {
		restores = append(restores, s.Snapshot())
	}

	return context.WithValue(ctx, txKey{}, struct{}{}), &memoryTx{restores: restores}, nil
}

// InTransaction реализует behavior.Manager.
func (m *Manager) InTransaction(ctx context.Context) bool {
	return ctx.Value(txKey{}) != nil
}

// memoryTx — снимочная транзакция.
type memoryTx struct {
	restores []func()
}

// Commit отбрасывает снимки: состояние хранилищ уже актуально.
func (t *memoryTx) Commit(ctx context.Context) error {
	t.restores = nil
	return nil
}

// Rollback восстанавливает снимки в обратном порядке.
func (t *memoryTx) Rollback(ctx context.Context) error {
	for i := len(t.restores) - 1; i >= 0; i-- {
		t.restores[i]()
	}
	t.restores = nil
	return nil
}
