package behavior_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x-research-team/mediator-framework/mediator/behavior"
	"github.com/x-research-team/mediator-framework/storage/memory"
)

// fakeTx — управляемая транзакция для проверки поведения.
type fakeTx struct {
	commits   atomic.Int64
	rollbacks atomic.Int64
	commitErr error
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.commits.Add(1)
	return t.commitErr
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.rollbacks.Add(1)
	return nil
}

// fakeManager — управляемый менеджер транзакций.
type fakeManager struct {
	tx       *fakeTx
	begins   atomic.Int64
	beginErr error
}

type fakeTxKey struct{}

func (m *fakeManager) Begin(ctx context.Context, opts behavior.TxOptions) (context.Context, behavior.Tx, error) {
	m.begins.Add(1)
	if m.beginErr != nil {
		return ctx, nil, m.beginErr
	}
	return context.WithValue(ctx, fakeTxKey{}, struct{}{}), m.tx, nil
}

func (m *fakeManager) InTransaction(ctx context.Context) bool {
	return ctx.Value(fakeTxKey{}) != nil
}

// Тест прозрачности: запрос без возможности не открывает транзакцию.
func TestTransaction_NoCapability_PassThrough(t *testing.T) {
	t.Parallel()

	mgr := &fakeManager{tx: &fakeTx{}}
	b := behavior.NewTransaction[plainRequest, string](mgr, nil)
	var calls atomic.Int64

	result, err := b.Handle(context.Background(), plainRequest{Value: "x"}, okHandler[plainRequest](&calls, "ok"))

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.EqualValues(t, 0, mgr.begins.Load(), "Транзакция не должна открываться")
	assert.EqualValues(t, 1, calls.Load())
}

// Тест успешного пути: транзакция открывается и фиксируется ровно один раз.
func TestTransaction_CommitOnSuccess(t *testing.T) {
	t.Parallel()

	tx := &fakeTx{}
	mgr := &fakeManager{tx: tx}
	b := behavior.NewTransaction[transactionalRequest, string](mgr, nil)
	var calls atomic.Int64

	result, err := b.Handle(context.Background(), transactionalRequest{}, okHandler[transactionalRequest](&calls, "ok"))

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.EqualValues(t, 1, mgr.begins.Load())
	assert.EqualValues(t, 1, tx.commits.Load(), "Должна быть ровно одна фиксация")
	assert.EqualValues(t, 0, tx.rollbacks.Load())
}

// Тест отката: ошибка обработчика откатывает транзакцию
// и распространяется без изменений.
func TestTransaction_RollbackOnError(t *testing.T) {
	t.Parallel()

	tx := &fakeTx{}
	mgr := &fakeManager{tx: tx}
	b := behavior.NewTransaction[transactionalRequest, string](mgr, nil)

	boom := errors.New("сбой обработчика")
	var calls atomic.Int64
	handler := countingHandler(&calls, func(ctx context.Context, req transactionalRequest) (string, error) {
		return "", boom
	})

	_, err := b.Handle(context.Background(), transactionalRequest{}, handler)

	require.ErrorIs(t, err, boom, "Исходная ошибка должна распространяться без изменений")
	assert.EqualValues(t, 0, tx.commits.Load())
	assert.EqualValues(t, 1, tx.rollbacks.Load(), "Должен быть ровно один откат")
}

// Тест присоединения: вложенный вызов в уже открытой области
// не открывает вторую транзакцию.
func TestTransaction_NestedJoinsAmbient(t *testing.T) {
	t.Parallel()

	tx := &fakeTx{}
	mgr := &fakeManager{tx: tx}
	b := behavior.NewTransaction[transactionalRequest, string](mgr, nil)

	var inner atomic.Int64
	outerHandler := func(ctx context.Context, req transactionalRequest) (string, error) {
		// Вложенный вызов на том же контексте.
		return b.Handle(ctx, req, okHandler[transactionalRequest](&inner, "inner"))
	}

	result, err := b.Handle(context.Background(), transactionalRequest{}, outerHandler)

	require.NoError(t, err)
	assert.Equal(t, "inner", result)
	assert.EqualValues(t, 1, mgr.begins.Load(), "Вложенный вызов должен присоединиться к открытой области")
	assert.EqualValues(t, 1, tx.commits.Load())
}

// Тест провала фиксации: ошибка Commit оборачивается в ErrTransactionAborted.
func TestTransaction_CommitFailure(t *testing.T) {
	t.Parallel()

	commitErr := errors.New("соединение потеряно")
	tx := &fakeTx{commitErr: commitErr}
	mgr := &fakeManager{tx: tx}
	b := behavior.NewTransaction[transactionalRequest, string](mgr, nil)
	var calls atomic.Int64

	_, err := b.Handle(context.Background(), transactionalRequest{}, okHandler[transactionalRequest](&calls, "ok"))

	require.Error(t, err)
	assert.ErrorIs(t, err, behavior.ErrTransactionAborted)
	assert.ErrorIs(t, err, commitErr)
}

// Тест таймаута области: истечение собственного таймаута дает
// ErrTransactionTimeout и откат.
func TestTransaction_Timeout(t *testing.T) {
	t.Parallel()

	tx := &fakeTx{}
	mgr := &fakeManager{tx: tx}
	b := behavior.NewTransaction[transactionalRequest, string](mgr, nil)

	handler := func(ctx context.Context, req transactionalRequest) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}

	req := transactionalRequest{opts: behavior.TxOptions{Timeout: 10 * time.Millisecond}}
	_, err := b.Handle(context.Background(), req, handler)

	require.Error(t, err)
	assert.ErrorIs(t, err, behavior.ErrTransactionTimeout, "Истечение таймаута области должно давать ErrTransactionTimeout")
	assert.EqualValues(t, 1, tx.rollbacks.Load())
}

// Тест отмены вызывающим: отмена внешнего контекста распространяется
// как отмена, а не как таймаут транзакции.
func TestTransaction_CallerCancellation(t *testing.T) {
	t.Parallel()

	tx := &fakeTx{}
	mgr := &fakeManager{tx: tx}
	b := behavior.NewTransaction[transactionalRequest, string](mgr, nil)

	ctx, cancel := context.WithCancel(context.Background())
	handler := func(c context.Context, req transactionalRequest) (string, error) {
		cancel()
		<-c.Done()
		return "", c.Err()
	}

	_, err := b.Handle(ctx, transactionalRequest{}, handler)

	require.Error(t, err)
	assert.NotErrorIs(t, err, behavior.ErrTransactionTimeout, "Отмена вызывающего не должна подменяться таймаутом")
	assert.EqualValues(t, 1, tx.rollbacks.Load())
}

// testItem — сущность для проверки отката на снимочном хранилище.
type testItem struct {
	ID   string
	Name string
}

func (i testItem) Identity() string { return i.ID }

// Тест отката на снимочном хранилище: после ошибки обработчика
// состояние хранилища не содержит частичных изменений.
func TestTransaction_RollbackLeavesNoPartialState(t *testing.T) {
	t.Parallel()

	repo := memory.NewRepository[testItem, string]()
	mgr := memory.NewManager(repo)
	b := behavior.NewTransaction[transactionalRequest, string](mgr, nil)

	boom := errors.New("сбой после записи")
	handler := func(ctx context.Context, req transactionalRequest) (string, error) {
		if _, err := repo.Add(ctx, testItem{ID: "1", Name: "первый"}); err != nil {
			return "", err
		}
		if _, err := repo.Persist(ctx); err != nil {
			return "", err
		}
		return "", boom
	}

	_, err := b.Handle(context.Background(), transactionalRequest{}, handler)
	require.ErrorIs(t, err, boom)

	all, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all, "После отката хранилище не должно содержать частичных изменений")
}
