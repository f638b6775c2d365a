package behavior

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/x-research-team/mediator-framework/mediator"
)

// DefaultTransactionTimeout — таймаут транзакционной области по умолчанию.
const DefaultTransactionTimeout = time.Minute

var (
	// ErrTransactionTimeout возвращается, когда истек собственный таймаут
	// транзакционной области. Это исчерпание ресурса, а не отмена вызова:
	// отмена со стороны вызывающего распространяется без подмены.
	ErrTransactionTimeout = errors.New("истек таймаут транзакции")

	// ErrTransactionAborted возвращается, когда фиксация транзакции не удалась.
	ErrTransactionAborted = errors.New("транзакция прервана")
)

// IsolationLevel задает уровень изоляции транзакции.
type IsolationLevel string

const (
	// LevelDefault оставляет выбор уровня изоляции за провайдером хранилища.
	LevelDefault IsolationLevel = ""
	// LevelReadCommitted — уровень изоляции read committed.
	LevelReadCommitted IsolationLevel = "read committed"
	// LevelRepeatableRead — уровень изоляции repeatable read.
	LevelRepeatableRead IsolationLevel = "repeatable read"
	// LevelSerializable — уровень изоляции serializable.
	LevelSerializable IsolationLevel = "serializable"
)

// TxOptions описывает параметры транзакционной области запроса.
type TxOptions struct {
	// Isolation — уровень изоляции; LevelDefault означает значение провайдера.
	Isolation IsolationLevel

	// Timeout — предельная длительность области;
	// неположительное значение заменяется на DefaultTransactionTimeout.
	Timeout time.Duration
}

// Transactional определяет возможность выполнения запроса в транзакции.
type Transactional interface {
	TransactionOptions() TxOptions
}

// Tx представляет открытую транзакцию.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Manager определяет контракт управления транзакциями для поведения Transaction.
// Реализация ОБЯЗАНА поместить объект транзакции в возвращаемый контекст,
// чтобы нижележащие репозитории могли извлечь его и выполнить свои операции
// в рамках этой транзакции.
type Manager interface {
	// Begin открывает новую транзакцию и возвращает производный контекст,
	// несущий ее как окружающую транзакцию вызова.
	Begin(ctx context.Context, opts TxOptions) (context.Context, Tx, error)

	// InTransaction сообщает, несет ли контекст уже открытую транзакцию.
	InTransaction(ctx context.Context) bool
}

// Transaction — это поведение транзакционной области для запросов
// с возможностью Transactional. Вложенные вызовы на одной логической цепочке
// присоединяются к уже открытой области вместо создания независимой;
// параллельные несвязанные вызовы не видят чужих транзакций, поскольку
// область привязана к контексту, а не к процессу.
type Transaction[R mediator.Request[T], T any] struct {
	manager Manager
	logger  *slog.Logger
}

// NewTransaction создает новое транзакционное поведение поверх менеджера.
func NewTransaction[R mediator.Request[T], T any](manager Manager, logger *slog.Logger) *Transaction[R, T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Transaction[R, T]{manager: manager, logger: logger}
}

// Handle реализует интерфейс mediator.Behavior.
func (b *Transaction[R, T]) Handle(ctx context.Context, req R, next mediator.Handler[R, T]) (T, error) {
	tr, ok := any(req).(Transactional)
	if !ok {
		return next(ctx, req)
	}

	if b.manager.InTransaction(ctx) {
		// Присоединение к внешней области: фиксацией владеет открывший ее вызов.
		return next(ctx, req)
	}

	opts := tr.TransactionOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTransactionTimeout
	}

	scopeCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	txCtx, tx, err := b.manager.Begin(scopeCtx, opts)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("не удалось открыть транзакцию: %w", err)
	}

	start := time.Now()
	result, err := next(txCtx, req)
	if err != nil {
		// Откат выполняется и после истечения таймаута области,
		// поэтому контекст отката отвязан от ее отмены.
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
			b.logger.Error("ошибка отката транзакции",
				slog.Any("error", rbErr),
				slog.Duration("duration", time.Since(start)),
			)
		}

		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			var zero T
			return zero, fmt.Errorf("%w (таймаут %s)", ErrTransactionTimeout, opts.Timeout)
		}

		var zero T
		return zero, err
	}

	if err := tx.Commit(txCtx); err != nil {
		b.logger.Error("ошибка фиксации транзакции",
			slog.Any("error", err),
			slog.Duration("duration", time.Since(start)),
		)
		var zero T
		return zero, fmt.Errorf("%w: %w", ErrTransactionAborted, err)
	}

	b.logger.Debug("транзакция зафиксирована", slog.Duration("duration", time.Since(start)))
	return result, nil
}
