// Package postgres содержит опору хранилища PostgreSQL: интерфейс Querier,
// совместимый с пулом и транзакцией, и менеджер транзакций для поведения
// behavior.Transaction, несущий открытую транзакцию в контексте вызова.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProviderName — имя провайдера для трансляции фильтров.
const ProviderName = "postgres"

// Querier определяет интерфейс, который абстрагирует выполнение SQL-запросов.
// Он совместим как с *pgxpool.Pool, так и с pgx.Tx, что позволяет использовать
// репозиторий как в рамках транзакции, так и без нее.
type Querier interface {
	// Exec выполняет SQL-запрос, который не возвращает строк.
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)

	// Query выполняет SQL-запрос и возвращает результат в виде pgx.Rows.
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)

	// QueryRow выполняет SQL-запрос и возвращает одну строку результата.
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// txKey — ключ контекста для окружающей транзакции.
type txKey struct{}

// WithTx возвращает производный контекст, несущий транзакцию.
func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFrom извлекает окружающую транзакцию из контекста.
func TxFrom(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	return tx, ok
}

// QuerierFrom возвращает исполнителя запросов для контекста:
// окружающую транзакцию, если она открыта, иначе пул.
func QuerierFrom(ctx context.Context, pool *pgxpool.Pool) Querier {
	if tx, ok := TxFrom(ctx); ok {
		return tx
	}
	return pool
}
