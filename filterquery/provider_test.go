package filterquery_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/x-research-team/mediator-framework/filterquery"
)

// Тест обнаружения провайдера по имени или строке подключения.
func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want filterquery.Provider
	}{
		{"Npgsql", filterquery.ProviderPostgreSQL},
		{"postgres://user@host/db", filterquery.ProviderPostgreSQL},
		{"SqlServer", filterquery.ProviderSQLServer},
		{"mssql+tcp", filterquery.ProviderSQLServer},
		{"MySql.Data", filterquery.ProviderMySQL},
		{"mariadb", filterquery.ProviderMySQL},
		{"sqlite3", filterquery.ProviderSQLite},
		{"Oracle.EntityFrameworkCore", filterquery.ProviderOracle},
		{"inmemory", filterquery.ProviderInMemory},
		{"", filterquery.ProviderUnknown},
		{"cassandra", filterquery.ProviderUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, filterquery.Detect(tt.name), "имя провайдера: %q", tt.name)
	}
}

// Тест детектора: провайдер вычисляется ровно один раз
// и безопасен для конкурентного чтения.
func TestDetector_Concurrency(t *testing.T) {
	t.Parallel()

	d := filterquery.NewDetector("postgres")

	var wg sync.WaitGroup
	results := make([]filterquery.Provider, 20)
	for i := range results {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			results[n] = d.Provider()
		}(i)
	}
	wg.Wait()

	for _, p := range results {
		assert.Equal(t, filterquery.ProviderPostgreSQL, p)
	}
}
