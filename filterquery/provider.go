// Package filterquery переводит ограниченный синтаксис фильтра
// (одно условие вида where: { field: { op: value } }) в предикаты
// над источником данных и выбирает стратегию сопоставления JSON-колонок
// в зависимости от провайдера хранилища.
package filterquery

import (
	"strings"
	"sync"
)

// Provider идентифицирует обнаруженный движок хранилища.
type Provider int

const (
	// ProviderUnknown — провайдер не распознан.
	ProviderUnknown Provider = iota
	// ProviderPostgreSQL — PostgreSQL.
	ProviderPostgreSQL
	// ProviderSQLServer — Microsoft SQL Server.
	ProviderSQLServer
	// ProviderMySQL — MySQL или MariaDB.
	ProviderMySQL
	// ProviderSQLite — SQLite.
	ProviderSQLite
	// ProviderOracle — Oracle.
	ProviderOracle
	// ProviderInMemory — внутрипроцессное хранилище.
	ProviderInMemory
)

// String возвращает имя провайдера.
func (p Provider) String() string {
	switch p {
	case ProviderPostgreSQL:
		return "PostgreSQL"
	case ProviderSQLServer:
		return "SQLServer"
	case ProviderMySQL:
		return "MySQL"
	case ProviderSQLite:
		return "SQLite"
	case ProviderOracle:
		return "Oracle"
	case ProviderInMemory:
		return "InMemory"
	default:
		return "Unknown"
	}
}

// Detect выводит провайдера из имени провайдера или строки подключения.
func Detect(providerName string) Provider {
	name := strings.ToLower(providerName)

	switch {
	case strings.Contains(name, "npgsql"), strings.Contains(name, "postgres"):
		return ProviderPostgreSQL
	case strings.Contains(name, "sqlserver"), strings.Contains(name, "mssql"):
		return ProviderSQLServer
	case strings.Contains(name, "mysql"), strings.Contains(name, "mariadb"):
		return ProviderMySQL
	case strings.Contains(name, "sqlite"):
		return ProviderSQLite
	case strings.Contains(name, "oracle"):
		return ProviderOracle
	case strings.Contains(name, "memory"):
		return ProviderInMemory
	default:
		return ProviderUnknown
	}
}

// Detector вычисляет провайдера ровно один раз на экземпляр репозитория
// и кэширует результат на все время его жизни. Безопасен для конкурентного чтения.
type Detector struct {
	name     string
	once     sync.Once
	provider Provider
}

// NewDetector создает детектор для указанного имени провайдера.
func NewDetector(providerName string) *Detector {
	return &Detector{name: providerName}
}

// Provider возвращает обнаруженный тег провайдера.
func (d *Detector) Provider() Provider {
	d.once.Do(func() {
		d.provider = Detect(d.name)
	})
	return d.provider
}
