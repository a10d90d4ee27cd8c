// Copyright (c) 2025 ToeiRei
// Loadmaster - batch order data loader
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/toeirei/loadmaster/internal/model"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	// SQL drivers required for runtime and tests.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// DefaultBatchSize is the number of rows sent to the database in one insert
// statement. It bounds statement size and per-call memory.
const DefaultBatchSize = 500

// sqlOpenFunc allows tests to override database opening behavior.
var sqlOpenFunc = sql.Open

// Store defines the append-only operations the loaders need. The handle is
// passed explicitly to each caller; there is no package-level singleton.
type Store interface {
	InitSchema(ctx context.Context) error
	InsertCustomers(ctx context.Context, customers []model.Customer) error
	InsertOrders(ctx context.Context, orders []model.Order) error
	InsertOrderItems(ctx context.Context, items []model.OrderItem) error
	Close() error
}

// BunStore is the Bun-backed Store implementation shared by all supported
// database types.
type BunStore struct {
	db        *sql.DB
	bun       *bun.DB
	dbType    string
	batchSize int
}

// NewStoreFromDSN opens a database connection for the given type ("mysql",
// "sqlite", or "postgres") and wraps it in a BunStore. It does not create the
// schema; call InitSchema before loading.
func NewStoreFromDSN(dbType, dsn string) (*BunStore, error) {
	driverName := dbType
	switch dbType {
	case "mysql", "sqlite":
	case "postgres":
		// The pgx stdlib adapter registers driver name "pgx".
		driverName = "pgx"
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}

	if dbType == "sqlite" {
		dsn = sqliteDSN(dsn)
	}

	start := time.Now()
	sqlDB, err := sqlOpenFunc(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Conservative pool defaults, overridable via environment for CI or
	// production tuning.
	maxOpen := envInt("LOADMASTER_DB_MAX_OPEN_CONNS", 25)
	maxIdle := envInt("LOADMASTER_DB_MAX_IDLE_CONNS", 25)
	connMax := time.Duration(envInt("LOADMASTER_DB_CONN_MAX_LIFETIME_SECONDS", 300)) * time.Second

	// In-memory SQLite databases are per-connection unless shared; force a
	// single open connection so the schema stays visible. Tests rely on this.
	if dbType == "sqlite" && isMemoryDSN(dsn) {
		maxOpen = 1
		maxIdle = 1
	}

	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(connMax)

	bunDB := createBunDB(sqlDB, dbType)
	dbLogf("db: opened %s driver in %s (max open=%d)", driverName, time.Since(start), maxOpen)

	return &BunStore{db: sqlDB, bun: bunDB, dbType: dbType, batchSize: DefaultBatchSize}, nil
}

// createBunDB wraps an open sql.DB in a bun.DB with the matching dialect.
func createBunDB(sqlDB *sql.DB, dbType string) *bun.DB {
	switch dbType {
	case "mysql":
		return bun.NewDB(sqlDB, mysqldialect.New())
	case "postgres":
		return bun.NewDB(sqlDB, pgdialect.New())
	default:
		return bun.NewDB(sqlDB, sqlitedialect.New())
	}
}

// sqliteDSN makes sure foreign key enforcement is on for SQLite connections;
// the schema's FK constraints are otherwise silently ignored.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_pragma=foreign_keys") {
		return dsn
	}
	if dsn == ":memory:" {
		return "file::memory:?_pragma=foreign_keys(1)"
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

func isMemoryDSN(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

// SetBatchSize overrides the insert batch size. Values below one are ignored.
func (s *BunStore) SetBatchSize(n int) {
	if n > 0 {
		s.batchSize = n
	}
}

// Bun exposes the underlying bun.DB for raw queries in tests.
func (s *BunStore) Bun() *bun.DB {
	return s.bun
}

// Close releases the underlying database handle.
func (s *BunStore) Close() error {
	return s.bun.Close()
}

// InsertCustomers appends customer rows in batches. A duplicate customer ID
// or mobile number fails the whole call with ErrDuplicate; rows from batches
// committed before the failure stay committed.
func (s *BunStore) InsertCustomers(ctx context.Context, customers []model.Customer) error {
	rows := make([]CustomerModel, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, customerToModel(c))
	}
	return insertInBatches(ctx, s.bun, rows, s.batchSize)
}

// InsertOrders appends order fact rows in batches. An order referencing an
// unknown mobile number fails with ErrForeignKey.
func (s *BunStore) InsertOrders(ctx context.Context, orders []model.Order) error {
	rows := make([]OrderModel, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, orderToModel(o))
	}
	return insertInBatches(ctx, s.bun, rows, s.batchSize)
}

// InsertOrderItems appends line-item rows in batches; the database assigns
// each row's synthetic ID.
func (s *BunStore) InsertOrderItems(ctx context.Context, items []model.OrderItem) error {
	rows := make([]OrderItemModel, 0, len(items))
	for _, i := range items {
		rows = append(rows, orderItemToModel(i))
	}
	return insertInBatches(ctx, s.bun, rows, s.batchSize)
}

// insertInBatches issues one multi-row INSERT per chunk, sequentially. Each
// chunk is its own statement; there is no surrounding transaction, so earlier
// chunks remain committed when a later one fails.
func insertInBatches[T any](ctx context.Context, bdb bun.IDB, rows []T, size int) error {
	if size <= 0 {
		size = DefaultBatchSize
	}
	for start := 0; start < len(rows); start += size {
		end := min(start+size, len(rows))
		chunk := rows[start:end]
		if _, err := bdb.NewInsert().Model(&chunk).Exec(ctx); err != nil {
			return MapDBError(err)
		}
		dbLogf("db: inserted rows %d-%d of %d", start, end, len(rows))
	}
	return nil
}
