// Copyright (c) 2025 ToeiRei
// Loadmaster - batch order data loader
// This source code is licensed under the MIT license found in the LICENSE file.

// Per-dialect DDL for the three load targets. The statements are idempotent
// (CREATE ... IF NOT EXISTS) so schema initialization can run before every
// load; versioned migrations are deliberately out of scope.
package db

import (
	"context"
	"fmt"
)

// schemaStatements holds the ordered DDL per database type. customers must
// come first: orders_fact carries a foreign key onto it, and order_items onto
// orders_fact.
//
// MySQL has no CREATE INDEX IF NOT EXISTS, so its secondary indexes are
// declared inline in the CREATE TABLE. SQLite and Postgres create them as
// separate idempotent statements.
var schemaStatements = map[string][]string{
	"mysql": {
		`CREATE TABLE IF NOT EXISTS customers (
			customer_id VARCHAR(30) PRIMARY KEY,
			customer_name VARCHAR(100),
			mobile_number BIGINT UNIQUE,
			region VARCHAR(50)
		)`,
		`CREATE TABLE IF NOT EXISTS orders_fact (
			order_id VARCHAR(30) PRIMARY KEY,
			mobile_number BIGINT,
			order_date_time_utc DATETIME,
			total_amount DECIMAL(10,2),
			INDEX idx_orders_fact_mobile_number (mobile_number),
			INDEX idx_orders_fact_order_date_time_utc (order_date_time_utc),
			FOREIGN KEY (mobile_number) REFERENCES customers(mobile_number)
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id INT AUTO_INCREMENT PRIMARY KEY,
			order_id VARCHAR(30),
			sku_id VARCHAR(30),
			sku_count INT,
			FOREIGN KEY (order_id) REFERENCES orders_fact(order_id)
		)`,
	},
	"sqlite": {
		`CREATE TABLE IF NOT EXISTS customers (
			customer_id TEXT PRIMARY KEY,
			customer_name TEXT,
			mobile_number INTEGER UNIQUE,
			region TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS orders_fact (
			order_id TEXT PRIMARY KEY,
			mobile_number INTEGER,
			order_date_time_utc TIMESTAMP,
			total_amount NUMERIC,
			FOREIGN KEY (mobile_number) REFERENCES customers(mobile_number)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_fact_mobile_number ON orders_fact (mobile_number)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_fact_order_date_time_utc ON orders_fact (order_date_time_utc)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			order_id TEXT,
			sku_id TEXT,
			sku_count INTEGER,
			FOREIGN KEY (order_id) REFERENCES orders_fact(order_id)
		)`,
	},
	"postgres": {
		`CREATE TABLE IF NOT EXISTS customers (
			customer_id VARCHAR(30) PRIMARY KEY,
			customer_name VARCHAR(100),
			mobile_number BIGINT UNIQUE,
			region VARCHAR(50)
		)`,
		`CREATE TABLE IF NOT EXISTS orders_fact (
			order_id VARCHAR(30) PRIMARY KEY,
			mobile_number BIGINT REFERENCES customers(mobile_number),
			order_date_time_utc TIMESTAMP,
			total_amount NUMERIC(10,2)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_fact_mobile_number ON orders_fact (mobile_number)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_fact_order_date_time_utc ON orders_fact (order_date_time_utc)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
			order_id VARCHAR(30) REFERENCES orders_fact(order_id),
			sku_id VARCHAR(30),
			sku_count INTEGER
		)`,
	},
}

// InitSchema ensures the three tables, their constraints, and the orders_fact
// indexes exist. Safe to call repeatedly. Errors from the driver (unreachable
// database, missing privileges) propagate to the caller.
func (s *BunStore) InitSchema(ctx context.Context) error {
	stmts, ok := schemaStatements[s.dbType]
	if !ok {
		return fmt.Errorf("unsupported database type: %s", s.dbType)
	}
	for _, stmt := range stmts {
		if _, err := ExecRaw(ctx, s.bun, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	dbLogf("db: schema ensured for %s", s.dbType)
	return nil
}
