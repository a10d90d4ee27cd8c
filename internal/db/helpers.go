// Copyright (c) 2025 ToeiRei
// Loadmaster - batch order data loader
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"
)

// rawProvider accepts either *bun.DB or bun.Tx; both expose NewRaw.
type rawProvider interface {
	NewRaw(query string, args ...interface{}) *bun.RawQuery
}

// ExecRaw executes a raw SQL statement through Bun and returns the standard
// sql.Result.
func ExecRaw(ctx context.Context, exec rawProvider, query string, args ...interface{}) (sql.Result, error) {
	return exec.NewRaw(query, args...).Exec(ctx)
}

// QueryRawInto runs a raw query and scans the result into dest.
func QueryRawInto(ctx context.Context, exec rawProvider, dest interface{}, query string, args ...interface{}) error {
	return exec.NewRaw(query, args...).Scan(ctx, dest)
}
