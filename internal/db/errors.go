// Copyright (c) 2025 ToeiRei
// Loadmaster - batch order data loader
// This source code is licensed under the MIT license found in the LICENSE file.

// Shared database errors and the driver-error mapping helper.
package db

import (
	"errors"
	"strings"
)

// ErrDuplicate is returned when an insert collides with an existing primary
// key or unique constraint. Re-running a load against already-loaded data
// surfaces this error.
var ErrDuplicate = errors.New("duplicate record")

// ErrForeignKey is returned when an inserted row references a parent row
// that does not exist (order without its customer, item without its order).
var ErrForeignKey = errors.New("foreign key violation")

// MapDBError inspects low-level driver errors and maps common constraint
// violations to package-level sentinel errors. This is a conservative,
// string-based mapping so this file stays free of SQL driver imports.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}
	le := strings.ToLower(err.Error())
	// MySQL 1452, Postgres foreign_key_violation (23503), SQLite FK constraint.
	if strings.Contains(le, "foreign key") || strings.Contains(le, "23503") || strings.Contains(le, "1452") {
		return errors.Join(ErrForeignKey, err)
	}
	// MySQL duplicate entry (1062), Postgres unique violation (23505), SQLite unique constraint.
	if strings.Contains(le, "duplicate") || strings.Contains(le, "unique") || strings.Contains(le, "23505") || strings.Contains(le, "1062") {
		return errors.Join(ErrDuplicate, err)
	}
	return err
}
