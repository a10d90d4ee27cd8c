// Copyright (c) 2025 ToeiRei
// Loadmaster - batch order data loader
// This source code is licensed under the MIT license found in the LICENSE file.

// Package db is the data-access layer for Loadmaster.
//
// It abstracts the underlying database (MySQL in production, SQLite for
// local runs and tests, PostgreSQL as an alternative backend) behind the
// small Store interface, backed by a single Bun-based implementation.
//
// The layer is deliberately append-only: it ensures the schema exists and
// inserts rows in fixed-size batches. There are no updates, deletes, or
// upserts, and no transaction spans more than one batch. Re-inserting a
// primary key fails with ErrDuplicate; that is expected caller-visible
// behavior, not something this package recovers from.
//
// Testing notes
//   - Prefer NewStoreFromDSN("sqlite", "file:test_x?mode=memory&cache=shared")
//     in tests that need real constraint semantics; foreign key enforcement
//     is switched on for SQLite automatically.
//   - Loaders depend on the Store interface, so a fake store is enough for
//     tests that don't need a database.
package db
