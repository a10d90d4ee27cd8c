// Copyright (c) 2025 ToeiRei
// Loadmaster - batch order data loader
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/toeirei/loadmaster/internal/model"
)

// newTestStore opens an in-memory SQLite store with the schema applied.
func newTestStore(t *testing.T) *BunStore {
	t.Helper()
	dsn := fmt.Sprintf("file:test_%s?mode=memory&cache=shared", t.Name())
	s, err := NewStoreFromDSN("sqlite", dsn)
	if err != nil {
		t.Fatalf("NewStoreFromDSN failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	if err := s.InitSchema(context.Background()); err != nil {
		t.Fatalf("InitSchema failed: %v", err)
	}
	return s
}

func tableCount(t *testing.T, s *BunStore, table string) int {
	t.Helper()
	var n int
	if err := QueryRawInto(context.Background(), s.Bun(), &n, "SELECT COUNT(*) FROM "+table); err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return n
}

func TestNewStoreFromDSN_UnsupportedType(t *testing.T) {
	if _, err := NewStoreFromDSN("oracle", "whatever"); err == nil {
		t.Fatalf("expected error for unsupported database type")
	}
}

func TestInitSchema_Idempotent(t *testing.T) {
	s := newTestStore(t)

	// Second run must be a no-op, not an error.
	if err := s.InitSchema(context.Background()); err != nil {
		t.Fatalf("second InitSchema failed: %v", err)
	}

	var n int
	err := QueryRawInto(context.Background(), s.Bun(), &n,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('customers', 'orders_fact', 'order_items')")
	if err != nil {
		t.Fatalf("failed to inspect sqlite_master: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 tables, found %d", n)
	}
}

func TestInsertCustomers_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.InsertCustomers(ctx, []model.Customer{
		{ID: "C1", Name: "A", MobileNumber: 100, Region: "north"},
	})
	if err != nil {
		t.Fatalf("InsertCustomers failed: %v", err)
	}

	var got []CustomerModel
	if err := s.Bun().NewSelect().Model(&got).Scan(ctx); err != nil {
		t.Fatalf("failed to read back customers: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 row, got %d", len(got))
	}
	c := got[0]
	if c.CustomerID != "C1" || c.CustomerName != "A" || c.MobileNumber != 100 || c.Region != "north" {
		t.Fatalf("unexpected row: %+v", c)
	}
}

func TestInsertCustomers_DuplicateKey(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rows := []model.Customer{{ID: "C1", Name: "A", MobileNumber: 100, Region: "north"}}
	if err := s.InsertCustomers(ctx, rows); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	err := s.InsertCustomers(ctx, rows)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate on re-insert, got %v", err)
	}
}

func TestInsertCustomers_DuplicateMobileNumber(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.InsertCustomers(ctx, []model.Customer{{ID: "C1", Name: "A", MobileNumber: 100, Region: "north"}}); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	err := s.InsertCustomers(ctx, []model.Customer{{ID: "C2", Name: "B", MobileNumber: 100, Region: "south"}})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for reused mobile number, got %v", err)
	}
}

func TestInsertOrders_ForeignKeyViolation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.InsertOrders(ctx, []model.Order{
		{ID: "O1", MobileNumber: 999, PlacedAt: time.Date(2024, 1, 1, 5, 0, 0, 0, time.UTC), TotalAmount: 10},
	})
	if !errors.Is(err, ErrForeignKey) {
		t.Fatalf("expected ErrForeignKey for unknown customer, got %v", err)
	}
	if n := tableCount(t, s, "orders_fact"); n != 0 {
		t.Fatalf("expected no order rows after FK failure, found %d", n)
	}
}

func TestInsertOrderItems_ForeignKeyViolation(t *testing.T) {
	s := newTestStore(t)

	err := s.InsertOrderItems(context.Background(), []model.OrderItem{{OrderID: "O404", SKU: "S1", Count: 1}})
	if !errors.Is(err, ErrForeignKey) {
		t.Fatalf("expected ErrForeignKey for unknown order, got %v", err)
	}
}

func TestInsertOrders_ChunkedBatches(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.InsertCustomers(ctx, []model.Customer{{ID: "C1", Name: "A", MobileNumber: 100, Region: "north"}}); err != nil {
		t.Fatalf("customer insert failed: %v", err)
	}

	// Shrink the batch size so the 120 rows span several statements.
	s.SetBatchSize(50)
	orders := make([]model.Order, 0, 120)
	for i := 0; i < 120; i++ {
		orders = append(orders, model.Order{
			ID:           fmt.Sprintf("O%03d", i),
			MobileNumber: 100,
			PlacedAt:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Minute),
			TotalAmount:  float64(i),
		})
	}
	if err := s.InsertOrders(ctx, orders); err != nil {
		t.Fatalf("InsertOrders failed: %v", err)
	}
	if n := tableCount(t, s, "orders_fact"); n != 120 {
		t.Fatalf("expected 120 orders, found %d", n)
	}
}

func TestInsertCustomers_EmptyInput(t *testing.T) {
	s := newTestStore(t)
	if err := s.InsertCustomers(context.Background(), nil); err != nil {
		t.Fatalf("empty insert should be a no-op, got %v", err)
	}
}

func TestOrderItems_AutoincrementIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.InsertCustomers(ctx, []model.Customer{{ID: "C1", Name: "A", MobileNumber: 100, Region: "north"}}); err != nil {
		t.Fatalf("customer insert failed: %v", err)
	}
	if err := s.InsertOrders(ctx, []model.Order{{ID: "O1", MobileNumber: 100, PlacedAt: time.Now().UTC(), TotalAmount: 10}}); err != nil {
		t.Fatalf("order insert failed: %v", err)
	}
	items := []model.OrderItem{
		{OrderID: "O1", SKU: "S1", Count: 2},
		{OrderID: "O1", SKU: "S2", Count: 1},
	}
	if err := s.InsertOrderItems(ctx, items); err != nil {
		t.Fatalf("item insert failed: %v", err)
	}

	var ids []int64
	if err := QueryRawInto(ctx, s.Bun(), &ids, "SELECT id FROM order_items ORDER BY id"); err != nil {
		t.Fatalf("failed to read item ids: %v", err)
	}
	if len(ids) != 2 || ids[0] == 0 || ids[0] == ids[1] {
		t.Fatalf("expected two distinct assigned ids, got %v", ids)
	}
}

func TestMapDBError(t *testing.T) {
	if MapDBError(nil) != nil {
		t.Fatalf("nil must map to nil")
	}
	if err := MapDBError(errors.New("UNIQUE constraint failed: customers.customer_id")); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("unique violation should map to ErrDuplicate, got %v", err)
	}
	if err := MapDBError(errors.New("Error 1452: Cannot add or update a child row")); !errors.Is(err, ErrForeignKey) {
		t.Fatalf("FK violation should map to ErrForeignKey, got %v", err)
	}
	plain := errors.New("connection refused")
	if err := MapDBError(plain); !errors.Is(err, plain) {
		t.Fatalf("unrelated errors must pass through, got %v", err)
	}
}
