// Copyright (c) 2025 ToeiRei
// Loadmaster - batch order data loader
// This source code is licensed under the MIT license found in the LICENSE file.

// Package load implements the table-based loading sequence: ensure the
// schema exists, append customers, then append orders and their line items.
// The flow is strictly linear and append-only; the first error aborts the
// run and leaves earlier committed batches in place for the caller to
// handle.
package load

import (
	"context"
	"fmt"

	"github.com/toeirei/loadmaster/internal/db"
	"github.com/toeirei/loadmaster/internal/logging"
	"github.com/toeirei/loadmaster/internal/model"
	"github.com/toeirei/loadmaster/internal/table"
)

// Column sets projected from the cleaned inputs, in insertion order.
var (
	customerColumns  = []string{"customer_id", "customer_name", "mobile_number", "region"}
	orderFactColumns = []string{"order_id", "mobile_number", "order_date_time_utc", "total_amount"}
	orderItemColumns = []string{"order_id", "sku_id", "sku_count"}
)

// Result reports the row counts submitted by a full load.
type Result struct {
	Customers int
	Orders    int
	Items     int
}

// LoadCustomers projects the customers input onto its four columns and
// appends every row to the customers table. It returns the number of rows
// submitted. No validation happens here beyond cell coercion; uniqueness is
// enforced by the database and surfaces as db.ErrDuplicate.
func LoadCustomers(ctx context.Context, store db.Store, customers *table.Table) (int, error) {
	proj, err := customers.Select(customerColumns...)
	if err != nil {
		return 0, fmt.Errorf("customers input: %w", err)
	}

	rows := make([]model.Customer, 0, proj.Len())
	for _, row := range proj.Rows {
		c, err := customerFromRow(row)
		if err != nil {
			return 0, fmt.Errorf("customers input: %w", err)
		}
		logging.Debugf("prepared customer %s", c)
		rows = append(rows, c)
	}

	logging.Infof("loading %d customer rows", len(rows))
	if err := store.InsertCustomers(ctx, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// LoadOrders appends order-level rows to orders_fact and line-item rows to
// order_items. Order-level rows are deduplicated by order_id (first
// occurrence wins) and their timestamps normalized to naive UTC; line-item
// rows are projected to {order_id, sku_id, sku_count} with exact duplicates
// removed. Returns the submitted order and item counts. A failure between
// the two inserts leaves the committed orders in place.
func LoadOrders(ctx context.Context, store db.Store, orderLevel, raw *table.Table) (int, int, error) {
	fact, err := orderLevel.Select(orderFactColumns...)
	if err != nil {
		return 0, 0, fmt.Errorf("order-level input: %w", err)
	}
	before := fact.Len()
	fact, err = fact.DedupeBy("order_id")
	if err != nil {
		return 0, 0, fmt.Errorf("order-level input: %w", err)
	}
	if dropped := before - fact.Len(); dropped > 0 {
		logging.Warnf("dropped %d duplicate order rows, keeping the first occurrence of each order_id", dropped)
	}

	orders := make([]model.Order, 0, fact.Len())
	for _, row := range fact.Rows {
		o, err := orderFromRow(row)
		if err != nil {
			return 0, 0, fmt.Errorf("order-level input: %w", err)
		}
		orders = append(orders, o)
	}

	logging.Infof("loading %d order rows", len(orders))
	if err := store.InsertOrders(ctx, orders); err != nil {
		return 0, 0, err
	}

	itemsTable, err := raw.Select(orderItemColumns...)
	if err != nil {
		return len(orders), 0, fmt.Errorf("line-item input: %w", err)
	}
	beforeItems := itemsTable.Len()
	itemsTable = itemsTable.Dedupe()
	if dropped := beforeItems - itemsTable.Len(); dropped > 0 {
		logging.Warnf("dropped %d exact-duplicate line-item rows", dropped)
	}

	items := make([]model.OrderItem, 0, itemsTable.Len())
	for _, row := range itemsTable.Rows {
		it, err := orderItemFromRow(row)
		if err != nil {
			return len(orders), 0, fmt.Errorf("line-item input: %w", err)
		}
		items = append(items, it)
	}

	logging.Infof("loading %d line-item rows", len(items))
	if err := store.InsertOrderItems(ctx, items); err != nil {
		return len(orders), 0, err
	}
	return len(orders), len(items), nil
}

// RunTableLoad runs the full loading sequence: schema init, customers,
// orders and line items. Customers load before orders because orders_fact
// references them. There is no rollback across steps; after a mid-run
// failure the database keeps whatever committed, and a re-run fails on the
// duplicate keys of the already-loaded rows.
func RunTableLoad(ctx context.Context, store db.Store, customers, ordersRaw, ordersOrderLevel *table.Table) (Result, error) {
	logging.Infof("starting table-based data load")

	if err := store.InitSchema(ctx); err != nil {
		return Result{}, err
	}
	logging.Infof("tables verified/created")

	nCustomers, err := LoadCustomers(ctx, store, customers)
	if err != nil {
		return Result{}, err
	}

	nOrders, nItems, err := LoadOrders(ctx, store, ordersOrderLevel, ordersRaw)
	if err != nil {
		return Result{Customers: nCustomers, Orders: nOrders}, err
	}

	res := Result{Customers: nCustomers, Orders: nOrders, Items: nItems}
	logging.Infof("table-based load finished: %d customers, %d orders, %d line items", res.Customers, res.Orders, res.Items)
	return res, nil
}

// --- Row conversions ---

func customerFromRow(row []any) (model.Customer, error) {
	id, err := cellString(row[0])
	if err != nil {
		return model.Customer{}, err
	}
	name, err := cellString(row[1])
	if err != nil {
		return model.Customer{}, err
	}
	mobile, err := cellInt64(row[2])
	if err != nil {
		return model.Customer{}, err
	}
	region, err := cellString(row[3])
	if err != nil {
		return model.Customer{}, err
	}
	return model.Customer{ID: id, Name: name, MobileNumber: mobile, Region: region}, nil
}

func orderFromRow(row []any) (model.Order, error) {
	id, err := cellString(row[0])
	if err != nil {
		return model.Order{}, err
	}
	mobile, err := cellInt64(row[1])
	if err != nil {
		return model.Order{}, err
	}
	placedAt, err := NormalizeTimestamp(row[2])
	if err != nil {
		return model.Order{}, err
	}
	total, err := cellFloat64(row[3])
	if err != nil {
		return model.Order{}, err
	}
	return model.Order{ID: id, MobileNumber: mobile, PlacedAt: placedAt, TotalAmount: total}, nil
}

func orderItemFromRow(row []any) (model.OrderItem, error) {
	orderID, err := cellString(row[0])
	if err != nil {
		return model.OrderItem{}, err
	}
	sku, err := cellString(row[1])
	if err != nil {
		return model.OrderItem{}, err
	}
	count, err := cellInt(row[2])
	if err != nil {
		return model.OrderItem{}, err
	}
	return model.OrderItem{OrderID: orderID, SKU: sku, Count: count}, nil
}
