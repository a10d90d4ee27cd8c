// Copyright (c) 2025 ToeiRei
// Loadmaster - batch order data loader
// This source code is licensed under the MIT license found in the LICENSE file.

// Package model defines the domain entities persisted by Loadmaster.
// Database mapping lives in internal/db; these structs carry no ORM tags.
package model

import (
	"fmt"
	"time"
)

// Customer is a dimension row: one distinct customer, identified by its
// customer ID and globally unique mobile number. Created once, never updated.
type Customer struct {
	ID           string
	Name         string
	MobileNumber int64
	Region       string
}

// String returns the id/mobile representation used in log output.
func (c Customer) String() string {
	return fmt.Sprintf("%s (%d)", c.ID, c.MobileNumber)
}

// Order is a fact row: one event per distinct order ID. PlacedAt is naive UTC
// by convention; the loader converts timezone-aware inputs before it gets here.
type Order struct {
	ID           string
	MobileNumber int64
	PlacedAt     time.Time
	TotalAmount  float64
}

// OrderItem is one order/sku/quantity combination belonging to an Order.
// The database assigns the synthetic row ID on insert.
type OrderItem struct {
	OrderID string
	SKU     string
	Count   int
}
