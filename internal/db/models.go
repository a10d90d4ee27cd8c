// Copyright (c) 2025 ToeiRei
// Loadmaster - batch order data loader
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"time"

	"github.com/toeirei/loadmaster/internal/model"
	"github.com/uptrace/bun"
)

// CustomerModel maps the `customers` dimension table for Bun.
type CustomerModel struct {
	bun.BaseModel `bun:"table:customers"`
	CustomerID    string `bun:"customer_id,pk"`
	CustomerName  string `bun:"customer_name"`
	MobileNumber  int64  `bun:"mobile_number"`
	Region        string `bun:"region"`
}

// OrderModel maps the `orders_fact` fact table.
type OrderModel struct {
	bun.BaseModel    `bun:"table:orders_fact"`
	OrderID          string    `bun:"order_id,pk"`
	MobileNumber     int64     `bun:"mobile_number"`
	OrderDateTimeUTC time.Time `bun:"order_date_time_utc"`
	TotalAmount      float64   `bun:"total_amount"`
}

// OrderItemModel maps the `order_items` table. The ID is assigned by the
// database; Bun skips the zero-valued autoincrement column on insert.
type OrderItemModel struct {
	bun.BaseModel `bun:"table:order_items"`
	ID            int64  `bun:"id,pk,autoincrement"`
	OrderID       string `bun:"order_id"`
	SKUID         string `bun:"sku_id"`
	SKUCount      int    `bun:"sku_count"`
}

// --- Mapping helpers (centralized conversions) ---

func customerToModel(c model.Customer) CustomerModel {
	return CustomerModel{
		CustomerID:   c.ID,
		CustomerName: c.Name,
		MobileNumber: c.MobileNumber,
		Region:       c.Region,
	}
}

func orderToModel(o model.Order) OrderModel {
	return OrderModel{
		OrderID:          o.ID,
		MobileNumber:     o.MobileNumber,
		OrderDateTimeUTC: o.PlacedAt,
		TotalAmount:      o.TotalAmount,
	}
}

func orderItemToModel(i model.OrderItem) OrderItemModel {
	return OrderItemModel{
		OrderID:  i.OrderID,
		SKUID:    i.SKU,
		SKUCount: i.Count,
	}
}
