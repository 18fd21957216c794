//-------------------------------------------------------------------------
//
// pgEdge E-Commerce Dashboard
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package dataset loads the e-commerce tables the dashboard analyses.
package dataset

import (
	"context"
	"fmt"
)

// Logical table names.
const (
	Orders      = "orders"
	Items       = "items"
	Products    = "products"
	Payments    = "payments"
	Reviews     = "reviews"
	Customers   = "customers"
	Sellers     = "sellers"
	Geolocation = "geolocation"
	Category    = "category"
)

// Names lists every logical table in load order.
var Names = []string{
	Orders, Items, Products, Payments, Reviews,
	Customers, Sellers, Geolocation, Category,
}

// Filenames maps each logical table to its file under the data directory.
var Filenames = map[string]string{
	Orders:      "orders_dataset.csv",
	Items:       "order_items_dataset.csv",
	Products:    "products_dataset.csv",
	Payments:    "order_payments_dataset.csv",
	Reviews:     "order_reviews_dataset.csv",
	Customers:   "customers_dataset.csv",
	Sellers:     "sellers_dataset.csv",
	Geolocation: "geolocation_dataset.csv",
	Category:    "product_category_name_translation.csv",
}

// Headers is the column layout of each file as published. Loading does not
// enforce it; analyses look columns up by name.
var Headers = map[string][]string{
	Orders: {"order_id", "customer_id", "order_status", "order_purchase_timestamp",
		"order_approved_at", "order_delivered_carrier_date",
		"order_delivered_customer_date", "order_estimated_delivery_date"},
	Items: {"order_id", "order_item_id", "product_id", "seller_id",
		"shipping_limit_date", "price", "freight_value"},
	Products: {"product_id", "product_category_name", "product_name_lenght",
		"product_description_lenght", "product_photos_qty", "product_weight_g",
		"product_length_cm", "product_height_cm", "product_width_cm"},
	Payments: {"order_id", "payment_sequential", "payment_type",
		"payment_installments", "payment_value"},
	Reviews: {"review_id", "order_id", "review_score", "review_comment_title",
		"review_comment_message", "review_creation_date", "review_answer_timestamp"},
	Customers: {"customer_id", "customer_unique_id", "customer_zip_code_prefix",
		"customer_city", "customer_state"},
	Sellers: {"seller_id", "seller_zip_code_prefix", "seller_city", "seller_state"},
	Geolocation: {"geolocation_zip_code_prefix", "geolocation_lat", "geolocation_lng",
		"geolocation_city", "geolocation_state"},
	Category: {"product_category_name", "product_category_name_english"},
}

// Dataset is the immutable set of loaded tables for a single run.
type Dataset struct {
	tables map[string]*Table
}

// New assembles a dataset from already-built tables, keyed by Table.Name.
func New(tables ...*Table) *Dataset {
	m := make(map[string]*Table, len(tables))
	for _, t := range tables {
		m[t.Name] = t
	}
	return &Dataset{tables: m}
}

// Table returns the named table.
func (d *Dataset) Table(name string) (*Table, error) {
	t, ok := d.tables[name]
	if !ok || t == nil {
		return nil, &MissingFileError{Name: name, Path: name}
	}
	return t, nil
}

// RowCounts returns the number of data rows in each loaded table.
func (d *Dataset) RowCounts() map[string]int {
	counts := make(map[string]int, len(d.tables))
	for name, t := range d.tables {
		counts[name] = t.Len()
	}
	return counts
}

// Source produces a fresh Dataset on each call.
type Source interface {
	// Load reads every table named in Names.
	Load(ctx context.Context) (*Dataset, error)

	// Describe returns a short human-readable location, for logs.
	Describe() string
}

// DirSource loads CSV files from a base directory.
type DirSource struct {
	Dir string
}

// Load implements Source.
func (s DirSource) Load(ctx context.Context) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadDir(s.Dir)
}

// Describe implements Source.
func (s DirSource) Describe() string {
	return fmt.Sprintf("csv:%s", s.Dir)
}
