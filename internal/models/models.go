// Package models defines the record types that flow through the analytics
// pipeline: parsed transactions, catalog entries fetched from the remote
// product API, and enriched transactions combining the two.
package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Identifier prefixes carried by well-formed records.
const (
	TransactionIDPrefix = "T"
	ProductIDPrefix     = "P"
	CustomerIDPrefix    = "C"
)

// UnmatchedProductID is the sentinel join key for product identifiers whose
// numeric suffix cannot be parsed. It never collides with real catalog ids.
const UnmatchedProductID = -1

// Transaction represents a single sales record. Instances are immutable once
// they pass validation; the amount is always derived from quantity and unit
// price, never stored.
type Transaction struct {
	TransactionID string          `json:"transaction_id"`
	Date          string          `json:"date"`
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	CustomerID    string          `json:"customer_id"`
	Region        string          `json:"region"`
}

// Amount returns the transaction revenue (quantity * unit price). Every
// aggregation recomputes this rather than caching it, so the revenue
// definition cannot diverge between views.
func (t *Transaction) Amount() decimal.Decimal {
	return t.UnitPrice.Mul(decimal.NewFromInt(int64(t.Quantity)))
}

// Validate applies the business rules a transaction must satisfy before it
// enters any aggregation.
func (t *Transaction) Validate() error {
	if t.Quantity <= 0 {
		return fmt.Errorf("quantity must be greater than zero, got %d", t.Quantity)
	}

	if !t.UnitPrice.IsPositive() {
		return fmt.Errorf("unit price must be greater than zero, got %s", t.UnitPrice.String())
	}

	if !strings.HasPrefix(t.TransactionID, TransactionIDPrefix) {
		return fmt.Errorf("transaction ID must start with '%s', got '%s'", TransactionIDPrefix, t.TransactionID)
	}

	if !strings.HasPrefix(t.ProductID, ProductIDPrefix) {
		return fmt.Errorf("product ID must start with '%s', got '%s'", ProductIDPrefix, t.ProductID)
	}

	if !strings.HasPrefix(t.CustomerID, CustomerIDPrefix) {
		return fmt.Errorf("customer ID must start with '%s', got '%s'", CustomerIDPrefix, t.CustomerID)
	}

	if t.Region == "" {
		return fmt.Errorf("region cannot be empty")
	}

	return nil
}

// NumericProductID extracts the numeric suffix of the product identifier used
// as the enrichment join key. Returns UnmatchedProductID when the suffix is
// not a valid integer.
func (t *Transaction) NumericProductID() int {
	suffix := strings.TrimPrefix(t.ProductID, ProductIDPrefix)
	id, err := strconv.Atoi(suffix)
	if err != nil {
		return UnmatchedProductID
	}
	return id
}

// String returns a string representation of the Transaction.
func (t *Transaction) String() string {
	return fmt.Sprintf("Transaction{ID: %s, Date: %s, Product: %s, Qty: %d, Price: %s, Customer: %s, Region: %s}",
		t.TransactionID, t.Date, t.ProductID, t.Quantity, t.UnitPrice.String(), t.CustomerID, t.Region)
}

// CatalogEntry holds external product metadata keyed by a numeric id.
type CatalogEntry struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Brand    string  `json:"brand"`
	Rating   float64 `json:"rating"`
}

// EnrichedTransaction is a Transaction annotated with catalog metadata.
// Enrichment attributes are all-or-nothing: either every field is populated
// from a matched catalog entry, or all are zero and Matched is false.
type EnrichedTransaction struct {
	Transaction
	Category string  `json:"api_category,omitempty"`
	Brand    string  `json:"api_brand,omitempty"`
	Rating   float64 `json:"api_rating,omitempty"`
	Matched  bool    `json:"api_match"`
}

// Parsing helpers shared by the record parser and file readers.

// ParseQuantity converts a raw quantity field to an integer, stripping
// whitespace and thousand-separator commas first.
func ParseQuantity(s string) (int, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, fmt.Errorf("quantity string cannot be empty")
	}

	q, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity '%s': %w", s, err)
	}

	return q, nil
}

// ParseUnitPrice converts a raw unit price field to a decimal, stripping
// whitespace and thousand-separator commas first.
func ParseUnitPrice(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero, fmt.Errorf("unit price string cannot be empty")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid unit price '%s': %w", s, err)
	}

	return d, nil
}

// CleanProductName strips thousand-separator commas that would otherwise
// collide with downstream delimited output, then trims whitespace.
func CleanProductName(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
}
