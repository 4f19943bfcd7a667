package parsers

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewRecordParser(t *testing.T) {
	tests := []struct {
		name      string
		config    *Config
		wantError bool
	}{
		{
			name:      "Nil config uses defaults",
			config:    nil,
			wantError: false,
		},
		{
			name:      "Valid config",
			config:    &Config{Delimiter: ";", MaxSampleDiscards: 3},
			wantError: false,
		},
		{
			name:      "Empty delimiter",
			config:    &Config{Delimiter: "", MaxSampleDiscards: 3},
			wantError: true,
		},
		{
			name:      "Negative sample cap",
			config:    &Config{Delimiter: "|", MaxSampleDiscards: -1},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRecordParser(tt.config)
			if tt.wantError && err == nil {
				t.Error("NewRecordParser() expected error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("NewRecordParser() unexpected error: %v", err)
			}
		})
	}
}

func TestParseRecords_WellFormedLine(t *testing.T) {
	parser, err := NewRecordParser(nil)
	if err != nil {
		t.Fatalf("NewRecordParser() error: %v", err)
	}

	transactions, stats := parser.ParseRecords([]string{
		"T001|2024-01-05|P101|Widget|10|25.50|C001|North",
	})

	if len(transactions) != 1 {
		t.Fatalf("ParseRecords() returned %d records, want 1", len(transactions))
	}
	if stats.RecordsParsed != 1 || stats.Discarded() != 0 {
		t.Errorf("stats = %s, want 1 parsed with no discards", stats.String())
	}

	tx := transactions[0]
	if tx.TransactionID != "T001" {
		t.Errorf("TransactionID = %q, want T001", tx.TransactionID)
	}
	if tx.Date != "2024-01-05" {
		t.Errorf("Date = %q, want 2024-01-05", tx.Date)
	}
	if tx.ProductID != "P101" {
		t.Errorf("ProductID = %q, want P101", tx.ProductID)
	}
	if tx.ProductName != "Widget" {
		t.Errorf("ProductName = %q, want Widget", tx.ProductName)
	}
	if tx.Quantity != 10 {
		t.Errorf("Quantity = %d, want 10", tx.Quantity)
	}
	if !tx.UnitPrice.Equal(decimal.RequireFromString("25.50")) {
		t.Errorf("UnitPrice = %s, want 25.50", tx.UnitPrice.String())
	}
	if tx.CustomerID != "C001" {
		t.Errorf("CustomerID = %q, want C001", tx.CustomerID)
	}
	if tx.Region != "North" {
		t.Errorf("Region = %q, want North", tx.Region)
	}

	expectedAmount := decimal.RequireFromString("255.00")
	if !tx.Amount().Equal(expectedAmount) {
		t.Errorf("Amount() = %s, want %s", tx.Amount().String(), expectedAmount.String())
	}
}

func TestParseRecords_DiscardsMalformedLines(t *testing.T) {
	tests := []struct {
		name           string
		line           string
		fieldDiscards  int
		convDiscards   int
	}{
		{
			name:          "Too few fields",
			line:          "T001|2024-01-05|P101|Widget|10|25.50|C001",
			fieldDiscards: 1,
		},
		{
			name:          "Too many fields",
			line:          "T001|2024-01-05|P101|Widget|10|25.50|C001|North|extra",
			fieldDiscards: 1,
		},
		{
			name:         "Non-numeric quantity",
			line:         "T001|2024-01-05|P101|Widget|ten|25.50|C001|North",
			convDiscards: 1,
		},
		{
			name:         "Non-numeric price",
			line:         "T001|2024-01-05|P101|Widget|10|cheap|C001|North",
			convDiscards: 1,
		},
	}

	parser, err := NewRecordParser(nil)
	if err != nil {
		t.Fatalf("NewRecordParser() error: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transactions, stats := parser.ParseRecords([]string{tt.line})

			if len(transactions) != 0 {
				t.Errorf("ParseRecords() returned %d records, want 0", len(transactions))
			}
			if stats.DiscardedFieldCount != tt.fieldDiscards {
				t.Errorf("DiscardedFieldCount = %d, want %d", stats.DiscardedFieldCount, tt.fieldDiscards)
			}
			if stats.DiscardedConversion != tt.convDiscards {
				t.Errorf("DiscardedConversion = %d, want %d", stats.DiscardedConversion, tt.convDiscards)
			}
		})
	}
}

func TestParseRecords_NegativeValuesSurviveParsing(t *testing.T) {
	// Negative quantities and prices convert fine; rejecting them is the
	// validator's job, not the parser's.
	parser, err := NewRecordParser(nil)
	if err != nil {
		t.Fatalf("NewRecordParser() error: %v", err)
	}

	transactions, stats := parser.ParseRecords([]string{
		"T002|2024-01-05|P102|Gadget|-5|10.00|C002|South",
	})

	if len(transactions) != 1 {
		t.Fatalf("ParseRecords() returned %d records, want 1", len(transactions))
	}
	if stats.Discarded() != 0 {
		t.Errorf("Discarded() = %d, want 0", stats.Discarded())
	}
	if transactions[0].Quantity != -5 {
		t.Errorf("Quantity = %d, want -5", transactions[0].Quantity)
	}
	if err := transactions[0].Validate(); err == nil {
		t.Error("Validate() expected error for negative quantity")
	}
}

func TestParseRecords_StripsCommasAndWhitespace(t *testing.T) {
	parser, err := NewRecordParser(nil)
	if err != nil {
		t.Fatalf("NewRecordParser() error: %v", err)
	}

	transactions, _ := parser.ParseRecords([]string{
		" T003 |2024-01-06| P103 |Widget, Deluxe|1,000| 1,250.75 | C003 | East ",
	})

	if len(transactions) != 1 {
		t.Fatalf("ParseRecords() returned %d records, want 1", len(transactions))
	}

	tx := transactions[0]
	if tx.TransactionID != "T003" {
		t.Errorf("TransactionID = %q, want trimmed T003", tx.TransactionID)
	}
	if tx.ProductName != "Widget Deluxe" {
		t.Errorf("ProductName = %q, want comma-stripped Widget Deluxe", tx.ProductName)
	}
	if tx.Quantity != 1000 {
		t.Errorf("Quantity = %d, want 1000", tx.Quantity)
	}
	if !tx.UnitPrice.Equal(decimal.RequireFromString("1250.75")) {
		t.Errorf("UnitPrice = %s, want 1250.75", tx.UnitPrice.String())
	}
	if tx.Region != "East" {
		t.Errorf("Region = %q, want trimmed East", tx.Region)
	}
}

func TestParseRecords_PreservesOrderAndCountsMixedInput(t *testing.T) {
	parser, err := NewRecordParser(nil)
	if err != nil {
		t.Fatalf("NewRecordParser() error: %v", err)
	}

	lines := []string{
		"T001|2024-01-05|P101|Widget|10|25.50|C001|North",
		"garbage line",
		"T002|2024-01-05|P102|Gadget|2|5.00|C002|South",
		"T003|2024-01-06|P103|Gizmo|x|5.00|C003|East",
		"T004|2024-01-06|P104|Doohickey|1|9.99|C004|West",
	}

	transactions, stats := parser.ParseRecords(lines)

	if stats.LinesSeen != 5 {
		t.Errorf("LinesSeen = %d, want 5", stats.LinesSeen)
	}
	if stats.RecordsParsed != 3 {
		t.Errorf("RecordsParsed = %d, want 3", stats.RecordsParsed)
	}
	if stats.Discarded() != 2 {
		t.Errorf("Discarded() = %d, want 2", stats.Discarded())
	}

	wantIDs := []string{"T001", "T002", "T004"}
	if len(transactions) != len(wantIDs) {
		t.Fatalf("got %d records, want %d", len(transactions), len(wantIDs))
	}
	for i, id := range wantIDs {
		if transactions[i].TransactionID != id {
			t.Errorf("transactions[%d].TransactionID = %q, want %q", i, transactions[i].TransactionID, id)
		}
	}
}

func TestParseStats_SampleDiscardsCapped(t *testing.T) {
	parser, err := NewRecordParser(&Config{Delimiter: "|", MaxSampleDiscards: 2})
	if err != nil {
		t.Fatalf("NewRecordParser() error: %v", err)
	}

	lines := []string{"bad1", "bad2", "bad3", "bad4"}
	_, stats := parser.ParseRecords(lines)

	if stats.Discarded() != 4 {
		t.Errorf("Discarded() = %d, want 4", stats.Discarded())
	}
	if got := len(stats.SampleDiscards()); got != 2 {
		t.Errorf("len(SampleDiscards()) = %d, want cap of 2", got)
	}
}
