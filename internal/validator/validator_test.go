package validator

import (
	"testing"

	"github.com/asaisreeja/Sales-Analytics-System/internal/models"

	"github.com/shopspring/decimal"
)

func makeTransaction(id, product, customer, region string, quantity int, price string) *models.Transaction {
	return &models.Transaction{
		TransactionID: id,
		Date:          "2024-01-05",
		ProductID:     product,
		ProductName:   "Widget",
		Quantity:      quantity,
		UnitPrice:     decimal.RequireFromString(price),
		CustomerID:    customer,
		Region:        region,
	}
}

func stringPtr(s string) *string { return &s }

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestFilterOptions_Validate(t *testing.T) {
	tests := []struct {
		name      string
		options   *FilterOptions
		wantError bool
	}{
		{"Nil options", nil, false},
		{"Empty options", &FilterOptions{}, false},
		{"Min only", &FilterOptions{MinAmount: decimalPtr("100")}, false},
		{"Valid range", &FilterOptions{MinAmount: decimalPtr("100"), MaxAmount: decimalPtr("500")}, false},
		{"Equal bounds", &FilterOptions{MinAmount: decimalPtr("100"), MaxAmount: decimalPtr("100")}, false},
		{"Inverted range", &FilterOptions{MinAmount: decimalPtr("500"), MaxAmount: decimalPtr("100")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.options.Validate()
			if tt.wantError && err == nil {
				t.Error("Validate() expected error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestValidateAndFilter_NoFilters(t *testing.T) {
	v, err := NewValidator(nil)
	if err != nil {
		t.Fatalf("NewValidator() error: %v", err)
	}

	candidates := []*models.Transaction{
		makeTransaction("T001", "P101", "C001", "North", 10, "25.50"),
		makeTransaction("T002", "P102", "C002", "South", -5, "10.00"),
		makeTransaction("T003", "P103", "C003", "East", 2, "5.00"),
	}

	valid, invalid, summary := v.ValidateAndFilter(candidates)

	if len(valid) != 2 {
		t.Errorf("got %d valid records, want 2", len(valid))
	}
	if invalid != 1 {
		t.Errorf("invalid = %d, want 1", invalid)
	}
	if !summary.Consistent() {
		t.Errorf("summary buckets do not add up: %s", summary.String())
	}
	if valid[0].TransactionID != "T001" || valid[1].TransactionID != "T003" {
		t.Errorf("kept records out of order: %s, %s", valid[0].TransactionID, valid[1].TransactionID)
	}
}

func TestValidateAndFilter_RegionFilter(t *testing.T) {
	v, err := NewValidator(&FilterOptions{Region: stringPtr("North")})
	if err != nil {
		t.Fatalf("NewValidator() error: %v", err)
	}

	candidates := []*models.Transaction{
		makeTransaction("T001", "P101", "C001", "North", 10, "25.50"),
		makeTransaction("T002", "P102", "C002", "South", 2, "5.00"),
		makeTransaction("T003", "P103", "C003", "North", 1, "9.99"),
	}

	valid, _, summary := v.ValidateAndFilter(candidates)

	if len(valid) != 2 {
		t.Errorf("got %d valid records, want 2", len(valid))
	}
	if summary.FilteredByRegion != 1 {
		t.Errorf("FilteredByRegion = %d, want 1", summary.FilteredByRegion)
	}
	if !summary.Consistent() {
		t.Errorf("summary buckets do not add up: %s", summary.String())
	}
}

func TestValidateAndFilter_AmountBoundsInclusive(t *testing.T) {
	v, err := NewValidator(&FilterOptions{
		MinAmount: decimalPtr("10.00"),
		MaxAmount: decimalPtr("255.00"),
	})
	if err != nil {
		t.Fatalf("NewValidator() error: %v", err)
	}

	candidates := []*models.Transaction{
		makeTransaction("T001", "P101", "C001", "North", 10, "25.50"), // amount 255.00, on max bound
		makeTransaction("T002", "P102", "C002", "South", 1, "10.00"),  // amount 10.00, on min bound
		makeTransaction("T003", "P103", "C003", "East", 1, "9.99"),    // below min
		makeTransaction("T004", "P104", "C004", "West", 100, "3.00"),  // above max
	}

	valid, _, summary := v.ValidateAndFilter(candidates)

	if len(valid) != 2 {
		t.Fatalf("got %d valid records, want 2", len(valid))
	}
	if valid[0].TransactionID != "T001" || valid[1].TransactionID != "T002" {
		t.Errorf("kept %s and %s, want the boundary records T001 and T002",
			valid[0].TransactionID, valid[1].TransactionID)
	}
	if summary.FilteredByAmount != 2 {
		t.Errorf("FilteredByAmount = %d, want 2", summary.FilteredByAmount)
	}
}

func TestValidateAndFilter_ValidationBeforeFilters(t *testing.T) {
	// An invalid record from the filtered region counts as invalid, not as
	// filtered; each record lands in exactly one bucket.
	v, err := NewValidator(&FilterOptions{Region: stringPtr("North")})
	if err != nil {
		t.Fatalf("NewValidator() error: %v", err)
	}

	candidates := []*models.Transaction{
		makeTransaction("T001", "P101", "C001", "South", -1, "25.50"),
	}

	_, invalid, summary := v.ValidateAndFilter(candidates)

	if invalid != 1 {
		t.Errorf("invalid = %d, want 1", invalid)
	}
	if summary.FilteredByRegion != 0 {
		t.Errorf("FilteredByRegion = %d, want 0", summary.FilteredByRegion)
	}
	if !summary.Consistent() {
		t.Errorf("summary buckets do not add up: %s", summary.String())
	}
}

func TestValidateAndFilter_ExplicitZeroMinIsActive(t *testing.T) {
	zero := decimal.Zero
	v, err := NewValidator(&FilterOptions{MinAmount: &zero})
	if err != nil {
		t.Fatalf("NewValidator() error: %v", err)
	}

	candidates := []*models.Transaction{
		makeTransaction("T001", "P101", "C001", "North", 10, "25.50"),
	}

	valid, _, _ := v.ValidateAndFilter(candidates)
	if len(valid) != 1 {
		t.Errorf("got %d valid records, want 1; a zero minimum keeps all positive amounts", len(valid))
	}
}

func TestValidateAndFilter_EmptyInput(t *testing.T) {
	v, err := NewValidator(nil)
	if err != nil {
		t.Fatalf("NewValidator() error: %v", err)
	}

	valid, invalid, summary := v.ValidateAndFilter(nil)

	if len(valid) != 0 || invalid != 0 {
		t.Errorf("empty input produced valid=%d invalid=%d", len(valid), invalid)
	}
	if summary.TotalInput != 0 || !summary.Consistent() {
		t.Errorf("summary = %s, want empty consistent summary", summary.String())
	}
}

func TestNewValidator_RejectsInvertedBounds(t *testing.T) {
	_, err := NewValidator(&FilterOptions{
		MinAmount: decimalPtr("500"),
		MaxAmount: decimalPtr("100"),
	})
	if err == nil {
		t.Error("NewValidator() expected error for inverted bounds")
	}
}

func TestDiagnostics(t *testing.T) {
	v, err := NewValidator(nil)
	if err != nil {
		t.Fatalf("NewValidator() error: %v", err)
	}

	candidates := []*models.Transaction{
		makeTransaction("T001", "P101", "C001", "North", 10, "25.50"), // 255.00
		makeTransaction("T002", "P102", "C002", "South", 1, "10.00"),  // 10.00
		makeTransaction("T003", "P103", "C003", "North", 2, "500.00"), // 1000.00
		makeTransaction("T004", "P104", "C004", "", 1, "1.00"),        // no region, excluded
	}

	diag := v.Diagnostics(candidates)

	wantRegions := []string{"North", "South"}
	if len(diag.Regions) != len(wantRegions) {
		t.Fatalf("got %d regions, want %d", len(diag.Regions), len(wantRegions))
	}
	for i, region := range wantRegions {
		if diag.Regions[i] != region {
			t.Errorf("Regions[%d] = %q, want %q (first-encountered order)", i, diag.Regions[i], region)
		}
	}

	if !diag.HasAmounts {
		t.Fatal("HasAmounts = false, want true")
	}
	if !diag.MinAmount.Equal(decimal.RequireFromString("10.00")) {
		t.Errorf("MinAmount = %s, want 10.00", diag.MinAmount.String())
	}
	if !diag.MaxAmount.Equal(decimal.RequireFromString("1000.00")) {
		t.Errorf("MaxAmount = %s, want 1000.00", diag.MaxAmount.String())
	}
}

func TestDiagnostics_EmptyInput(t *testing.T) {
	v, err := NewValidator(nil)
	if err != nil {
		t.Fatalf("NewValidator() error: %v", err)
	}

	diag := v.Diagnostics(nil)
	if len(diag.Regions) != 0 {
		t.Errorf("got %d regions, want 0", len(diag.Regions))
	}
	if diag.HasAmounts {
		t.Error("HasAmounts = true, want false")
	}
}
