package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestBuildFilterOptions(t *testing.T) {
	tests := []struct {
		name       string
		opts       *Options
		wantRegion bool
		wantMin    bool
		wantMax    bool
	}{
		{
			name: "No filters supplied",
			opts: &Options{Region: "North", MinAmount: 100},
		},
		{
			name:       "Region supplied",
			opts:       &Options{Region: "North", RegionSet: true},
			wantRegion: true,
		},
		{
			name:    "Explicit zero minimum is an active filter",
			opts:    &Options{MinAmount: 0, MinSet: true},
			wantMin: true,
		},
		{
			name:    "Both bounds supplied",
			opts:    &Options{MinAmount: 100, MinSet: true, MaxAmount: 500, MaxSet: true},
			wantMin: true,
			wantMax: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filters := BuildFilterOptions(tt.opts)

			if (filters.Region != nil) != tt.wantRegion {
				t.Errorf("Region set = %v, want %v", filters.Region != nil, tt.wantRegion)
			}
			if (filters.MinAmount != nil) != tt.wantMin {
				t.Errorf("MinAmount set = %v, want %v", filters.MinAmount != nil, tt.wantMin)
			}
			if (filters.MaxAmount != nil) != tt.wantMax {
				t.Errorf("MaxAmount set = %v, want %v", filters.MaxAmount != nil, tt.wantMax)
			}
		})
	}
}

func TestBuildFilterOptions_Values(t *testing.T) {
	filters := BuildFilterOptions(&Options{
		Region:    "South",
		RegionSet: true,
		MinAmount: 99.95,
		MinSet:    true,
	})

	if *filters.Region != "South" {
		t.Errorf("Region = %q, want South", *filters.Region)
	}
	if !filters.MinAmount.Equal(decimal.NewFromFloat(99.95)) {
		t.Errorf("MinAmount = %s, want 99.95", filters.MinAmount.String())
	}
}

func TestBuildPipelineConfig(t *testing.T) {
	cfg, err := BuildPipelineConfig(&Options{
		InputFile:      "sales.txt",
		ReportFile:     "out/report.txt",
		EnrichedFile:   "out/enriched.txt",
		TopProducts:    3,
		LowThreshold:   20,
		CatalogURL:     "https://example.com/products",
		CatalogLimit:   50,
		CatalogTimeout: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("BuildPipelineConfig() error: %v", err)
	}

	if cfg.InputFile != "sales.txt" {
		t.Errorf("InputFile = %q, want sales.txt", cfg.InputFile)
	}
	if cfg.ReportFile != "out/report.txt" {
		t.Errorf("ReportFile = %q, want out/report.txt", cfg.ReportFile)
	}
	if cfg.Analytics.TopProductLimit != 3 {
		t.Errorf("TopProductLimit = %d, want 3", cfg.Analytics.TopProductLimit)
	}
	if cfg.Analytics.LowQuantityThreshold != 20 {
		t.Errorf("LowQuantityThreshold = %d, want 20", cfg.Analytics.LowQuantityThreshold)
	}
	if cfg.Catalog.BaseURL != "https://example.com/products" {
		t.Errorf("Catalog.BaseURL = %q, want override", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.PageLimit != 50 {
		t.Errorf("Catalog.PageLimit = %d, want 50", cfg.Catalog.PageLimit)
	}
	if cfg.Catalog.Timeout != 2*time.Second {
		t.Errorf("Catalog.Timeout = %v, want 2s", cfg.Catalog.Timeout)
	}
}

func TestBuildPipelineConfig_Defaults(t *testing.T) {
	cfg, err := BuildPipelineConfig(&Options{
		InputFile:    "sales.txt",
		TopProducts:  5,
		LowThreshold: 10,
	})
	if err != nil {
		t.Fatalf("BuildPipelineConfig() error: %v", err)
	}

	if cfg.ReportFile != "output/sales_report.txt" {
		t.Errorf("ReportFile = %q, want default path", cfg.ReportFile)
	}
	if cfg.EnrichedFile != "output/enriched_sales_data.txt" {
		t.Errorf("EnrichedFile = %q, want default path", cfg.EnrichedFile)
	}
	if cfg.Catalog.BaseURL != "https://dummyjson.com/products" {
		t.Errorf("Catalog.BaseURL = %q, want default endpoint", cfg.Catalog.BaseURL)
	}
}

func TestBuildPipelineConfig_MissingInput(t *testing.T) {
	_, err := BuildPipelineConfig(&Options{TopProducts: 5})
	if err == nil {
		t.Error("BuildPipelineConfig() expected error for missing input file")
	}
}
