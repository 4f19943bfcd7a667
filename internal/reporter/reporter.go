// Package reporter renders aggregation results into the fixed-width text
// report written at the end of a pipeline run.
//
// Only the data selection and ordering matter to correctness; the column
// layout mirrors the report consumed by the sales team. Write failures are
// returned as coded errors for the pipeline to report and swallow.
package reporter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/asaisreeja/Sales-Analytics-System/internal/analytics"
	"github.com/asaisreeja/Sales-Analytics-System/internal/enrichment"
	"github.com/asaisreeja/Sales-Analytics-System/pkg/errors"
	"github.com/asaisreeja/Sales-Analytics-System/pkg/logger"

	"github.com/shopspring/decimal"
)

const reportWidth = 44

// Config holds configuration for report rendering.
type Config struct {
	// TopCustomerLimit caps the customers table.
	TopCustomerLimit int
	// MaxFailedSamples caps the failed product ids shown in the enrichment
	// section.
	MaxFailedSamples int
}

// DefaultConfig returns the standard report layout configuration.
func DefaultConfig() *Config {
	return &Config{
		TopCustomerLimit: 5,
		MaxFailedSamples: 3,
	}
}

// Validate validates the report configuration.
func (c *Config) Validate() error {
	if c.TopCustomerLimit <= 0 {
		return fmt.Errorf("top customer limit must be positive, got %d", c.TopCustomerLimit)
	}
	if c.MaxFailedSamples < 0 {
		return fmt.Errorf("max failed samples cannot be negative, got %d", c.MaxFailedSamples)
	}
	return nil
}

// Data bundles everything the renderer consumes. Enrichment is nil when the
// catalog fetch failed or enrichment was skipped; the report then omits the
// enrichment section.
type Data struct {
	GeneratedAt time.Time
	Analytics   *analytics.Summary
	Enrichment  *enrichment.Stats
}

// Generator renders analytics data as a formatted text report.
type Generator struct {
	config *Config
	logger logger.Logger
}

// NewGenerator creates a report generator with the given configuration.
func NewGenerator(config *Config) (*Generator, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report configuration: %w", err)
	}

	return &Generator{
		config: config,
		logger: logger.GetGlobalLogger().WithComponent("reporter"),
	}, nil
}

// WriteReport renders the report to the given writer.
func (g *Generator) WriteReport(w io.Writer, data *Data) error {
	if data == nil || data.Analytics == nil {
		return fmt.Errorf("report data cannot be nil")
	}

	summary := data.Analytics
	rule := strings.Repeat("=", reportWidth)
	dashes := strings.Repeat("-", reportWidth)

	// Header
	fmt.Fprintf(w, "%s\n", rule)
	fmt.Fprintf(w, "%s\n", center("SALES ANALYTICS REPORT", reportWidth))
	fmt.Fprintf(w, "%s\n", center("Generated: "+data.GeneratedAt.Format("2006-01-02 15:04:05"), reportWidth))
	fmt.Fprintf(w, "%s\n", center(fmt.Sprintf("Records Processed: %d", summary.TransactionCount), reportWidth))
	fmt.Fprintf(w, "%s\n\n", rule)

	// Overall summary
	dateRange := "N/A"
	if summary.StartDate != "" {
		dateRange = fmt.Sprintf("%s to %s", summary.StartDate, summary.EndDate)
	}
	fmt.Fprintf(w, "OVERALL SUMMARY\n%s\n", dashes)
	fmt.Fprintf(w, "Total Revenue:         $%s\n", formatMoney(summary.TotalRevenue))
	fmt.Fprintf(w, "Total Transactions:    %d\n", summary.TransactionCount)
	fmt.Fprintf(w, "Average Order Value:   $%s\n", formatMoney(summary.AverageOrderValue()))
	fmt.Fprintf(w, "Date Range:            %s\n\n", dateRange)

	// Region table
	fmt.Fprintf(w, "REGION-WISE PERFORMANCE\n%s\n", dashes)
	fmt.Fprintf(w, "%-12s %-15s %-8s %s\n", "Region", "Sales", "% Total", "Count")
	for _, region := range summary.Regions {
		fmt.Fprintf(w, "%-12s $%-14s %-7s%% %d\n",
			region.Region,
			formatMoney(region.TotalSales),
			region.Percentage.String(),
			region.TransactionCount)
	}
	fmt.Fprintf(w, "\n")

	// Top products table
	fmt.Fprintf(w, "TOP %d PRODUCTS\n%s\n", len(summary.TopProducts), dashes)
	fmt.Fprintf(w, "%-5s %-18s %-5s %s\n", "Rank", "Product Name", "Qty", "Revenue")
	for i, product := range summary.TopProducts {
		fmt.Fprintf(w, "%-5d %-18s %-5d $%s\n",
			i+1, product.Name, product.TotalQuantity, formatMoney(product.TotalRevenue))
	}
	fmt.Fprintf(w, "\n")

	// Top customers table
	fmt.Fprintf(w, "TOP %d CUSTOMERS\n%s\n", g.config.TopCustomerLimit, dashes)
	fmt.Fprintf(w, "%-5s %-12s %-15s %s\n", "Rank", "Customer ID", "Total Spent", "Orders")
	customers := summary.Customers
	if len(customers) > g.config.TopCustomerLimit {
		customers = customers[:g.config.TopCustomerLimit]
	}
	for i, customer := range customers {
		fmt.Fprintf(w, "%-5d %-12s $%-14s %d\n",
			i+1, customer.CustomerID, formatMoney(customer.TotalSpent), customer.PurchaseCount)
	}
	fmt.Fprintf(w, "\n")

	// Daily trend table
	fmt.Fprintf(w, "DAILY SALES TREND\n%s\n", dashes)
	fmt.Fprintf(w, "%-12s %-15s %-6s %s\n", "Date", "Revenue", "Sales", "Cust")
	for _, day := range summary.DailyTrend {
		fmt.Fprintf(w, "%-12s $%-14s %-6d %d\n",
			day.Date, formatMoney(day.Revenue), day.TransactionCount, day.UniqueCustomers)
	}
	fmt.Fprintf(w, "\n")

	// Product performance
	fmt.Fprintf(w, "PRODUCT PERFORMANCE ANALYSIS\n%s\n", dashes)
	if summary.Peak != nil {
		fmt.Fprintf(w, "Best Selling Day: %s ($%s)\n", summary.Peak.Date, formatMoney(summary.Peak.Revenue))
	} else {
		fmt.Fprintf(w, "Best Selling Day: N/A\n")
	}
	fmt.Fprintf(w, "Low Performing Products: %d items\n\n", len(summary.LowPerformers))

	// Enrichment section
	if data.Enrichment != nil {
		stats := data.Enrichment
		fmt.Fprintf(w, "API ENRICHMENT SUMMARY\n%s\n", dashes)
		fmt.Fprintf(w, "Products Enriched: %d\n", stats.Matched)
		fmt.Fprintf(w, "Success Rate:      %.2f%%\n", stats.SuccessRate())
		if len(stats.FailedProductIDs) > 0 {
			samples := stats.FailedProductIDs
			if len(samples) > g.config.MaxFailedSamples {
				samples = samples[:g.config.MaxFailedSamples]
			}
			fmt.Fprintf(w, "Failed IDs:        %s...\n", strings.Join(samples, ", "))
		}
	}

	return nil
}

// WriteReportFile renders the report to a file, creating parent directories
// as needed.
func (g *Generator) WriteReportFile(path string, data *Data) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.ReportError(errors.CodeWriteFailed, path, err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.ReportError(errors.CodeWriteFailed, path, err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	if err := g.WriteReport(w, data); err != nil {
		return errors.ReportError(errors.CodeWriteFailed, path, err)
	}
	if err := w.Flush(); err != nil {
		return errors.ReportError(errors.CodeWriteFailed, path, err)
	}

	g.logger.WithField("file_path", path).Info("Wrote sales report")

	return nil
}

// center pads s with spaces to center it within width.
func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	right := width - len(s) - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

// formatMoney renders a decimal with two fixed places and thousand
// separators in the integer part.
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)

	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	parts := strings.SplitN(s, ".", 2)
	intPart := parts[0]

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	result := b.String() + "." + parts[1]
	if negative {
		result = "-" + result
	}
	return result
}
