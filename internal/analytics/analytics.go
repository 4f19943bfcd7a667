// Package analytics computes aggregate sales views over validated
// transactions.
//
// Every view shares one revenue definition, Transaction.Amount(), recomputed
// from quantity and unit price on each use. Sums are accumulated at full
// decimal precision; rounding to two places happens only in the returned view
// values. All views are fresh, read-only snapshots; nothing here mutates the
// transaction set.
package analytics

import (
	"fmt"
	"sort"

	"github.com/asaisreeja/Sales-Analytics-System/internal/models"
	"github.com/asaisreeja/Sales-Analytics-System/pkg/logger"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// Config holds tunables for the aggregation engine.
type Config struct {
	// TopProductLimit caps the top-selling products view.
	TopProductLimit int
	// LowQuantityThreshold marks products with total quantity below it as
	// low performers.
	LowQuantityThreshold int
}

// DefaultConfig returns the standard report configuration.
func DefaultConfig() *Config {
	return &Config{
		TopProductLimit:      5,
		LowQuantityThreshold: 10,
	}
}

// Validate validates the engine configuration.
func (c *Config) Validate() error {
	if c.TopProductLimit <= 0 {
		return fmt.Errorf("top product limit must be positive, got %d", c.TopProductLimit)
	}
	if c.LowQuantityThreshold < 0 {
		return fmt.Errorf("low quantity threshold cannot be negative, got %d", c.LowQuantityThreshold)
	}
	return nil
}

// RegionStat describes sales performance for one region.
type RegionStat struct {
	Region           string          `json:"region"`
	TotalSales       decimal.Decimal `json:"total_sales"`
	TransactionCount int             `json:"transaction_count"`
	Percentage       decimal.Decimal `json:"percentage"`
}

// ProductStat describes aggregate performance for one product.
type ProductStat struct {
	Name          string          `json:"name"`
	TotalQuantity int             `json:"total_quantity"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}

// CustomerStat describes aggregate spend for one customer.
type CustomerStat struct {
	CustomerID     string          `json:"customer_id"`
	TotalSpent     decimal.Decimal `json:"total_spent"`
	PurchaseCount  int             `json:"purchase_count"`
	AvgOrderValue  decimal.Decimal `json:"avg_order_value"`
	ProductsBought []string        `json:"products_bought"`
}

// DailyStat describes one day of the sales trend.
type DailyStat struct {
	Date             string          `json:"date"`
	Revenue          decimal.Decimal `json:"revenue"`
	TransactionCount int             `json:"transaction_count"`
	UniqueCustomers  int             `json:"unique_customers"`
}

// PeakDay identifies the highest-revenue day.
type PeakDay struct {
	Date             string          `json:"date"`
	Revenue          decimal.Decimal `json:"revenue"`
	TransactionCount int             `json:"transaction_count"`
}

// Summary bundles every aggregate view for the report renderer. It is built
// once per run and never mutated afterward.
type Summary struct {
	TotalRevenue     decimal.Decimal
	TransactionCount int
	StartDate        string
	EndDate          string
	Regions          []RegionStat
	TopProducts      []ProductStat
	Customers        []CustomerStat
	DailyTrend       []DailyStat
	Peak             *PeakDay
	LowPerformers    []ProductStat
}

// AverageOrderValue returns total revenue divided by transaction count,
// rounded to two places. Zero when there are no transactions.
func (s *Summary) AverageOrderValue() decimal.Decimal {
	if s.TransactionCount == 0 {
		return decimal.Zero
	}
	return s.TotalRevenue.Div(decimal.NewFromInt(int64(s.TransactionCount))).Round(2)
}

// Engine computes aggregate views over a validated transaction set.
type Engine struct {
	config *Config
	logger logger.Logger
}

// NewEngine creates an aggregation engine with the given configuration.
func NewEngine(config *Config) (*Engine, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid analytics configuration: %w", err)
	}

	return &Engine{
		config: config,
		logger: logger.GetGlobalLogger().WithComponent("analytics"),
	}, nil
}

// TotalRevenue sums the amount of every transaction. Zero for an empty set.
func (e *Engine) TotalRevenue(transactions []*models.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range transactions {
		total = total.Add(tx.Amount())
	}
	return total
}

// RegionWiseSales groups transactions by region, ordered by descending total
// sales with first-encountered order breaking ties. Percentages are of total
// revenue, rounded to two places, and zero when total revenue is zero.
func (e *Engine) RegionWiseSales(transactions []*models.Transaction) []RegionStat {
	totalRevenue := e.TotalRevenue(transactions)

	index := make(map[string]int)
	var stats []RegionStat

	for _, tx := range transactions {
		i, ok := index[tx.Region]
		if !ok {
			i = len(stats)
			index[tx.Region] = i
			stats = append(stats, RegionStat{Region: tx.Region, TotalSales: decimal.Zero})
		}
		stats[i].TotalSales = stats[i].TotalSales.Add(tx.Amount())
		stats[i].TransactionCount++
	}

	for i := range stats {
		if totalRevenue.IsZero() {
			stats[i].Percentage = decimal.Zero
			continue
		}
		stats[i].Percentage = stats[i].TotalSales.Mul(oneHundred).Div(totalRevenue).Round(2)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].TotalSales.GreaterThan(stats[j].TotalSales)
	})

	return stats
}

// TopSellingProducts groups transactions by product name and returns the top
// n products by total quantity sold, descending, with stable ties.
func (e *Engine) TopSellingProducts(transactions []*models.Transaction, n int) []ProductStat {
	stats := e.productStats(transactions)

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].TotalQuantity > stats[j].TotalQuantity
	})

	if n > 0 && len(stats) > n {
		stats = stats[:n]
	}

	return stats
}

// LowPerformingProducts returns products whose total quantity sold is below
// the threshold, ordered by ascending quantity with stable ties.
func (e *Engine) LowPerformingProducts(transactions []*models.Transaction, threshold int) []ProductStat {
	var low []ProductStat
	for _, stat := range e.productStats(transactions) {
		if stat.TotalQuantity < threshold {
			low = append(low, stat)
		}
	}

	sort.SliceStable(low, func(i, j int) bool {
		return low[i].TotalQuantity < low[j].TotalQuantity
	})

	return low
}

// productStats groups transactions by product name in first-encountered order.
func (e *Engine) productStats(transactions []*models.Transaction) []ProductStat {
	index := make(map[string]int)
	var stats []ProductStat

	for _, tx := range transactions {
		i, ok := index[tx.ProductName]
		if !ok {
			i = len(stats)
			index[tx.ProductName] = i
			stats = append(stats, ProductStat{Name: tx.ProductName, TotalRevenue: decimal.Zero})
		}
		stats[i].TotalQuantity += tx.Quantity
		stats[i].TotalRevenue = stats[i].TotalRevenue.Add(tx.Amount())
	}

	return stats
}

// CustomerAnalysis groups transactions by customer, ordered by descending
// total spent. Spent totals and average order values are rounded to two
// places; the product list is the sorted set of distinct product names.
func (e *Engine) CustomerAnalysis(transactions []*models.Transaction) []CustomerStat {
	type accumulator struct {
		spent    decimal.Decimal
		count    int
		products map[string]bool
	}

	index := make(map[string]int)
	var order []string
	var accs []*accumulator

	for _, tx := range transactions {
		i, ok := index[tx.CustomerID]
		if !ok {
			i = len(accs)
			index[tx.CustomerID] = i
			order = append(order, tx.CustomerID)
			accs = append(accs, &accumulator{spent: decimal.Zero, products: make(map[string]bool)})
		}
		accs[i].spent = accs[i].spent.Add(tx.Amount())
		accs[i].count++
		accs[i].products[tx.ProductName] = true
	}

	stats := make([]CustomerStat, 0, len(accs))
	for i, customerID := range order {
		acc := accs[i]

		products := make([]string, 0, len(acc.products))
		for name := range acc.products {
			products = append(products, name)
		}
		sort.Strings(products)

		stats = append(stats, CustomerStat{
			CustomerID:     customerID,
			TotalSpent:     acc.spent.Round(2),
			PurchaseCount:  acc.count,
			AvgOrderValue:  acc.spent.Div(decimal.NewFromInt(int64(acc.count))).Round(2),
			ProductsBought: products,
		})
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].TotalSpent.GreaterThan(stats[j].TotalSpent)
	})

	return stats
}

// DailySalesTrend groups transactions by date string, ordered ascending.
// Dates are a fixed lexical format, so a string sort is a date sort.
func (e *Engine) DailySalesTrend(transactions []*models.Transaction) []DailyStat {
	type accumulator struct {
		revenue   decimal.Decimal
		count     int
		customers map[string]bool
	}

	accs := make(map[string]*accumulator)
	for _, tx := range transactions {
		acc, ok := accs[tx.Date]
		if !ok {
			acc = &accumulator{revenue: decimal.Zero, customers: make(map[string]bool)}
			accs[tx.Date] = acc
		}
		acc.revenue = acc.revenue.Add(tx.Amount())
		acc.count++
		acc.customers[tx.CustomerID] = true
	}

	dates := make([]string, 0, len(accs))
	for date := range accs {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	stats := make([]DailyStat, 0, len(dates))
	for _, date := range dates {
		acc := accs[date]
		stats = append(stats, DailyStat{
			Date:             date,
			Revenue:          acc.revenue.Round(2),
			TransactionCount: acc.count,
			UniqueCustomers:  len(acc.customers),
		})
	}

	return stats
}

// PeakSalesDay returns the day with maximum revenue from the daily trend.
// The second return value is false when there are no transactions. Ties go
// to the earliest date.
func (e *Engine) PeakSalesDay(transactions []*models.Transaction) (PeakDay, bool) {
	trend := e.DailySalesTrend(transactions)
	if len(trend) == 0 {
		return PeakDay{}, false
	}

	peak := trend[0]
	for _, day := range trend[1:] {
		if day.Revenue.GreaterThan(peak.Revenue) {
			peak = day
		}
	}

	return PeakDay{
		Date:             peak.Date,
		Revenue:          peak.Revenue,
		TransactionCount: peak.TransactionCount,
	}, true
}

// Summarize assembles every aggregate view into a single immutable Summary.
func (e *Engine) Summarize(transactions []*models.Transaction) *Summary {
	summary := &Summary{
		TotalRevenue:     e.TotalRevenue(transactions),
		TransactionCount: len(transactions),
		Regions:          e.RegionWiseSales(transactions),
		TopProducts:      e.TopSellingProducts(transactions, e.config.TopProductLimit),
		Customers:        e.CustomerAnalysis(transactions),
		DailyTrend:       e.DailySalesTrend(transactions),
		LowPerformers:    e.LowPerformingProducts(transactions, e.config.LowQuantityThreshold),
	}

	if peak, ok := e.PeakSalesDay(transactions); ok {
		summary.Peak = &peak
	}

	if len(summary.DailyTrend) > 0 {
		summary.StartDate = summary.DailyTrend[0].Date
		summary.EndDate = summary.DailyTrend[len(summary.DailyTrend)-1].Date
	}

	e.logger.WithFields(logger.Fields{
		"transactions":  summary.TransactionCount,
		"total_revenue": summary.TotalRevenue.StringFixed(2),
		"regions":       len(summary.Regions),
		"days":          len(summary.DailyTrend),
	}).Info("Aggregation completed")

	return summary
}
