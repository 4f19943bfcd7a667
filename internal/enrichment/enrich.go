package enrichment

import (
	"github.com/asaisreeja/Sales-Analytics-System/internal/models"
	"github.com/asaisreeja/Sales-Analytics-System/pkg/logger"
)

// BuildProductMapping indexes catalog entries by numeric id. The mapping is
// built once per run and treated as read-only afterward.
func BuildProductMapping(entries []models.CatalogEntry) map[int]models.CatalogEntry {
	mapping := make(map[int]models.CatalogEntry, len(entries))
	for _, entry := range entries {
		mapping[entry.ID] = entry
	}
	return mapping
}

// EnrichTransactions annotates each transaction with catalog metadata, joined
// on the numeric suffix of the product identifier. The transform is pure and
// order-preserving: exactly one enriched record per input, matched or not.
func EnrichTransactions(transactions []*models.Transaction, mapping map[int]models.CatalogEntry) []*models.EnrichedTransaction {
	enriched := make([]*models.EnrichedTransaction, 0, len(transactions))

	for _, tx := range transactions {
		row := &models.EnrichedTransaction{Transaction: *tx}

		if entry, ok := mapping[tx.NumericProductID()]; ok {
			row.Category = entry.Category
			row.Brand = entry.Brand
			row.Rating = entry.Rating
			row.Matched = true
		}

		enriched = append(enriched, row)
	}

	logger.WithComponent("enrichment").WithFields(logger.Fields{
		"transactions": len(transactions),
		"catalog_size": len(mapping),
	}).Info("Enrichment completed")

	return enriched
}

// Stats summarizes enrichment outcomes for the report.
type Stats struct {
	Total   int
	Matched int
	// FailedProductIDs holds the distinct product ids that found no catalog
	// entry, in first-encountered order.
	FailedProductIDs []string
}

// SuccessRate returns matched/total as a percentage. Zero when empty.
func (s *Stats) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Matched) / float64(s.Total) * 100
}

// CollectStats scans enriched transactions and summarizes match outcomes.
func CollectStats(enriched []*models.EnrichedTransaction) *Stats {
	stats := &Stats{Total: len(enriched)}
	seen := make(map[string]bool)

	for _, row := range enriched {
		if row.Matched {
			stats.Matched++
			continue
		}
		if !seen[row.ProductID] {
			seen[row.ProductID] = true
			stats.FailedProductIDs = append(stats.FailedProductIDs, row.ProductID)
		}
	}

	return stats
}
