package enrichment

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/asaisreeja/Sales-Analytics-System/internal/models"
	"github.com/asaisreeja/Sales-Analytics-System/pkg/errors"
	"github.com/asaisreeja/Sales-Analytics-System/pkg/logger"
)

// enrichedHeader is the fixed 12-column header of the enriched data file.
var enrichedHeader = []string{
	"TransactionID", "Date", "ProductID", "ProductName", "Quantity",
	"UnitPrice", "CustomerID", "Region", "API_Category", "API_Brand",
	"API_Rating", "API_Match",
}

// WriteEnrichedFile writes enriched transactions to a pipe-delimited file,
// one row per transaction in input order, creating parent directories as
// needed. Unmatched rows render their enrichment fields as empty strings.
func WriteEnrichedFile(path string, enriched []*models.EnrichedTransaction) error {
	log := logger.WithComponent("enrichment_writer")

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.FileError(errors.CodeWriteFailed, path, err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.FileError(errors.CodeWriteFailed, path, err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)

	if _, err := w.WriteString(strings.Join(enrichedHeader, "|") + "\n"); err != nil {
		return errors.FileError(errors.CodeWriteFailed, path, err)
	}

	for _, row := range enriched {
		if _, err := w.WriteString(strings.Join(enrichedFields(row), "|") + "\n"); err != nil {
			return errors.FileError(errors.CodeWriteFailed, path, err)
		}
	}

	if err := w.Flush(); err != nil {
		return errors.FileError(errors.CodeWriteFailed, path, err)
	}

	log.WithFields(logger.Fields{
		"file_path": path,
		"rows":      len(enriched),
	}).Info("Wrote enriched data file")

	return nil
}

// enrichedFields renders one enriched transaction as its 12 column values.
func enrichedFields(row *models.EnrichedTransaction) []string {
	rating := ""
	if row.Matched {
		rating = strconv.FormatFloat(row.Rating, 'g', -1, 64)
	}

	return []string{
		row.TransactionID,
		row.Date,
		row.ProductID,
		row.ProductName,
		strconv.Itoa(row.Quantity),
		row.UnitPrice.String(),
		row.CustomerID,
		row.Region,
		row.Category,
		row.Brand,
		rating,
		strconv.FormatBool(row.Matched),
	}
}
