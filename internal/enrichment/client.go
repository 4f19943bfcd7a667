// Package enrichment annotates validated transactions with product metadata
// fetched from a remote catalog.
//
// The catalog is fetched once per run with a single attempt and a fixed
// timeout. Fetch failures never abort the pipeline: the caller degrades to
// an empty mapping and the enrichment section of the report is skipped.
package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/asaisreeja/Sales-Analytics-System/internal/models"
	"github.com/asaisreeja/Sales-Analytics-System/pkg/errors"
	"github.com/asaisreeja/Sales-Analytics-System/pkg/logger"
)

// ClientConfig holds configuration for the catalog client.
type ClientConfig struct {
	// BaseURL is the product-listing endpoint.
	BaseURL string
	// PageLimit is the page-size parameter sent with the request.
	PageLimit int
	// Timeout bounds the single fetch attempt.
	Timeout time.Duration
}

// DefaultClientConfig returns the standard catalog endpoint configuration.
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:   "https://dummyjson.com/products",
		PageLimit: 100,
		Timeout:   10 * time.Second,
	}
}

// Validate validates the client configuration.
func (c *ClientConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("invalid base URL '%s': %w", c.BaseURL, err)
	}
	if c.PageLimit <= 0 {
		return fmt.Errorf("page limit must be positive, got %d", c.PageLimit)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	return nil
}

// Client fetches product metadata from the remote catalog.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient creates a catalog client with the given configuration.
func NewClient(config *ClientConfig) (*Client, error) {
	if config == nil {
		config = DefaultClientConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(
			errors.CodeInvalidConfig,
			"catalog_client_config",
			config,
			err,
		)
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     logger.GetGlobalLogger().WithComponent("catalog_client"),
	}, nil
}

// productListResponse mirrors the catalog's JSON payload.
type productListResponse struct {
	Products []models.CatalogEntry `json:"products"`
	Total    int                   `json:"total"`
}

// FetchProducts performs the single catalog fetch. It returns a coded error
// on transport failure, timeout, non-200 status, or an unreadable body; the
// caller decides how to degrade.
func (c *Client) FetchProducts(ctx context.Context) ([]models.CatalogEntry, error) {
	endpoint := c.requestURL()

	c.logger.WithField("endpoint", endpoint).Info("Fetching product catalog")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.EnrichmentError(errors.CodeConnectionFailed, endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded || isTimeout(err) {
			return nil, errors.EnrichmentError(errors.CodeTimeout, endpoint, err)
		}
		return nil, errors.EnrichmentError(errors.CodeConnectionFailed, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.EnrichmentError(errors.CodeBadStatus, endpoint, nil).
			WithContext("status_code", resp.StatusCode)
	}

	var payload productListResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.EnrichmentError(errors.CodeBadPayload, endpoint, err)
	}

	c.logger.WithField("products", len(payload.Products)).Info("Fetched product catalog")

	return payload.Products, nil
}

// requestURL builds the listing URL with the page-size parameter.
func (c *Client) requestURL() string {
	u, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return c.config.BaseURL
	}

	query := u.Query()
	query.Set("limit", strconv.Itoa(c.config.PageLimit))
	u.RawQuery = query.Encode()

	return u.String()
}

// isTimeout reports whether err is a network timeout.
func isTimeout(err error) bool {
	type timeout interface {
		Timeout() bool
	}

	for err != nil {
		if te, ok := err.(timeout); ok && te.Timeout() {
			return true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}
