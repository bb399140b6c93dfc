package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"inventory-sync/core/ratelimit"

	"go.uber.org/zap"
)

// Client fetches inventory snapshots from the provider API.
// Every call passes through the rate limiter before touching the network.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *ratelimit.Limiter
	logger  *zap.Logger
}

// NewClient creates a provider API client.
func NewClient(cfg Config, limiter *ratelimit.Limiter, logger *zap.Logger) *Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: time.Duration(timeout) * time.Second},
		limiter: limiter,
		logger:  logger,
	}
}

// FetchInventory returns the slot snapshot for a product on a date (YYYYMMDD).
// It blocks on the rate limiter first, then issues a single GET; transport
// failures, non-2xx responses and undecodable payloads all surface as a
// *FetchError and are never retried here.
func (c *Client) FetchInventory(ctx context.Context, productID uint, date string) ([]SlotRecord, error) {
	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, &FetchError{ProductID: productID, Date: date, Err: err}
	}

	url := fmt.Sprintf("%s/api/v1/inventory/%d?date=%s", c.baseURL, productID, date)
	c.logger.Debug("Fetching inventory", zap.String("url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{ProductID: productID, Date: date, Err: err}
	}
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{ProductID: productID, Date: date, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &FetchError{
			ProductID: productID,
			Date:      date,
			Err:       fmt.Errorf("provider returned status %d", resp.StatusCode),
		}
	}

	var snapshot []SlotRecord
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return nil, &FetchError{ProductID: productID, Date: date, Err: fmt.Errorf("malformed payload: %w", err)}
	}

	return snapshot, nil
}
