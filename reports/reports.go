package reports

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// LowStockThreshold is the quantity at or below which the backend considers a
// product low on stock.
const LowStockThreshold = 5

// Client downloads administrator reports from the protected /report
// endpoints. The supplied http.Client is expected to carry the
// bearer-injecting transport.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a reports client for the backend at baseURL.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("[NewClient] baseURL is required")
	}
	if httpClient == nil {
		return nil, errors.New("[NewClient] httpClient is required")
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/") + "/report", http: httpClient}, nil
}

// LowInventoryPDF downloads the low-stock report as raw PDF bytes.
func (c *Client) LowInventoryPDF(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/low-inventory", nil)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.LowInventoryPDF] building request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.LowInventoryPDF] sending request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Errorf("[Client.LowInventoryPDF] unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.LowInventoryPDF] reading report body")
	}
	return data, nil
}
