package products

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// Product mirrors the backend's product resource. Price travels as a string
// because that is what the backend expects on writes.
type Product struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Quantity    int    `json:"quantity"`
	Category    string `json:"category"`
}

// Client is a thin client for the protected /products endpoints. The supplied
// http.Client is expected to carry the bearer-injecting transport; this
// package knows nothing about authentication.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a products client for the backend at baseURL.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("[NewClient] baseURL is required")
	}
	if httpClient == nil {
		return nil, errors.New("[NewClient] httpClient is required")
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/") + "/products", http: httpClient}, nil
}

// List returns all products.
func (c *Client) List(ctx context.Context) ([]Product, error) {
	var list []Product
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL, nil, &list); err != nil {
		return nil, errors.Wrap(err, "[Client.List]")
	}
	return list, nil
}

// Create stores a new product and returns it with its assigned ID.
func (c *Client) Create(ctx context.Context, p Product) (*Product, error) {
	var created Product
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL, p, &created); err != nil {
		return nil, errors.Wrap(err, "[Client.Create]")
	}
	return &created, nil
}

// Update replaces the product with the given id.
func (c *Client) Update(ctx context.Context, id int64, p Product) (*Product, error) {
	var updated Product
	url := fmt.Sprintf("%s/%d", c.baseURL, id)
	if err := c.doJSON(ctx, http.MethodPut, url, p, &updated); err != nil {
		return nil, errors.Wrap(err, "[Client.Update]")
	}
	return &updated, nil
}

// Delete removes the product with the given id.
func (c *Client) Delete(ctx context.Context, id int64) error {
	url := fmt.Sprintf("%s/%d", c.baseURL, id)
	if err := c.doJSON(ctx, http.MethodDelete, url, nil, nil); err != nil {
		return errors.Wrap(err, "[Client.Delete]")
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, url string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "sending request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Errorf("unexpected status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decoding response")
	}
	return nil
}
