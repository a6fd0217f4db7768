package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Order statuses reported by the processor.
const (
	StatusCreated   = "CREATED"
	StatusCompleted = "COMPLETED"
	StatusDeclined  = "DECLINED"
)

// Client talks to the external payment processor. The processor is a black
// box from the ledger's point of view: create an order, capture it, read the
// captured amount and status off the response.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a payment processor client
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Order represents a processor-side order
type Order struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// CaptureResult is what a capture call returns
type CaptureResult struct {
	ExternalID     string  `json:"id"`
	Status         string  `json:"status"`
	CapturedAmount float64 `json:"captured_amount"`
}

// CreateOrder creates an order for the given USD amount
func (c *Client) CreateOrder(ctx context.Context, amountUSD float64, metadata map[string]string) (*Order, error) {
	body, err := json.Marshal(map[string]interface{}{
		"amount":   amountUSD,
		"currency": "USD",
		"metadata": metadata,
	})
	if err != nil {
		return nil, err
	}

	var order Order
	if err := c.post(ctx, "/v1/orders", body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CaptureOrder captures a previously created order
func (c *Client) CaptureOrder(ctx context.Context, orderID string) (*CaptureResult, error) {
	var result CaptureResult
	if err := c.post(ctx, fmt.Sprintf("/v1/orders/%s/capture", orderID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) post(ctx context.Context, path string, body []byte, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("payment API error: %s - %s", resp.Status, string(b))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
