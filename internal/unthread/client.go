// Package unthread is the boundary adapter for the ticketing platform. The
// store never imports it: callers inject Client.CreateCustomer as the
// customer-creation collaborator.
package unthread

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client calls the Unthread REST API.
type Client struct {
	client *resty.Client
}

// NewClient creates a Client for the given base URL and API key.
func NewClient(baseURL, apiKey string) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Api-Key", apiKey).
		SetTimeout(30 * time.Second)

	return &Client{client: c}
}

type createCustomerRequest struct {
	Name string `json:"name"`
}

type createCustomerResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateCustomer creates a customer named after the chat and returns its id.
// The signature matches store.CustomerCreator.
func (c *Client) CreateCustomer(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty customer name")
	}

	var out createCustomerResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(&createCustomerRequest{Name: name}).
		SetResult(&out).
		Post("/customers")
	if err != nil {
		return "", fmt.Errorf("unthread request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return "", fmt.Errorf("unthread status %d: %s", resp.StatusCode(), resp.String())
	}
	if out.ID == "" {
		return "", fmt.Errorf("unthread response missing customer id")
	}
	return out.ID, nil
}
