// Package payment is a thin client for the payment gateway. In development
// the gateway URL points at a sandbox that approves everything.
package payment

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

var ErrDeclined = errors.New("payment declined")

type Client struct {
	http *resty.Client
}

func NewClient(baseURL, apiKey string) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetHeader("Content-Type", "application/json")
	if apiKey != "" {
		c.SetAuthToken(apiKey)
	}
	return &Client{http: c}
}

type ChargeRequest struct {
	OrderNumber string  `json:"order_number"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Email       string  `json:"email"`
}

type ChargeResult struct {
	Reference string `json:"reference"`
	Status    string `json:"status"` // succeeded, declined
}

// Charge submits the order total to the gateway and returns the payment
// reference on success.
func (c *Client) Charge(req ChargeRequest) (*ChargeResult, error) {
	var result ChargeResult
	resp, err := c.http.R().
		SetBody(req).
		SetResult(&result).
		Post("/charges")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("payment gateway returned %s", resp.Status())
	}
	if result.Status != "succeeded" {
		return nil, fmt.Errorf("%w: %s", ErrDeclined, result.Status)
	}
	return &result, nil
}
