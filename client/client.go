// Package client wraps the processor HTTP API. It does exactly one request
// per call and classifies every failure; retry policy belongs to callers.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hectorchu/wc-gateway-gonano/types"
)

// Client talks to a Gonano-compatible payment processor.
type Client struct {
	apiURL string
	http   *http.Client
}

// New creates a processor client for the given API base URL. A nil
// httpClient falls back to http.DefaultClient; timeouts are whatever that
// client enforces.
func New(apiURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		apiURL: strings.TrimSuffix(apiURL, "/"),
		http:   httpClient,
	}
}

// APIURL returns the processor base URL the client was built with.
func (c *Client) APIURL() string { return c.apiURL }

// Get performs a GET request and returns the raw body of a 200 response.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &types.TransportError{URL: rawURL, Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &types.TransportError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &types.TransportError{URL: rawURL, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &types.RemoteError{URL: rawURL, Status: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

// Post sends payload as JSON and decodes a 200 response into out. A nil out
// discards the response body.
func (c *Client) Post(ctx context.Context, rawURL string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &types.TransportError{URL: rawURL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(body))
	if err != nil {
		return &types.TransportError{URL: rawURL, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &types.TransportError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &types.TransportError{URL: rawURL, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return &types.RemoteError{URL: rawURL, Status: resp.StatusCode, Body: string(respBody)}
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return &types.DecodeError{URL: rawURL, Err: err}
	}

	return nil
}

// Rate asks the processor to convert a fiat amount into NANO. The response
// body is the already-converted native amount as a plain number.
func (c *Client) Rate(ctx context.Context, amount, currency string) (decimal.Decimal, error) {
	q := url.Values{}
	q.Set("amount", amount)
	q.Set("currency", currency)
	rawURL := c.apiURL + "/rates/?" + q.Encode()

	body, err := c.Get(ctx, rawURL)
	if err != nil {
		return decimal.Zero, err
	}

	rate, err := decimal.NewFromString(strings.TrimSpace(string(body)))
	if err != nil {
		return decimal.Zero, &types.DecodeError{URL: rawURL, Err: err}
	}

	return rate, nil
}

// NewPayment creates a payment on the processor.
func (c *Client) NewPayment(ctx context.Context, account, amount string) (*types.NewPaymentResponse, error) {
	var result types.NewPaymentResponse
	err := c.Post(ctx, c.apiURL+"/payment/new",
		&types.NewPaymentRequest{Account: account, Amount: amount}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Status queries the settlement state of a payment.
func (c *Client) Status(ctx context.Context, paymentID string) (*types.PaymentStatusResponse, error) {
	var result types.PaymentStatusResponse
	err := c.Post(ctx, c.apiURL+"/payment/status", &types.PaymentRequest{ID: paymentID}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Cancel asks the processor to release a payment. The response body is
// ignored; callers treat errors as advisory.
func (c *Client) Cancel(ctx context.Context, paymentID string) error {
	return c.Post(ctx, c.apiURL+"/payment/cancel", &types.PaymentRequest{ID: paymentID}, nil)
}
