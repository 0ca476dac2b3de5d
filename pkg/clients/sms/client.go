package sms

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/nebsam/opsdash/internal/config"
)

// Client exposes the SMS gateway operations used by the application.
type Client interface {
	Send(ctx context.Context, req SendRequest) (*SendResponse, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
	senderID   string
}

// NewClient builds an SMS gateway client using the provided configuration values.
func NewClient(cfg config.SMSConfig) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &APIClient{
		httpClient: restyClient,
		senderID:   cfg.SenderID,
	}
}

// SendRequest is a single text message to one recipient.
type SendRequest struct {
	To   string
	Body string
}

// SendResponse mirrors the gateway's acknowledgement.
type SendResponse struct {
	MessageID string `json:"messageId"`
	Status    string `json:"status"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// StatusError is returned when the gateway answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("sms gateway error: code=%d, message=%s", e.StatusCode, e.Message)
}

// Temporary reports whether retrying the request may succeed.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

func (c *APIClient) Send(ctx context.Context, req SendRequest) (*SendResponse, error) {
	payload := map[string]any{
		"from": c.senderID,
		"to":   req.To,
		"text": req.Body,
	}

	result := new(SendResponse)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(result).
		SetError(apiErr).
		Post("/messages")
	if err != nil {
		return nil, fmt.Errorf("send sms: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, &StatusError{StatusCode: resp.StatusCode(), Message: apiErr.Message}
	}

	return result, nil
}
