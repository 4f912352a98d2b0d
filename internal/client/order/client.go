package order

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nastyazhadan/restaurant-order/internal/cart"
	zapLogger "github.com/nastyazhadan/restaurant-order/shared/logger/zap"
)

const (
	createOrderPath  = "/api/orders/create"
	requestIDHeader  = "X-Request-ID"
	defaultTimeout   = 15 * time.Second
	maxResponseBytes = 1 << 20
)

var ErrUnexpectedResponse = errors.New("unexpected response from order service")

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is a non-2xx answer from the order endpoint.
type APIError struct {
	Status     int
	Code       string
	Message    string
	Errors     []FieldError
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("order service returned %d %s: %s", e.Status, e.Code, e.Message)
}

// Temporary reports whether resubmitting the same cart later can succeed.
func (e *APIError) Temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func New(baseURL string, options ...Option) *Client {
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}

	for _, option := range options {
		option(client)
	}

	return client
}

type envelope struct {
	Success    bool              `json:"success"`
	Order      cart.Confirmation `json:"order"`
	Error      string            `json:"error"`
	Message    string            `json:"message"`
	Errors     []FieldError      `json:"errors"`
	RetryAfter int               `json:"retryAfter"`
}

// SubmitOrder posts the request and returns the server-priced order.
func (c *Client) SubmitOrder(ctx context.Context, request cart.OrderRequest) (cart.Confirmation, error) {
	const op = "order.Client.SubmitOrder"

	payload, err := json.Marshal(request)
	if err != nil {
		return cart.Confirmation{}, fmt.Errorf("%s: %w", op, err)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+createOrderPath, bytes.NewReader(payload))
	if err != nil {
		return cart.Confirmation{}, fmt.Errorf("%s: %w", op, err)
	}
	httpRequest.Header.Set("Content-Type", "application/json")
	httpRequest.Header.Set("Accept", "application/json")
	if requestID := zapLogger.TraceIDFromContext(ctx); requestID != "" {
		httpRequest.Header.Set(requestIDHeader, requestID)
	}

	response, err := c.httpClient.Do(httpRequest)
	if err != nil {
		return cart.Confirmation{}, fmt.Errorf("%s: %w", op, err)
	}
	defer response.Body.Close()

	var body envelope
	if err = json.NewDecoder(io.LimitReader(response.Body, maxResponseBytes)).Decode(&body); err != nil {
		return cart.Confirmation{}, fmt.Errorf("%s: status %d: %w", op, response.StatusCode, ErrUnexpectedResponse)
	}

	if response.StatusCode != http.StatusOK || !body.Success {
		return cart.Confirmation{}, fmt.Errorf("%s: %w", op, toAPIError(response, body))
	}

	return body.Order, nil
}

func toAPIError(response *http.Response, body envelope) *APIError {
	apiErr := &APIError{
		Status:  response.StatusCode,
		Code:    body.Error,
		Message: body.Message,
		Errors:  body.Errors,
	}

	if seconds, err := strconv.Atoi(response.Header.Get("Retry-After")); err == nil && seconds > 0 {
		apiErr.RetryAfter = time.Duration(seconds) * time.Second
	} else if body.RetryAfter > 0 {
		apiErr.RetryAfter = time.Duration(body.RetryAfter) * time.Second
	}

	return apiErr
}
