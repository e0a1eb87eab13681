package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader carries a per-request id so client and backend logs can be correlated
const RequestIDHeader = "X-Request-ID"

// Param is a single query filter
type Param struct {
	Key   string
	Value any
}

// Params are query filters sent in insertion order. Values should be strings, numbers or booleans.
type Params []Param

// Add returns p with key=value appended
func (p Params) Add(key string, value any) Params {
	return append(p, Param{Key: key, Value: value})
}

// Get returns the first value stored under key
func (p Params) Get(key string) (any, bool) {
	for _, param := range p {
		if param.Key == key {
			return param.Value, true
		}
	}
	return nil, false
}

// Encode renders the params as a query string (without the leading '?'), keeping their order
func (p Params) Encode() string {
	if len(p) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, param := range p {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(param.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(formatValue(param.Value)))
	}
	return sb.String()
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// RequestOption adjusts a single request
type RequestOption func(*http.Request)

// WithHeader sets a header on the request, overriding the defaults
func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set(key, value)
	}
}

// Get sends a GET with params as the query string and decodes the response into T
func Get[T any](ctx context.Context, c *Client, e Endpoint, params Params, opts ...RequestOption) (T, error) {
	return do[T](ctx, c, http.MethodGet, e, params, nil, opts)
}

// Post sends body as JSON and decodes the response into T
func Post[T any](ctx context.Context, c *Client, e Endpoint, body any, opts ...RequestOption) (T, error) {
	return do[T](ctx, c, http.MethodPost, e, nil, body, opts)
}

// Put sends body as JSON and decodes the response into T
func Put[T any](ctx context.Context, c *Client, e Endpoint, body any, opts ...RequestOption) (T, error) {
	return do[T](ctx, c, http.MethodPut, e, nil, body, opts)
}

// do is the request pipeline shared by every builder
func do[T any](ctx context.Context, c *Client, method string, e Endpoint, params Params, body any, opts []RequestOption) (T, error) {
	var zero T

	target, err := c.resolve(e)
	if err != nil {
		return zero, err
	}
	if query := params.Encode(); query != "" {
		target += "?" + query
	}

	var reader io.Reader
	if method != http.MethodGet {
		data, err := json.Marshal(body)
		if err != nil {
			return zero, fmt.Errorf("marshaling %s request: %w", e, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return zero, fmt.Errorf("creating %s request: %w", e, err)
	}

	c.setDefaultHeaders(req)
	for _, opt := range opts {
		opt(req)
	}

	start := time.Now()
	res, err := c.execute(req)
	if err != nil {
		c.logger.Debug("backend request failed",
			slog.String("endpoint", e.String()),
			slog.String("method", method),
			slog.String("request_id", req.Header.Get(RequestIDHeader)),
			slog.Duration("duration", time.Since(start)),
			slog.String("error", err.Error()),
		)
		return zero, err
	}
	defer res.Body.Close()

	c.logger.Debug("backend request completed",
		slog.String("endpoint", e.String()),
		slog.String("method", method),
		slog.Int("status", res.StatusCode),
		slog.String("request_id", req.Header.Get(RequestIDHeader)),
		slog.Duration("duration", time.Since(start)),
	)

	return interpret[T](c, res)
}

// setDefaultHeaders snapshots the current token; later changes to the store do not affect this request
func (c *Client) setDefaultHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())

	if c.credentials == nil {
		return
	}
	if token, ok := c.credentials.Token(); ok {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}
}
