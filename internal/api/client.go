// Package api posts registrations to the remote endpoint.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/rivo/uniseg"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/signup/internal/log"
	"github.com/zjrosen/signup/internal/registration"
	"github.com/zjrosen/signup/internal/tracing"
)

// DefaultEndpoint is the registration service used when nothing is configured.
const DefaultEndpoint = "https://webapis.bloomtechdev.com/registration"

// RequestIDHeader carries a fresh id per submit for correlating logs and spans.
const RequestIDHeader = "X-Request-ID"

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 64 << 10

// Registrar sends one registration and returns the server's success message.
type Registrar interface {
	Register(ctx context.Context, values registration.Values) (string, error)
}

// Client is the HTTP Registrar.
type Client struct {
	endpoint  string
	http      *http.Client
	tracer    trace.Tracer
	requestID func() string
}

// Option configures a Client.
type Option func(*Client)

// WithTracer sets the tracer for request spans.
func WithTracer(t trace.Tracer) Option {
	return func(c *Client) {
		if t != nil {
			c.tracer = t
		}
	}
}

// WithRequestIDFunc overrides request id generation.
func WithRequestIDFunc(fn func() string) Option {
	return func(c *Client) {
		if fn != nil {
			c.requestID = fn
		}
	}
}

// NewClient returns a Client posting to endpoint, which must be an absolute
// http or https URL.
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	if err := ValidateEndpoint(endpoint); err != nil {
		return nil, err
	}
	c := &Client{
		endpoint:  endpoint,
		http:      http.DefaultClient,
		tracer:    noop.NewTracerProvider().Tracer(tracing.DefaultServiceName),
		requestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ValidateEndpoint rejects anything but an absolute http(s) URL with a host.
func ValidateEndpoint(endpoint string) error {
	if strings.TrimSpace(endpoint) == "" {
		return errors.New("endpoint is empty")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("parsing endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("endpoint %q must use http or https", endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("endpoint %q has no host", endpoint)
	}
	return nil
}

// Endpoint returns the URL the client posts to.
func (c *Client) Endpoint() string { return c.endpoint }

type responseBody struct {
	Message string `json:"message"`
}

// Register POSTs values as JSON. Any 2xx reply is a success and yields its
// message, which is empty when the body has none or cannot be decoded.
// Anything else yields a *ServerError carrying the reply's message when it has
// one. There is no retry: one call is one request.
func (c *Client) Register(ctx context.Context, values registration.Values) (string, error) {
	reqID := c.requestID()
	ctx, span := c.tracer.Start(ctx, tracing.SpanRegister, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		tracing.AttrRequestID.String(reqID),
		tracing.AttrHTTPMethod.String(http.MethodPost),
		tracing.AttrURL.String(c.endpoint),
		tracing.AttrUsernameLength.Int(uniseg.GraphemeClusterCount(values.Username)),
	)

	body, err := json.Marshal(values)
	if err != nil {
		tracing.RecordError(span, err)
		return "", fmt.Errorf("encoding registration: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		tracing.RecordError(span, err)
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, reqID)

	log.Info(log.CatHTTP, "posting registration", "request_id", reqID, "endpoint", c.endpoint)

	resp, err := c.http.Do(req)
	if err != nil {
		tracing.RecordError(span, err)
		log.ErrorErr(log.CatHTTP, "registration request failed", err, "request_id", reqID)
		return "", fmt.Errorf("posting registration: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	span.SetAttributes(tracing.AttrStatusCode.Int(resp.StatusCode))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		tracing.RecordError(span, err)
		return "", fmt.Errorf("reading response: %w", err)
	}

	var payload responseBody
	decodeErr := json.Unmarshal(raw, &payload)
	message := SanitizeMessage(payload.Message)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := &ServerError{StatusCode: resp.StatusCode, Message: message, RequestID: reqID}
		tracing.RecordError(span, serr)
		if resp.StatusCode >= 500 {
			log.Error(log.CatHTTP, "registration server error", "request_id", reqID, "status", resp.StatusCode, "message", message)
		} else {
			log.Warn(log.CatHTTP, "registration rejected", "request_id", reqID, "status", resp.StatusCode, "message", message)
		}
		return "", serr
	}
	// The server accepted the registration; an unreadable body only costs
	// the message.
	if decodeErr != nil && len(bytes.TrimSpace(raw)) > 0 {
		log.Warn(log.CatHTTP, "undecodable success response", "request_id", reqID, "error", decodeErr)
	}

	log.Info(log.CatHTTP, "registration accepted", "request_id", reqID, "status", resp.StatusCode)
	return message, nil
}
