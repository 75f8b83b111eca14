// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jeranaias/legalease-tui/internal/audio"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the backend client.
type ClientError struct {
	Type    ErrorType
	Status  int // HTTP status for ErrTypeStatus
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeCanceled
	ErrTypeStatus
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrUnavailable = &ClientError{Type: ErrTypeConnection, Message: "could not reach the analysis service"}
	ErrTimeout     = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrCanceled    = &ClientError{Type: ErrTypeCanceled, Message: "request canceled"}
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// maxResponseBody bounds non-streaming response bodies.
const maxResponseBody = 32 << 20

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// Default base URLs of the analysis service.
const (
	DefaultLocalURL    = "http://127.0.0.1:8000"
	DefaultDeployedURL = "https://legalease-backend.onrender.com"
)

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the service origin, without trailing slash.
	BaseURL string

	// Timeout for non-streaming requests (default: 60s). Streams are bounded
	// only by the request context.
	Timeout time.Duration

	// RequestsPerSecond limits outgoing requests (default: 2, burst 4).
	RequestsPerSecond float64
	Burst             int

	// Logger receives request logs. Nil disables logging.
	Logger *zap.Logger
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:           DefaultDeployedURL,
		Timeout:           60 * time.Second,
		RequestsPerSecond: 2,
		Burst:             4,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the analysis service.
// The Client is safe for concurrent use.
type Client struct {
	config       *ClientConfig
	httpClient   *http.Client
	streamClient *http.Client
	limiter      *rate.Limiter
	logger       *zap.Logger
}

// NewClient creates a client for baseURL with default settings.
func NewClient(baseURL string) *Client {
	cfg := DefaultConfig()
	cfg.BaseURL = baseURL
	return NewClientWithConfig(cfg)
}

// NewClientWithConfig creates a client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	defaults := DefaultConfig()
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.Timeout == 0 {
		config.Timeout = defaults.Timeout
	}
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = defaults.RequestsPerSecond
	}
	if config.Burst <= 0 {
		config.Burst = defaults.Burst
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		config:       config,
		httpClient:   &http.Client{Timeout: config.Timeout},
		streamClient: &http.Client{},
		limiter:      rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst),
		logger:       logger.Named("backend"),
	}
}

// BaseURL returns the service origin in use.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// BASE URL SELECTION
// =============================================================================

// ResolveBaseURL returns localURL when host names a loopback address and
// deployedURL otherwise. host may carry a port ("localhost:5173").
func ResolveBaseURL(host, localURL, deployedURL string) string {
	if IsLoopback(host) {
		return localURL
	}
	return deployedURL
}

// IsLoopback reports whether host is "localhost" or a loopback IP.
func IsLoopback(host string) bool {
	host = strings.TrimSpace(host)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.Trim(host, "[]")
	if strings.EqualFold(host, "localhost") || strings.HasSuffix(strings.ToLower(host), ".localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// =============================================================================
// ANALYSIS (STREAMING)
// =============================================================================

// StreamCallback is called after each chunk with the accumulated text and
// the new chunk. Calls happen synchronously in arrival order.
type StreamCallback func(accumulated, chunk string)

// AnalyzeTextStream streams an analysis of document text and returns the
// complete text.
func (c *Client) AnalyzeTextStream(ctx context.Context, document, language string, cb StreamCallback) (string, error) {
	return c.stream(ctx, PathAnalyzeText, AnalyzeTextRequest{Document: document, Language: language}, cb)
}

// AnalyzeImageStream streams an analysis of a base64 JPEG and returns the
// complete text.
func (c *Client) AnalyzeImageStream(ctx context.Context, imageData, language string, cb StreamCallback) (string, error) {
	return c.stream(ctx, PathAnalyzeImage, AnalyzeImageRequest{ImageData: imageData, Language: language}, cb)
}

func (c *Client) stream(ctx context.Context, path string, body any, cb StreamCallback) (string, error) {
	start := time.Now()
	resp, err := c.post(ctx, c.streamClient, path, body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", statusError(resp)
	}

	reader := NewStreamReader(resp.Body)
	if err := reader.Process(ctx, cb); err != nil {
		return reader.Accumulated(), classify(err, "stream interrupted")
	}

	c.logger.Info("stream complete",
		zap.String("path", path),
		zap.Int("bytes", len(reader.Accumulated())),
		zap.Int("chunks", reader.Chunks()),
		zap.Duration("elapsed", time.Since(start)))
	return reader.Accumulated(), nil
}

// =============================================================================
// TEXT TO SPEECH
// =============================================================================

// TextToSpeech requests synthesized speech for text.
func (c *Client) TextToSpeech(ctx context.Context, text, language string) (*SpeechResponse, error) {
	resp, err := c.post(ctx, c.httpClient, PathTextToSpeech, SpeechRequest{Text: text, Language: language})
	if err != nil {
		return nil, err
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp)
	}

	var result SpeechResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "malformed speech response", Cause: err}
	}
	if result.AudioData == "" {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "speech response has no audio"}
	}
	return &result, nil
}

// Synthesize implements audio.Synthesizer.
func (c *Client) Synthesize(ctx context.Context, text, language string) (*audio.Speech, error) {
	resp, err := c.TextToSpeech(ctx, text, language)
	if err != nil {
		return nil, err
	}
	return &audio.Speech{AudioData: resp.AudioData, MimeType: resp.MimeType}, nil
}

// =============================================================================
// CHAT
// =============================================================================

// Chat sends a question about document and returns the reply. The reply may
// arrive as JSON {response} or as a plain-text body.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (string, error) {
	if req.History == nil {
		req.History = []HistoryTurn{}
	}
	resp, err := c.post(ctx, c.httpClient, PathChat, req)
	if err != nil {
		return "", err
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", statusError(resp)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return "", classify(err, "failed to read chat response")
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "empty chat response"}
	}

	if trimmed[0] == '{' || strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		var result ChatResponse
		if err := json.Unmarshal(trimmed, &result); err != nil {
			return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "malformed chat response", Cause: err}
		}
		return result.Response, nil
	}
	return string(data), nil
}

// =============================================================================
// HEALTH CHECK
// =============================================================================

// Ping checks that the service answers on its root path.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/", nil)
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classify(err, "service unreachable")
	}
	defer drainAndClose(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func (c *Client) post(ctx context.Context, hc *http.Client, path string, body any) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, classify(err, "rate limit wait")
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("request", zap.String("path", path), zap.Int("bytes", len(payload)))
	resp, err := hc.Do(req)
	if err != nil {
		c.logger.Warn("request failed", zap.String("path", path), zap.Error(err))
		return nil, classify(err, "request failed")
	}
	return resp, nil
}

// classify maps transport errors onto ClientError types.
func classify(err error, message string) error {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return &ClientError{Type: ErrTypeCanceled, Message: ErrCanceled.Message, Cause: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &ClientError{Type: ErrTypeTimeout, Message: ErrTimeout.Message, Cause: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &ClientError{Type: ErrTypeTimeout, Message: ErrTimeout.Message, Cause: err}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &ClientError{Type: ErrTypeConnection, Message: ErrUnavailable.Message, Cause: urlErr.Err}
	}
	return &ClientError{Type: ErrTypeConnection, Message: message, Cause: err}
}

// statusError builds an error from a non-2xx response. The message is the
// JSON detail when present, else the body text, else a generic fallback.
func statusError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &ClientError{
		Type:    ErrTypeStatus,
		Status:  resp.StatusCode,
		Message: errorMessage(data, resp.Status),
	}
}

func errorMessage(body []byte, status string) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var er errorResponse
		if err := json.Unmarshal(trimmed, &er); err == nil {
			if msg := detailText(er.Detail); msg != "" {
				return msg
			}
		}
	}
	if len(trimmed) > 0 {
		return string(trimmed)
	}
	return fmt.Sprintf("request failed: %s", status)
}

// detailText flattens FastAPI-style details: a string or a list of
// {msg} objects.
func detailText(detail any) string {
	switch d := detail.(type) {
	case string:
		return d
	case []any:
		var msgs []string
		for _, item := range d {
			if m, ok := item.(map[string]any); ok {
				if s, ok := m["msg"].(string); ok {
					msgs = append(msgs, s)
				}
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

func drainAndClose(r io.ReadCloser) {
	io.Copy(io.Discard, io.LimitReader(r, maxErrorBody))
	r.Close()
}

// =============================================================================
// ERROR PREDICATES
// =============================================================================

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	var clientErr *ClientError
	return errors.As(err, &clientErr) && clientErr.Type == ErrTypeTimeout
}

// IsCanceled checks if the request was abandoned by its context.
func IsCanceled(err error) bool {
	var clientErr *ClientError
	return errors.As(err, &clientErr) && clientErr.Type == ErrTypeCanceled
}

// IsStatus checks if an error is a non-2xx response.
func IsStatus(err error) bool {
	var clientErr *ClientError
	return errors.As(err, &clientErr) && clientErr.Type == ErrTypeStatus
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Status
	}
	return 0
}
