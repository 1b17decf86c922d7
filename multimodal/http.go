package multimodal

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/tsawler/outline/config"
)

//go:embed predictions.schema.json
var predictionsSchema []byte

// ErrPayloadTooLarge is returned when a request or response exceeds the
// configured payload limit.
var ErrPayloadTooLarge = errors.New("multimodal: payload too large")

// StatusError is a non-2xx classifier response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("classifier returned %d: %s", e.Code, e.Body)
}

// Temporary reports whether the request may succeed on retry.
func (e *StatusError) Temporary() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// HTTPClassifier calls a remote token classification endpoint.
type HTTPClassifier struct {
	endpoint   string
	apiKey     string
	client     *http.Client
	attempts   uint
	delay      time.Duration
	maxPayload int64
	schema     *jsonschema.Schema
	available  bool
	logger     *slog.Logger
}

type classifyRequest struct {
	Page   int     `json:"page"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Words  []Word  `json:"words"`
	Image  string  `json:"image,omitempty"`
}

type classifyResponse struct {
	Predictions []Prediction `json:"predictions"`
}

// NewHTTPClassifier creates a classifier for cfg.Endpoint and probes it.
// An empty endpoint, or one that cannot be reached, yields a classifier
// whose Available method returns false.
func NewHTTPClassifier(ctx context.Context, cfg config.Multimodal, logger *slog.Logger) (*HTTPClassifier, error) {
	if logger == nil {
		logger = slog.Default()
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("predictions.json", bytes.NewReader(predictionsSchema)); err != nil {
		return nil, fmt.Errorf("failed to load predictions schema: %w", err)
	}
	schema, err := compiler.Compile("predictions.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile predictions schema: %w", err)
	}

	c := &HTTPClassifier{
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		client:     &http.Client{Timeout: cfg.Timeout},
		attempts:   max(1, cfg.RetryAttempts),
		delay:      cfg.RetryDelay,
		maxPayload: int64(cfg.MaxPayloadMB) << 20,
		schema:     schema,
		logger:     logger,
	}
	if c.endpoint == "" {
		return c, nil
	}
	if err := c.probe(ctx); err != nil {
		logger.Warn("multimodal classifier unavailable", "endpoint", c.endpoint, "error", err)
		return c, nil
	}
	c.available = true
	return c, nil
}

// Available reports whether the endpoint answered the construction probe.
func (c *HTTPClassifier) Available() bool {
	return c.available
}

// probe checks the endpoint answers at all. Any status below 500 counts,
// since a POST-only endpoint may reject the GET.
func (c *HTTPClassifier) probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= 500 {
		return &StatusError{Code: resp.StatusCode}
	}
	return nil
}

// Classify sends the page and returns the validated predictions. Network
// failures, 429 and 5xx responses are retried.
func (c *HTTPClassifier) Classify(ctx context.Context, page Page) ([]Prediction, error) {
	body, err := c.encode(page)
	if err != nil {
		return nil, err
	}

	var out []Prediction
	err = retry.Do(
		func() error {
			preds, err := c.post(ctx, body)
			if err != nil {
				return err
			}
			out = preds
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug("multimodal: retrying classify", "page", page.Index, "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("classify page %d: %w", page.Index, err)
	}
	return out, nil
}

func retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	return !errors.Is(err, ErrPayloadTooLarge) && !errors.Is(err, errInvalidResponse)
}

var errInvalidResponse = errors.New("invalid classifier response")

func (c *HTTPClassifier) encode(page Page) ([]byte, error) {
	req := classifyRequest{
		Page:   page.Index,
		Width:  page.Width,
		Height: page.Height,
		Words:  page.Words,
	}
	if page.Image != nil {
		var buf bytes.Buffer
		if err := png.Encode(&buf, page.Image); err != nil {
			return nil, fmt.Errorf("encoding page image: %w", err)
		}
		req.Image = base64.StdEncoding.EncodeToString(buf.Bytes())
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > c.maxPayload {
		return nil, fmt.Errorf("%w: request is %d bytes", ErrPayloadTooLarge, len(body))
	}
	return body, nil
}

func (c *HTTPClassifier) post(ctx context.Context, body []byte) ([]Prediction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxPayload+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > c.maxPayload {
		return nil, fmt.Errorf("%w: response exceeds %d bytes", ErrPayloadTooLarge, c.maxPayload)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(bytes.TrimSpace(data))}
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidResponse, err)
	}
	if err := c.schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidResponse, err)
	}

	var parsed classifyResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidResponse, err)
	}
	return parsed.Predictions, nil
}
