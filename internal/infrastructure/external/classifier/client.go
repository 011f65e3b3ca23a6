// Package classifier implements the risk-classification port: an HTTP
// client for the external prediction service and a local rule-based
// implementation with identical semantics. Both are best-effort from the
// caller's point of view; a failed classification never blocks a mark or
// attendance write.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/edupulse/academic-engine/internal/application/command"
	"github.com/edupulse/academic-engine/internal/domain/record"
	"github.com/edupulse/academic-engine/internal/domain/shared"
	"github.com/edupulse/academic-engine/pkg/circuitbreaker"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// ClientConfig contains configuration for the prediction service client.
type ClientConfig struct {
	// BaseURL is the prediction service base URL.
	BaseURL string

	// Timeout is the HTTP request timeout.
	Timeout time.Duration

	// Logger for structured logging.
	Logger *slog.Logger
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig(baseURL string) ClientConfig {
	return ClientConfig{
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// HTTP CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client calls the external prediction service over HTTP. A circuit breaker
// short-circuits calls while the service is known to be down, so a flapping
// classifier does not add its full timeout to every mark write.
type Client struct {
	config         ClientConfig
	httpClient     *http.Client
	logger         *slog.Logger
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// compile-time interface check
var _ command.Classifier = (*Client)(nil)

// NewClient creates a new prediction service client.
func NewClient(config ClientConfig) *Client {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Second
	}

	logger := config.Logger

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger,
		circuitBreaker: circuitbreaker.ClassifierBreaker(func(name string, from, to circuitbreaker.State) {
			logger.Warn("classifier circuit state changed",
				"breaker", name, "from", from.String(), "to", to.String())
		}),
	}
}

// Classify posts the student's aggregates to the prediction service and maps
// the response onto the domain classification.
func (c *Client) Classify(ctx context.Context, in command.ClassifierInput) (*record.Classification, error) {
	reqDTO := PredictRequestDTO{
		AvgMarks:        in.AvgMarks,
		Attendance:      in.Attendance,
		ImprovementRate: in.ImprovementRate,
	}

	var respDTO PredictResponseDTO
	err := c.circuitBreaker.Execute(ctx, func(ctx context.Context) error {
		return c.doPredict(ctx, reqDTO, &respDTO)
	})
	if err != nil {
		if errors.Is(err, circuitbreaker.ErrCircuitOpen) || errors.Is(err, circuitbreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: circuit open", shared.ErrClassifierUnavailable)
		}
		return nil, err
	}

	return respDTO.toClassification()
}

// doPredict performs one POST /predict round trip.
func (c *Client) doPredict(ctx context.Context, reqDTO PredictRequestDTO, respDTO *PredictResponseDTO) error {
	body, err := json.Marshal(reqDTO)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	fullURL := c.config.BaseURL + "/predict"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: %v", shared.ErrClassifierTimeout, err)
		}
		return fmt.Errorf("%w: %v", shared.ErrClassifierUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", shared.ErrClassifierUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d: %s", shared.ErrClassifierUnavailable, resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, respDTO); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrClassifierInvalidResponse, err)
	}

	return nil
}

// IsHealthy checks if the prediction service is reachable.
func (c *Client) IsHealthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK
}

// BreakerState exposes the circuit state for status reporting.
func (c *Client) BreakerState() circuitbreaker.State {
	return c.circuitBreaker.State()
}
