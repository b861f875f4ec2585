// Package prover is the HTTP client for the external proof-generation
// service.
package prover

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/openquest/zklogin/core"
	"github.com/openquest/zklogin/ports"
)

// defaultTimeout bounds one proof request. Proof generation takes
// human-perceptible seconds on a warm prover and longer on a cold one.
const defaultTimeout = 60 * time.Second

// StatusError is returned for a non-2xx prover response. It carries the
// status code and the verbatim response body so operators can tell an
// overloaded service from a malformed request.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("prover returned status %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the failure is worth retrying with the same
// pending attempt parameters (overload or cold start, not a bad request).
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Client implements ports.Prover over HTTP POST with a JSON body.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient creates a prover client for the given base URL.
func NewClient(baseURL string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  logger.With().Str("component", "prover").Logger(),
	}
}

var _ ports.Prover = (*Client)(nil)

// RequestProof posts the proof request and decodes the proof structure. The
// request is not retried here; callers decide whether to retry, reusing the
// same pending parameters.
func (c *Client) RequestProof(ctx context.Context, req ports.ProofRequest) (*core.ZkProof, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("%w: prover URL", core.ErrMissingConfig)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode proof request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build proof request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("proof request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read prover response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var proof core.ZkProof
	if err := json.Unmarshal(body, &proof); err != nil {
		return nil, fmt.Errorf("failed to decode proof response: %w", err)
	}

	c.logger.Debug().
		Dur("elapsed", time.Since(start)).
		Uint64("max_epoch", req.MaxEpoch).
		Msg("proof generated")

	return &proof, nil
}
