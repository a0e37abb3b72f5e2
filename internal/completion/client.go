package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jxucoder/askai/internal/config"
)

// Temperature is fixed so the same prompt yields the same answer.
const Temperature = 0

// Client sends prompts to a completions endpoint.
type Client struct {
	endpoint  string
	apiKey    string
	model     string
	maxTokens int
	client    *http.Client
}

// New creates a client from cfg. A zero cfg.Timeout leaves requests unbounded.
func New(cfg *config.Config) *Client {
	return &Client{
		endpoint:  cfg.Endpoint,
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		client:    &http.Client{Timeout: cfg.Timeout},
	}
}

// NewRequest builds the request body for prompt.
func (c *Client) NewRequest(prompt string) Request {
	return Request{
		Model:       c.model,
		Prompt:      prompt,
		MaxTokens:   c.maxTokens,
		Temperature: Temperature,
	}
}

// Complete performs one round trip. The error, if any, is a *TransportError,
// *APIError or *DecodeError.
func (c *Client) Complete(ctx context.Context, prompt string) (*Response, error) {
	body, err := json.Marshal(c.NewRequest(prompt))
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	log.Debug().Str("endpoint", c.endpoint).Str("model", c.model).Int("max_tokens", c.maxTokens).
		Msg("sending completion request")
	start := time.Now()

	resp, err := c.client.Do(req)
	if err != nil {
		log.Debug().Err(err).Msg("completion request failed")
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	log.Debug().Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Int("bytes", len(data)).
		Msg("completion response received")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseError(resp, data)
	}

	var out Response
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &DecodeError{StatusCode: resp.StatusCode, Err: err}
	}
	if len(out.Choices) == 0 {
		return nil, &DecodeError{StatusCode: resp.StatusCode, Err: ErrNoChoices}
	}
	return &out, nil
}

// parseError turns a non-2xx reply into an error. A body that is not the
// provider's JSON error envelope is reported as a DecodeError.
func parseError(resp *http.Response, data []byte) error {
	var env errorEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return &DecodeError{StatusCode: resp.StatusCode, Err: err}
	}
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if env.Error != nil {
		apiErr.Message = env.Error.Message
		apiErr.Type = env.Error.Type
	}
	if apiErr.Message == "" {
		apiErr.Message = resp.Status
	}
	return apiErr
}
