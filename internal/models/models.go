// Package models lists the model identifiers a provider serves.
package models

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"

	"github.com/jxucoder/askai/internal/config"
)

// Lister fetches the provider's model catalogue.
type Lister struct {
	client *openai.Client
}

// New creates a Lister that calls GET <cfg.BaseURL>/models.
func New(cfg *config.Config) *Lister {
	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = cfg.BaseURL
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	return &Lister{client: openai.NewClientWithConfig(oc)}
}

// List returns model ids in the order the provider reports them.
func (l *Lister) List(ctx context.Context) ([]string, error) {
	resp, err := l.client.ListModels(ctx)
	if err != nil {
		return nil, unwrap(err)
	}
	ids := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		ids = append(ids, m.ID)
	}
	log.Debug().Int("count", len(ids)).Msg("listed models")
	return ids, nil
}

// unwrap reduces a provider error to its message so it reads the same as a
// completion error.
func unwrap(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return errors.New(apiErr.Message)
	}
	return err
}
