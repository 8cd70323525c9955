package tracking

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
	"time"

	"github.com/rs/zerolog"

	"telegram-kargo-bot/internal/domain"
	"telegram-kargo-bot/internal/domain/ports/adapter"
	"telegram-kargo-bot/internal/infra/metrics"
)

var _ adapter.TrackingGateway = (*Client)(nil)

// Client implements adapter.TrackingGateway against the remote tracking API.
// Every failure mode (transport error, timeout, non-200) collapses into
// domain.ErrAPIUnavailable; the underlying cause is only logged.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
	logger  *zerolog.Logger
}

func NewClient(baseURL, token string, timeout time.Duration, logger *zerolog.Logger) (*Client, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid tracking base url: %w", err)
	}
	if token == "" {
		return nil, errors.New("tracking token empty")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

// Create posts the submission and returns the tracking id and URL.
func (c *Client) Create(ctx context.Context, sub adapter.Submission) (*adapter.Tracking, error) {
	b, err := json.Marshal(sub)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/tracking", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		metrics.ObserveTrackingRequest(time.Since(start), false)
		c.logger.Error().Err(err).Msg("tracking api call failed")
		return nil, domain.ErrAPIUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ObserveTrackingRequest(time.Since(start), false)
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("body", string(body)).
			Msg("tracking api returned non-200")
		return nil, domain.ErrAPIUnavailable
	}

	var out adapter.Tracking
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		metrics.ObserveTrackingRequest(time.Since(start), false)
		c.logger.Error().Err(err).Msg("tracking api response decode failed")
		return nil, domain.ErrAPIUnavailable
	}
	metrics.ObserveTrackingRequest(time.Since(start), true)

	if out.URL == "" {
		out.URL = fmt.Sprintf("%s/t/%s", c.baseURL, out.ID)
	}
	return &out, nil
}
