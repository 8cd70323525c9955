package shortener

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"telegram-kargo-bot/internal/domain/ports/adapter"
)

var _ adapter.URLShortener = (*Chain)(nil)

// Chain tries public URL shorteners in the configured order and returns the
// first shortened form that looks valid. Every provider failure is swallowed;
// when all of them fail the original URL comes back unchanged.
type Chain struct {
	order  []string
	client *http.Client
	logger *zerolog.Logger
}

func NewChain(order []string, logger *zerolog.Logger) *Chain {
	return &Chain{
		order:  order,
		client: &http.Client{Timeout: 8 * time.Second},
		logger: logger,
	}
}

func (c *Chain) Shorten(ctx context.Context, original string) string {
	if original == "" {
		return original
	}
	for _, name := range c.order {
		var short string
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "cleanuri":
			short = c.cleanURI(ctx, original)
		case "isgd", "is.gd":
			short = c.isGd(ctx, original)
		case "tinyurl":
			short = c.tinyURL(ctx, original)
		default:
			continue
		}
		if short != "" {
			return short
		}
	}
	return original
}

func (c *Chain) cleanURI(ctx context.Context, u string) string {
	form := url.Values{"url": {u}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://cleanuri.com/api/v1/shorten", strings.NewReader(form.Encode()))
	if err != nil {
		return ""
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Msg("cleanuri fail")
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}
	var out struct {
		ResultURL string `json:"result_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return ""
	}
	return validated(out.ResultURL)
}

func (c *Chain) isGd(ctx context.Context, u string) string {
	return c.plainText(ctx, "https://is.gd/create.php?format=simple&url="+url.QueryEscape(u), "is.gd")
}

func (c *Chain) tinyURL(ctx context.Context, u string) string {
	return c.plainText(ctx, "https://tinyurl.com/api-create.php?url="+url.QueryEscape(u), "tinyurl")
}

// plainText covers the providers that answer with the short URL as the body.
func (c *Chain) plainText(ctx context.Context, endpoint, name string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ""
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("provider", name).Msg("shortener fail")
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 2048))
	if err != nil {
		return ""
	}
	return validated(strings.TrimSpace(string(body)))
}

func validated(s string) string {
	if strings.HasPrefix(s, "http") {
		return s
	}
	return ""
}

// Noop keeps the dispatcher code uniform when shortening is disabled.
type Noop struct{}

func (Noop) Shorten(_ context.Context, url string) string { return url }
