package adapter

import "context"

// URLShortener shortens a tracking URL on a best-effort basis. Implementations
// must return the original URL unchanged when no provider succeeds; shortening
// failure is never an error the caller should see.
type URLShortener interface {
	Shorten(ctx context.Context, url string) string
}
