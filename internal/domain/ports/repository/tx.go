package repository

import "context"

// Submitter runs the decrement + log-append pair as one logical unit.
// The store implementation wraps both writes in a single transaction so a
// log row never exists without its matching quota decrement.
type Submitter interface {
	// Submit decrements the group's quota and appends the delivery-log row
	// atomically, then returns the remaining quota. Returns
	// domain.ErrQuotaExhausted (and writes nothing) when the quota was
	// already depleted.
	Submit(ctx context.Context, chatID int64, chatTitle, itemID, company string) (remaining int, err error)
}
