package adapter

import "context"

// Submission is the validated 4-field payload sent to the tracking API.
// ETA carries the normalized date when parsing succeeded, otherwise the
// operator's original text.
type Submission struct {
	FullName string `json:"full_name"`
	Address  string `json:"address"`
	ETA      string `json:"eta"`
	Company  string `json:"company"`
	Carrier  string `json:"carrier"`
}

// Tracking is what a successful create call yields. URL is always populated;
// the gateway fills in a locally built one when the API omits it.
type Tracking struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// TrackingGateway is the port for the remote tracking API. Any transport
// error, timeout, or non-200 status surfaces as domain.ErrAPIUnavailable.
type TrackingGateway interface {
	Create(ctx context.Context, sub Submission) (*Tracking, error)
}
