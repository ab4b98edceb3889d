package gateway

import (
	"context"
)

// Repository is the gateway status collaborator. The returned descriptors
// are a point-in-time snapshot independent of any quote amount, so one
// fetch serves every total; the catalog service caches them under a TTL
// rather than blocking quotes on a fresh fetch. Amount limits are checked
// locally against each descriptor's declared range.
type Repository interface {
	GetAvailableGateways(ctx context.Context) ([]*Descriptor, error)
}
