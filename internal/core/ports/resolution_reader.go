package ports

import (
	"context"

	"fieldservice/internal/core/domain/model/kernel"
)

// Resolution is the completion record of an order as far as this core cares:
// whether a cause and a remedy have been written down. Its content lives
// outside the lifecycle core.
type Resolution struct {
	HasCause  bool
	HasRemedy bool
}

// IsComplete reports whether both cause and remedy are recorded. Terminal
// status transitions require a complete resolution.
func (r Resolution) IsComplete() bool {
	return r.HasCause && r.HasRemedy
}

// ResolutionReader looks up the resolution record of an order. A missing
// record reads as an incomplete Resolution, not as an error.
type ResolutionReader interface {
	Get(ctx context.Context, tenantID, orderID kernel.UUID) (Resolution, error)
}
