package driven

import (
	"context"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
)

// ImageStore stores uploaded dish images.
type ImageStore interface {
	// Upload stores the image bytes and returns a durable URL.
	Upload(ctx context.Context, cred domain.Credential, data []byte) (string, error)
}
