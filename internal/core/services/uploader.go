package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
	"github.com/custodia-labs/dishsafe/internal/core/ports/driven"
	"github.com/custodia-labs/dishsafe/internal/logger"
)

// ImageUploader turns raw image bytes into a durable URL.
type ImageUploader struct {
	images  driven.ImageStore
	timeout time.Duration
}

// NewImageUploader creates a new image uploader.
// The images parameter is optional; without it only image-less submissions succeed.
func NewImageUploader(images driven.ImageStore) *ImageUploader {
	return &ImageUploader{
		images:  images,
		timeout: domain.DefaultBackendTimeout,
	}
}

// SetTimeout sets the deadline for each upload call.
func (u *ImageUploader) SetTimeout(d time.Duration) {
	u.timeout = d
}

// Upload stores data and returns its URL, or "" when data is empty.
// Every failure wraps domain.ErrUploadFailed.
func (u *ImageUploader) Upload(ctx context.Context, cred domain.Credential, data []byte) (string, error) {
	if len(data) == 0 {
		logger.Debug("No image supplied, skipping upload")
		return "", nil
	}
	if u.images == nil {
		return "", fmt.Errorf("%w: no image store configured", domain.ErrUploadFailed)
	}

	callCtx, cancel := callContext(ctx, u.timeout)
	defer cancel()

	logger.Debug("Uploading image (%d bytes)", len(data))
	url, err := u.images.Upload(callCtx, cred, data)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrUploadFailed, classifyCallErr(err))
	}
	if url == "" {
		return "", fmt.Errorf("%w: store returned an empty URL", domain.ErrUploadFailed)
	}

	logger.Debug("Image uploaded: %s", url)
	return url, nil
}
