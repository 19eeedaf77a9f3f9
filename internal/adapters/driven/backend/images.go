package backend

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
	"github.com/custodia-labs/dishsafe/internal/core/ports/driven"
)

var _ driven.ImageStore = (*ImageStore)(nil)

// ImageStore implements driven.ImageStore against the backend's /images/ endpoint.
type ImageStore struct {
	client *Client
}

// Upload posts the image as multipart form data and returns the stored URL.
func (s *ImageStore) Upload(ctx context.Context, cred domain.Credential, data []byte) (string, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", "dish"+imageExtension(data))
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("write form file: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("close form: %w", err)
	}

	var out struct {
		URL string `json:"url"`
	}
	err = s.client.do(ctx, request{
		method:      http.MethodPost,
		path:        "/images/",
		cred:        &cred,
		body:        &body,
		contentType: form.FormDataContentType(),
	}, &out)
	if err != nil {
		return "", err
	}
	return out.URL, nil
}

// imageExtension guesses a file extension from the content.
func imageExtension(data []byte) string {
	switch http.DetectContentType(data) {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
