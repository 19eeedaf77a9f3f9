package backend

import (
	"context"
	"net/http"

	"github.com/custodia-labs/dishsafe/internal/core/ports/driven"
)

var _ driven.SafetyClassifier = (*SafetyClassifier)(nil)

// SafetyClassifier implements driven.SafetyClassifier against the backend's
// /check_safety/ endpoint.
type SafetyClassifier struct {
	client *Client
}

// Classify returns the safe categories the backend reports for comment.
func (s *SafetyClassifier) Classify(ctx context.Context, comment string, tags []string) ([]string, error) {
	payload := struct {
		Comment string   `json:"comment"`
		TagList []string `json:"tag_list"`
	}{
		Comment: comment,
		TagList: nonNil(tags),
	}

	req, err := jsonRequest(http.MethodPost, "/check_safety/", nil, payload)
	if err != nil {
		return nil, err
	}

	var out struct {
		SafeCategories []string `json:"safe_categories"`
	}
	if err := s.client.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return nonNil(out.SafeCategories), nil
}
