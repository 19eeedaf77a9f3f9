package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrAlreadyExists", ErrAlreadyExists},
		{"ErrValidation", ErrValidation},
		{"ErrNotImplemented", ErrNotImplemented},
		{"ErrUploadFailed", ErrUploadFailed},
		{"ErrNotAuthorized", ErrNotAuthorized},
		{"ErrNetwork", ErrNetwork},
		{"ErrTimeout", ErrTimeout},
		{"ErrClassification", ErrClassification},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrNotFound(t *testing.T) {
	assert.Equal(t, "not found", ErrNotFound.Error())
	assert.True(t, errors.Is(ErrNotFound, ErrNotFound))
	assert.False(t, errors.Is(ErrNotFound, ErrAlreadyExists))
}

func TestValidationError_UnwrapsToErrValidation(t *testing.T) {
	err := NewValidationError("comment", "must not be empty")

	assert.Equal(t, "comment: must not be empty", err.Error())
	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestStepError_UnwrapsToCause(t *testing.T) {
	err := &StepError{Step: StepResolveRestaurant, Err: fmt.Errorf("get restaurant r1: %w", ErrNotFound)}

	assert.Equal(t, "resolve_restaurant: get restaurant r1: not found", err.Error())
	assert.ErrorIs(t, err, ErrNotFound)

	var stepErr *StepError
	require.ErrorAs(t, fmt.Errorf("submit: %w", err), &stepErr)
	assert.Equal(t, StepResolveRestaurant, stepErr.Step)
}

func TestSubmissionStep_Description(t *testing.T) {
	tests := []struct {
		step     SubmissionStep
		expected string
	}{
		{StepValidate, "checking the submission"},
		{StepResolveRestaurant, "looking up the restaurant"},
		{StepResolveDish, "finding or creating the dish"},
		{StepUploadImage, "uploading the dish image"},
		{StepCreateReview, "saving the review"},
		{SubmissionStep("other"), "other"},
	}

	for _, tt := range tests {
		t.Run(string(tt.step), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.step.Description())
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{"nil", nil, ""},
		{
			"validation",
			&StepError{Step: StepValidate, Err: NewValidationError("comment", "must not be empty")},
			"Failed while checking the submission: comment must not be empty.",
		},
		{
			"not found",
			&StepError{Step: StepResolveRestaurant, Err: ErrNotFound},
			"looking up the restaurant: it no longer exists",
		},
		{
			"not authorized",
			&StepError{Step: StepCreateReview, Err: ErrNotAuthorized},
			"Log in and retry",
		},
		{
			"upload",
			&StepError{Step: StepUploadImage, Err: fmt.Errorf("%w: status 500", ErrUploadFailed)},
			"image could not be uploaded",
		},
		{"timeout", ErrTimeout, "Request failed: the service took too long"},
		{"network", ErrNetwork, "could not be reached"},
		{"other", errors.New("boom"), "Request failed: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := UserMessage(tt.err)
			if tt.contains == "" {
				assert.Empty(t, msg)
				return
			}
			assert.Contains(t, msg, tt.contains)
		})
	}
}
