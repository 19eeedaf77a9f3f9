package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a referenced restaurant, dish or review does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrValidation indicates required input is missing or empty.
	ErrValidation = errors.New("validation failed")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUploadFailed indicates the image upload step failed.
	ErrUploadFailed = errors.New("image upload failed")

	// ErrNotAuthorized indicates the credential is missing, expired or rejected.
	ErrNotAuthorized = errors.New("not authorized")

	// Transport Errors.

	// ErrNetwork indicates a transport-level failure talking to an external service.
	ErrNetwork = errors.New("network failure")

	// ErrTimeout indicates an external call did not complete within its deadline.
	ErrTimeout = errors.New("timeout")

	// ErrClassification indicates a single review's safety classification failed.
	// It is absorbed by the aggregator and never returned to callers.
	ErrClassification = errors.New("classification failed")
)

// ValidationError describes which input field failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Unwrap makes errors.Is(err, ErrValidation) hold.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// SubmissionStep names a step of the review submission workflow.
type SubmissionStep string

// Submission steps, in execution order.
const (
	StepValidate          SubmissionStep = "validate"
	StepResolveRestaurant SubmissionStep = "resolve_restaurant"
	StepResolveDish       SubmissionStep = "resolve_dish"
	StepUploadImage       SubmissionStep = "upload_image"
	StepCreateReview      SubmissionStep = "create_review"
)

// Description returns a human-readable description of the step.
func (s SubmissionStep) Description() string {
	switch s {
	case StepValidate:
		return "checking the submission"
	case StepResolveRestaurant:
		return "looking up the restaurant"
	case StepResolveDish:
		return "finding or creating the dish"
	case StepUploadImage:
		return "uploading the dish image"
	case StepCreateReview:
		return "saving the review"
	default:
		return string(s)
	}
}

// StepError is the terminal error of a failed submission.
// Steps completed before Step remain committed.
type StepError struct {
	Step SubmissionStep
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// UserMessage renders a single actionable message for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	prefix := "Request failed"
	var stepErr *StepError
	if errors.As(err, &stepErr) {
		prefix = "Failed while " + stepErr.Step.Description()
	}

	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		return fmt.Sprintf("%s: %s %s.", prefix, validationErr.Field, validationErr.Reason)
	case errors.Is(err, ErrValidation):
		return prefix + ": the request was rejected as invalid."
	case errors.Is(err, ErrNotFound):
		return prefix + ": it no longer exists. Search again and retry."
	case errors.Is(err, ErrNotAuthorized):
		return prefix + ": you are not signed in or your session expired. Log in and retry."
	case errors.Is(err, ErrUploadFailed):
		return prefix + ": the image could not be uploaded. Try a smaller image or submit without one."
	case errors.Is(err, ErrTimeout):
		return prefix + ": the service took too long to respond. Try again."
	case errors.Is(err, ErrNetwork):
		return prefix + ": the service could not be reached. Check your connection."
	default:
		return fmt.Sprintf("%s: %v", prefix, err)
	}
}
