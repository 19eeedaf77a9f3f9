package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
	"github.com/custodia-labs/dishsafe/internal/core/ports/driven"
	"github.com/custodia-labs/dishsafe/internal/core/ports/driving"
	"github.com/custodia-labs/dishsafe/internal/logger"
)

// Ensure ReviewSubmissionService implements the interface.
var _ driving.ReviewSubmitter = (*ReviewSubmissionService)(nil)

// ReviewSubmissionService turns a user's submission into a persisted review.
//
// Steps run strictly in sequence, each needing the previous step's ID:
// resolve restaurant, find or create dish (uploading its image first when
// the dish is new), record review. Completed steps are not rolled back when
// a later step fails. Dish creation is an atomic insert-if-absent at the
// store, so concurrent or repeated submissions converge on one dish.
type ReviewSubmissionService struct {
	restaurants driven.RestaurantStore
	dishes      driven.DishStore
	uploader    *ImageUploader
	recorder    *ReviewRecorder
	inspector   driven.CredentialInspector
	timeout     time.Duration
	now         func() time.Time
}

// NewReviewSubmissionService creates a new review submission service.
func NewReviewSubmissionService(
	restaurants driven.RestaurantStore,
	dishes driven.DishStore,
	uploader *ImageUploader,
	recorder *ReviewRecorder,
) *ReviewSubmissionService {
	return &ReviewSubmissionService{
		restaurants: restaurants,
		dishes:      dishes,
		uploader:    uploader,
		recorder:    recorder,
		timeout:     domain.DefaultBackendTimeout,
		now:         time.Now,
	}
}

// SetCredentialInspector sets the inspector used to reject expired tokens
// before any write call is made.
func (s *ReviewSubmissionService) SetCredentialInspector(inspector driven.CredentialInspector) {
	s.inspector = inspector
}

// SetTimeout sets the deadline for each lookup call. The uploader and
// recorder carry their own timeouts.
func (s *ReviewSubmissionService) SetTimeout(d time.Duration) {
	s.timeout = d
}

// Submit runs the submission workflow.
func (s *ReviewSubmissionService) Submit(
	ctx context.Context, cred domain.Credential, sub domain.ReviewSubmission,
) (*driving.SubmissionResult, error) {
	logger.Section("Review Submission")

	if err := validateSubmission(sub); err != nil {
		logger.Debug("Submission rejected: %v", err)
		return nil, &domain.StepError{Step: domain.StepValidate, Err: err}
	}
	if s.restaurants == nil || s.dishes == nil || s.uploader == nil || s.recorder == nil {
		return nil, &domain.StepError{Step: domain.StepValidate, Err: domain.ErrNotImplemented}
	}

	cred, err := s.checkCredential(cred)
	if err != nil {
		return nil, &domain.StepError{Step: domain.StepValidate, Err: err}
	}

	restaurant, err := s.resolveRestaurant(ctx, sub.Restaurant.RestaurantID)
	if err != nil {
		return nil, &domain.StepError{Step: domain.StepResolveRestaurant, Err: err}
	}

	tags := domain.ParseTags(sub.Restrictions)
	result := &driving.SubmissionResult{RestaurantID: restaurant.ID}

	if err := s.resolveDish(ctx, cred, restaurant.ID, sub, tags, result); err != nil {
		return nil, err
	}

	logger.Attrs("step started", "step", domain.StepCreateReview)
	reviewID, err := s.recorder.Record(ctx, cred, domain.ReviewDraft{
		DishID:       result.DishID,
		RestaurantID: restaurant.ID,
		Restrictions: tags,
		Comment:      sub.Comment,
	})
	if err != nil {
		if result.DishCreated {
			logger.Warn("Review failed after creating dish %s; the dish remains", result.DishID)
		}
		return nil, &domain.StepError{Step: domain.StepCreateReview, Err: err}
	}
	result.ReviewID = reviewID

	logger.Info("Review %s recorded (dish=%s created=%t)", reviewID, result.DishID, result.DishCreated)
	return result, nil
}

// checkCredential rejects a missing or expired token before any network call.
func (s *ReviewSubmissionService) checkCredential(cred domain.Credential) (domain.Credential, error) {
	if cred.IsZero() {
		return cred, fmt.Errorf("%w: no credential supplied", domain.ErrNotAuthorized)
	}
	if s.inspector != nil {
		inspected, err := s.inspector.Inspect(cred.Token)
		if err != nil {
			return cred, err
		}
		cred = inspected
	}
	if cred.IsExpired(s.now()) {
		return cred, fmt.Errorf("%w: credential expired at %s", domain.ErrNotAuthorized, cred.ExpiresAt.Format(time.RFC3339))
	}
	return cred, nil
}

func (s *ReviewSubmissionService) resolveRestaurant(ctx context.Context, id string) (*domain.Restaurant, error) {
	logger.Attrs("step started", "step", domain.StepResolveRestaurant, "restaurant_id", id)

	callCtx, cancel := callContext(ctx, s.timeout)
	defer cancel()

	restaurant, err := s.restaurants.Get(callCtx, id)
	if err != nil {
		return nil, fmt.Errorf("get restaurant %s: %w", id, classifyCallErr(err))
	}
	return restaurant, nil
}

// resolveDish finds the dish by name or creates it, uploading the image only
// when the dish does not exist yet.
func (s *ReviewSubmissionService) resolveDish(
	ctx context.Context,
	cred domain.Credential,
	restaurantID string,
	sub domain.ReviewSubmission,
	tags []string,
	result *driving.SubmissionResult,
) error {
	name := strings.TrimSpace(sub.DishName)
	logger.Attrs("step started", "step", domain.StepResolveDish, "dish", name)

	existing, err := s.findDish(ctx, restaurantID, name)
	switch {
	case err == nil:
		logger.Debug("Found existing dish %s", existing.ID)
		result.DishID = existing.ID
		return nil
	case !errors.Is(err, domain.ErrNotFound):
		return &domain.StepError{Step: domain.StepResolveDish, Err: err}
	}

	imageURL, err := s.uploader.Upload(ctx, cred, sub.Image)
	if err != nil {
		return &domain.StepError{Step: domain.StepUploadImage, Err: err}
	}

	callCtx, cancel := callContext(ctx, s.timeout)
	defer cancel()

	resolution, err := s.dishes.Create(callCtx, cred, domain.DishDraft{
		Name:            name,
		ImageURL:        imageURL,
		RestaurantID:    restaurantID,
		RestrictionTags: tags,
	})
	if err != nil {
		return &domain.StepError{
			Step: domain.StepResolveDish,
			Err:  fmt.Errorf("create dish %q: %w", name, classifyCallErr(err)),
		}
	}

	if !resolution.Created && imageURL != "" {
		logger.Warn("Dish %q was created concurrently as %s; uploaded image %s is unused",
			name, resolution.DishID, imageURL)
	}

	result.DishID = resolution.DishID
	result.DishCreated = resolution.Created
	if resolution.Created {
		result.ImageURL = imageURL
	}
	return nil
}

func (s *ReviewSubmissionService) findDish(ctx context.Context, restaurantID, name string) (*domain.Dish, error) {
	callCtx, cancel := callContext(ctx, s.timeout)
	defer cancel()

	dish, err := s.dishes.FindByName(callCtx, restaurantID, name)
	if err != nil {
		return nil, fmt.Errorf("find dish %q: %w", name, classifyCallErr(err))
	}
	return dish, nil
}
