package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
	"github.com/custodia-labs/dishsafe/internal/core/ports/driven"
	"github.com/custodia-labs/dishsafe/internal/core/ports/driving"
	"github.com/custodia-labs/dishsafe/internal/logger"
)

// Ensure SafetyAnnotationService implements the interface.
var _ driving.SafetyAnnotator = (*SafetyAnnotationService)(nil)

// DefaultClassifyConcurrency bounds in-flight classification calls.
const DefaultClassifyConcurrency = 4

// SafetyAnnotationService annotates a dish's reviews with safe dietary tags.
//
// Each review is classified independently and concurrently. A failed call
// leaves that review with no safe categories and never affects the others.
// The service writes nothing and caches nothing.
type SafetyAnnotationService struct {
	classifier  driven.SafetyClassifier
	dishes      driven.DishStore
	reviews     driven.ReviewStore
	limiter     *rate.Limiter
	concurrency int
	timeout     time.Duration
	lookup      time.Duration
}

// NewSafetyAnnotationService creates a new safety annotation service.
// The dishes and reviews parameters are only needed by DishReviews.
func NewSafetyAnnotationService(
	classifier driven.SafetyClassifier,
	dishes driven.DishStore,
	reviews driven.ReviewStore,
) *SafetyAnnotationService {
	return &SafetyAnnotationService{
		classifier:  classifier,
		dishes:      dishes,
		reviews:     reviews,
		concurrency: DefaultClassifyConcurrency,
		timeout:     domain.DefaultClassifierTimeout,
		lookup:      domain.DefaultBackendTimeout,
	}
}

// SetConcurrency bounds the number of classification calls in flight.
// Values below one are ignored.
func (s *SafetyAnnotationService) SetConcurrency(n int) {
	if n > 0 {
		s.concurrency = n
	}
}

// SetRateLimit throttles classification calls to perSecond with the given burst.
// A non-positive rate removes throttling.
func (s *SafetyAnnotationService) SetRateLimit(perSecond float64, burst int) {
	if perSecond <= 0 {
		s.limiter = nil
		return
	}
	if burst < 1 {
		burst = 1
	}
	s.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
}

// SetTimeout sets the deadline for each classification call.
func (s *SafetyAnnotationService) SetTimeout(d time.Duration) {
	s.timeout = d
}

// SetLookupTimeout sets the deadline for fetching the dish and its reviews.
func (s *SafetyAnnotationService) SetLookupTimeout(d time.Duration) {
	s.lookup = d
}

// Annotate classifies every review against tags. The result corresponds
// index-for-index to reviews regardless of completion order.
func (s *SafetyAnnotationService) Annotate(
	ctx context.Context, tags []string, reviews []domain.Review,
) []domain.AnnotatedReview {
	results := make([]domain.AnnotatedReview, len(reviews))
	if len(reviews) == 0 {
		return results
	}

	logger.Debug("Classifying %d reviews against %v (concurrency=%d)", len(reviews), tags, s.concurrency)

	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for i := range reviews {
		results[i] = domain.AnnotatedReview{Review: reviews[i], SafeCategories: []string{}}

		g.Go(func() error {
			safe, err := s.classify(ctx, reviews[i].Comment, tags)
			if err != nil {
				// Per-review failures are absorbed, never propagated.
				logger.Warn("Classification failed for review %q: %v", reviews[i].ID, err)
				return nil
			}
			results[i].SafeCategories = safe
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// classify runs one classification call and filters its answer to tags.
func (s *SafetyAnnotationService) classify(ctx context.Context, comment string, tags []string) (safe []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			safe, err = nil, fmt.Errorf("%w: classifier panicked: %v", domain.ErrClassification, r)
		}
	}()

	if s.classifier == nil {
		return nil, fmt.Errorf("%w: no classifier configured", domain.ErrClassification)
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limit wait: %w", domain.ErrClassification, classifyCallErr(err))
		}
	}

	callCtx, cancel := callContext(ctx, s.timeout)
	defer cancel()

	answer, err := s.classifier.Classify(callCtx, comment, tags)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrClassification, classifyCallErr(err))
	}
	return subsetOf(answer, tags), nil
}

// subsetOf keeps the tags named in answer, ignoring case, in tag order.
func subsetOf(answer, tags []string) []string {
	return domain.SelectTags(answer, tags)
}

// DishReviews loads a dish and its reviews and annotates them with the
// dish's tags, allergy tags first.
func (s *SafetyAnnotationService) DishReviews(ctx context.Context, dishID string) (*driving.DishView, error) {
	logger.Section("Dish Reviews")

	if s.dishes == nil || s.reviews == nil {
		return nil, domain.ErrNotImplemented
	}

	dish, err := s.getDish(ctx, dishID)
	if err != nil {
		return nil, err
	}

	reviews, err := s.listReviews(ctx, dishID)
	if err != nil {
		return nil, err
	}

	return &driving.DishView{
		Dish:    *dish,
		Reviews: s.Annotate(ctx, dish.Tags(), reviews),
	}, nil
}

func (s *SafetyAnnotationService) getDish(ctx context.Context, dishID string) (*domain.Dish, error) {
	callCtx, cancel := callContext(ctx, s.lookup)
	defer cancel()

	dish, err := s.dishes.Get(callCtx, dishID)
	if err != nil {
		return nil, fmt.Errorf("get dish %s: %w", dishID, classifyCallErr(err))
	}
	return dish, nil
}

func (s *SafetyAnnotationService) listReviews(ctx context.Context, dishID string) ([]domain.Review, error) {
	callCtx, cancel := callContext(ctx, s.lookup)
	defer cancel()

	reviews, err := s.reviews.ListByDish(callCtx, dishID)
	if err != nil {
		return nil, fmt.Errorf("list reviews for dish %s: %w", dishID, classifyCallErr(err))
	}
	return reviews, nil
}
