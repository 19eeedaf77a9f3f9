package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/dishsafe/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/dishsafe/internal/core/domain"
	"github.com/custodia-labs/dishsafe/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockRestaurantStore wraps a memory store, counting calls and injecting errors.
type mockRestaurantStore struct {
	*memory.RestaurantStore
	gets   atomic.Int32
	getErr error
	block  bool
}

func (m *mockRestaurantStore) Get(ctx context.Context, id string) (*domain.Restaurant, error) {
	m.gets.Add(1)
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.RestaurantStore.Get(ctx, id)
}

// mockDishStore wraps a memory store, counting calls and injecting errors.
type mockDishStore struct {
	*memory.DishStore
	finds     atomic.Int32
	creates   atomic.Int32
	findErr   error
	createErr error
}

func (m *mockDishStore) FindByName(ctx context.Context, restaurantID, name string) (*domain.Dish, error) {
	m.finds.Add(1)
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.DishStore.FindByName(ctx, restaurantID, name)
}

func (m *mockDishStore) Create(
	ctx context.Context, cred domain.Credential, draft domain.DishDraft,
) (domain.DishResolution, error) {
	m.creates.Add(1)
	if m.createErr != nil {
		return domain.DishResolution{}, m.createErr
	}
	return m.DishStore.Create(ctx, cred, draft)
}

// mockReviewStore wraps a memory store, counting calls and injecting errors.
type mockReviewStore struct {
	*memory.ReviewStore
	creates   atomic.Int32
	createErr error
	listErr   error
}

func (m *mockReviewStore) Create(ctx context.Context, cred domain.Credential, draft domain.ReviewDraft) (string, error) {
	m.creates.Add(1)
	if m.createErr != nil {
		return "", m.createErr
	}
	return m.ReviewStore.Create(ctx, cred, draft)
}

func (m *mockReviewStore) ListByDish(ctx context.Context, dishID string) ([]domain.Review, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.ReviewStore.ListByDish(ctx, dishID)
}

// mockImageStore wraps a memory store, counting calls and injecting errors.
type mockImageStore struct {
	*memory.ImageStore
	uploads   atomic.Int32
	uploadErr error
	emptyURL  bool
}

func (m *mockImageStore) Upload(ctx context.Context, cred domain.Credential, data []byte) (string, error) {
	m.uploads.Add(1)
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	if m.emptyURL {
		return "", nil
	}
	return m.ImageStore.Upload(ctx, cred, data)
}

// mockInspector implements driven.CredentialInspector for testing.
type mockInspector struct {
	cred domain.Credential
	err  error
}

func (m *mockInspector) Inspect(token string) (domain.Credential, error) {
	if m.err != nil {
		return domain.Credential{}, m.err
	}
	cred := m.cred
	cred.Token = token
	return cred, nil
}

// mockClassifier implements driven.SafetyClassifier for testing.
// Answers and errors are keyed by comment.
type mockClassifier struct {
	answers map[string][]string
	errs    map[string]error
	panics  map[string]bool
	delays  map[string]time.Duration

	mu       sync.Mutex
	inFlight int
	peak     int
	calls    int
}

func (m *mockClassifier) Classify(ctx context.Context, comment string, _ []string) ([]string, error) {
	m.mu.Lock()
	m.calls++
	m.inFlight++
	if m.inFlight > m.peak {
		m.peak = m.inFlight
	}
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}()

	if d := m.delays[comment]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.panics[comment] {
		panic("classifier exploded")
	}
	if err := m.errs[comment]; err != nil {
		return nil, err
	}
	return m.answers[comment], nil
}

func (m *mockClassifier) peakInFlight() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.peak
}

// mockAccountGateway implements driven.AccountGateway for testing.
type mockAccountGateway struct {
	token     string
	signUpErr error
	loginErr  error
	signUps   []domain.Registration
	logins    []domain.Login
}

func (m *mockAccountGateway) SignUp(_ context.Context, reg domain.Registration) error {
	m.signUps = append(m.signUps, reg)
	return m.signUpErr
}

func (m *mockAccountGateway) Login(_ context.Context, login domain.Login) (string, error) {
	m.logins = append(m.logins, login)
	if m.loginErr != nil {
		return "", m.loginErr
	}
	return m.token, nil
}

var (
	_ driven.AccountGateway      = (*mockAccountGateway)(nil)
	_ driven.RestaurantStore     = (*mockRestaurantStore)(nil)
	_ driven.DishStore           = (*mockDishStore)(nil)
	_ driven.ReviewStore         = (*mockReviewStore)(nil)
	_ driven.ImageStore          = (*mockImageStore)(nil)
	_ driven.CredentialInspector = (*mockInspector)(nil)
	_ driven.SafetyClassifier    = (*mockClassifier)(nil)
)
