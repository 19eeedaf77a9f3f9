package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/dishsafe/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/dishsafe/internal/core/domain"
	"github.com/custodia-labs/dishsafe/internal/core/ports/driven"
	"github.com/custodia-labs/dishsafe/internal/dishname"
)

// ImageURLPrefix prefixes the URLs handed out by the image store.
const ImageURLPrefix = "local://images/"

// Store is a unified SQLite-based storage that provides access to
// all store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.dishsafe/data/dishsafe.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".dishsafe", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "dishsafe.db")

	// Pragmas apply to every pooled connection.
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// RestaurantStore returns the restaurant store, which also answers place searches.
func (s *Store) RestaurantStore() *RestaurantStore {
	return &RestaurantStore{store: s}
}

// DishStore returns a DishStore interface.
func (s *Store) DishStore() driven.DishStore {
	return &dishStore{store: s}
}

// ReviewStore returns a ReviewStore interface.
func (s *Store) ReviewStore() driven.ReviewStore {
	return &reviewStore{store: s}
}

// ImageStore returns the image store.
func (s *Store) ImageStore() *ImageStore {
	return &ImageStore{store: s}
}

func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Restaurant Store ====================

// RestaurantStore implements driven.RestaurantStore and driven.PlaceSearch.
type RestaurantStore struct {
	store *Store
}

var (
	_ driven.RestaurantStore = (*RestaurantStore)(nil)
	_ driven.PlaceSearch     = (*RestaurantStore)(nil)
)

// Get retrieves a restaurant with its menu.
func (s *RestaurantStore) Get(ctx context.Context, id string) (*domain.Restaurant, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, place_id, address, phone, rating, price_level, created_at
		FROM restaurants WHERE id = ?
	`, id)

	restaurant, err := scanRestaurant(row)
	if err != nil {
		return nil, err
	}

	menu, err := s.menu(ctx, id)
	if err != nil {
		return nil, err
	}
	restaurant.Menu = menu
	return restaurant, nil
}

// Register returns the restaurant for the candidate's place, creating it if absent.
func (s *RestaurantStore) Register(
	ctx context.Context, _ domain.Credential, candidate domain.PlaceCandidate,
) (*domain.Restaurant, error) {
	if candidate.Place.PlaceID == "" {
		return nil, domain.NewValidationError("place id", "must not be empty")
	}

	var rating sql.NullFloat64
	if candidate.Place.Rating != nil {
		rating = sql.NullFloat64{Float64: *candidate.Place.Rating, Valid: true}
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO restaurants (id, name, place_id, address, phone, rating, price_level, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(place_id) DO NOTHING
	`, uuid.New().String(), candidate.Name, candidate.Place.PlaceID,
		nullString(candidate.Place.Address), nullString(candidate.Place.Phone),
		rating, nullString(candidate.Place.PriceLevel), time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("registering restaurant: %w", err)
	}

	var id string
	if err := s.store.db.QueryRowContext(ctx,
		"SELECT id FROM restaurants WHERE place_id = ?", candidate.Place.PlaceID,
	).Scan(&id); err != nil {
		return nil, fmt.Errorf("reading registered restaurant: %w", err)
	}
	return s.Get(ctx, id)
}

// SearchPlaces matches registered restaurants whose name contains name and
// whose address contains town, ignoring case.
func (s *RestaurantStore) SearchPlaces(ctx context.Context, town, name string) ([]domain.PlaceCandidate, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name, place_id, address, phone, rating, price_level, created_at
		FROM restaurants ORDER BY created_at, rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("querying restaurants: %w", err)
	}
	defer rows.Close()

	wantName, wantTown := dishname.Key(name), dishname.Key(town)
	results := []domain.PlaceCandidate{}
	for rows.Next() {
		r, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		if !strings.Contains(dishname.Key(r.Name), wantName) ||
			!strings.Contains(dishname.Key(r.Place.Address), wantTown) {
			continue
		}
		results = append(results, domain.PlaceCandidate{RestaurantID: r.ID, Name: r.Name, Place: r.Place})
		if len(results) == domain.MaxPlaceResults {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating restaurants: %w", err)
	}
	return results, nil
}

func (s *RestaurantStore) menu(ctx context.Context, restaurantID string) ([]domain.DishRef, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name FROM dishes WHERE restaurant_id = ? ORDER BY created_at, rowid
	`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("querying menu: %w", err)
	}
	defer rows.Close()

	menu := []domain.DishRef{}
	for rows.Next() {
		var ref domain.DishRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, fmt.Errorf("scanning menu item: %w", err)
		}
		menu = append(menu, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating menu: %w", err)
	}
	return menu, nil
}

// ==================== Dish Store ====================

// dishStore implements driven.DishStore.
type dishStore struct {
	store *Store
}

var _ driven.DishStore = (*dishStore)(nil)

// Get retrieves a dish by ID.
func (s *dishStore) Get(ctx context.Context, id string) (*domain.Dish, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, restaurant_id, name, image_url, allergy_tags, restriction_tags, created_at, updated_at
		FROM dishes WHERE id = ?
	`, id)
	return scanDish(row)
}

// FindByName looks up a dish by normalised name within a restaurant.
func (s *dishStore) FindByName(ctx context.Context, restaurantID, name string) (*domain.Dish, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, restaurant_id, name, image_url, allergy_tags, restriction_tags, created_at, updated_at
		FROM dishes WHERE restaurant_id = ? AND name_key = ?
	`, restaurantID, dishname.Key(name))
	return scanDish(row)
}

// Create inserts the dish unless its normalised name is already taken.
// The unique index makes the check and insert a single atomic statement.
func (s *dishStore) Create(
	ctx context.Context, _ domain.Credential, draft domain.DishDraft,
) (domain.DishResolution, error) {
	if dishname.IsBlank(draft.Name) {
		return domain.DishResolution{}, domain.NewValidationError("dish name", "must not be blank")
	}

	var exists int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT 1 FROM restaurants WHERE id = ?", draft.RestaurantID,
	).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DishResolution{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.DishResolution{}, fmt.Errorf("checking restaurant: %w", err)
	}

	allergyJSON, err := json.Marshal(nonNil(draft.AllergyTags))
	if err != nil {
		return domain.DishResolution{}, fmt.Errorf("marshalling allergy tags: %w", err)
	}
	restrictionJSON, err := json.Marshal(nonNil(draft.RestrictionTags))
	if err != nil {
		return domain.DishResolution{}, fmt.Errorf("marshalling restriction tags: %w", err)
	}

	key := dishname.Key(draft.Name)
	now := time.Now().UTC()
	res, err := s.store.db.ExecContext(ctx, `
		INSERT INTO dishes
			(id, restaurant_id, name, name_key, image_url, allergy_tags, restriction_tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(restaurant_id, name_key) DO NOTHING
	`, uuid.New().String(), draft.RestaurantID, draft.Name, key, nullString(draft.ImageURL),
		string(allergyJSON), string(restrictionJSON), now, now)
	if err != nil {
		return domain.DishResolution{}, fmt.Errorf("inserting dish: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return domain.DishResolution{}, fmt.Errorf("checking insert: %w", err)
	}

	var id string
	if err := s.store.db.QueryRowContext(ctx,
		"SELECT id FROM dishes WHERE restaurant_id = ? AND name_key = ?", draft.RestaurantID, key,
	).Scan(&id); err != nil {
		return domain.DishResolution{}, fmt.Errorf("reading dish: %w", err)
	}

	return domain.DishResolution{DishID: id, Created: affected == 1}, nil
}

// ==================== Review Store ====================

// reviewStore implements driven.ReviewStore.
type reviewStore struct {
	store *Store
}

var _ driven.ReviewStore = (*reviewStore)(nil)

// Create records a new review.
func (s *reviewStore) Create(ctx context.Context, cred domain.Credential, draft domain.ReviewDraft) (string, error) {
	var restaurantID string
	err := s.store.db.QueryRowContext(ctx,
		"SELECT restaurant_id FROM dishes WHERE id = ?", draft.DishID,
	).Scan(&restaurantID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("checking dish: %w", err)
	}
	if restaurantID != draft.RestaurantID {
		return "", domain.NewValidationError("restaurant", "does not match the dish's restaurant")
	}

	allergyJSON, err := json.Marshal(nonNil(draft.Allergies))
	if err != nil {
		return "", fmt.Errorf("marshalling allergies: %w", err)
	}
	restrictionJSON, err := json.Marshal(nonNil(draft.Restrictions))
	if err != nil {
		return "", fmt.Errorf("marshalling restrictions: %w", err)
	}

	id := uuid.New().String()
	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO reviews (id, user_id, dish_id, restaurant_id, allergies, restrictions, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, nullString(cred.Subject), draft.DishID, draft.RestaurantID,
		string(allergyJSON), string(restrictionJSON), draft.Comment, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("inserting review: %w", err)
	}
	return id, nil
}

// ListByDish returns the reviews for a dish, oldest first.
func (s *reviewStore) ListByDish(ctx context.Context, dishID string) ([]domain.Review, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, user_id, dish_id, restaurant_id, allergies, restrictions, comment, created_at
		FROM reviews WHERE dish_id = ? ORDER BY created_at, rowid
	`, dishID)
	if err != nil {
		return nil, fmt.Errorf("querying reviews: %w", err)
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		var r domain.Review
		var userID sql.NullString
		var allergiesJSON, restrictionsJSON string
		if err := rows.Scan(&r.ID, &userID, &r.DishID, &r.RestaurantID,
			&allergiesJSON, &restrictionsJSON, &r.Comment, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning review: %w", err)
		}
		r.UserID = userID.String
		if r.Allergies, err = unmarshalTags(allergiesJSON); err != nil {
			return nil, err
		}
		if r.Restrictions, err = unmarshalTags(restrictionsJSON); err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reviews: %w", err)
	}
	return reviews, nil
}

// ==================== Image Store ====================

// ImageStore implements driven.ImageStore with images held as blobs.
type ImageStore struct {
	store *Store
}

var _ driven.ImageStore = (*ImageStore)(nil)

// Upload stores the image and returns its local URL.
func (s *ImageStore) Upload(ctx context.Context, _ domain.Credential, data []byte) (string, error) {
	if len(data) == 0 {
		return "", domain.NewValidationError("image", "must not be empty")
	}
	id := uuid.New().String()
	_, err := s.store.db.ExecContext(ctx,
		"INSERT INTO images (id, data, created_at) VALUES (?, ?, ?)", id, data, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("inserting image: %w", err)
	}
	return ImageURLPrefix + id, nil
}

// Get returns the bytes stored under url.
func (s *ImageStore) Get(ctx context.Context, url string) ([]byte, error) {
	id, ok := strings.CutPrefix(url, ImageURLPrefix)
	if !ok {
		return nil, domain.ErrNotFound
	}
	var data []byte
	err := s.store.db.QueryRowContext(ctx, "SELECT data FROM images WHERE id = ?", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	return data, nil
}

// ==================== Helpers ====================

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRestaurant(row rowScanner) (*domain.Restaurant, error) {
	var r domain.Restaurant
	var address, phone, priceLevel sql.NullString
	var rating sql.NullFloat64
	if err := row.Scan(&r.ID, &r.Name, &r.Place.PlaceID, &address, &phone,
		&rating, &priceLevel, &r.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning restaurant: %w", err)
	}
	r.Place.Address = address.String
	r.Place.Phone = phone.String
	r.Place.PriceLevel = priceLevel.String
	if rating.Valid {
		v := rating.Float64
		r.Place.Rating = &v
	}
	return &r, nil
}

func scanDish(row rowScanner) (*domain.Dish, error) {
	var d domain.Dish
	var imageURL sql.NullString
	var allergyJSON, restrictionJSON string
	if err := row.Scan(&d.ID, &d.RestaurantID, &d.Name, &imageURL,
		&allergyJSON, &restrictionJSON, &d.CreatedAt, &d.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning dish: %w", err)
	}
	d.ImageURL = imageURL.String

	var err error
	if d.AllergyTags, err = unmarshalTags(allergyJSON); err != nil {
		return nil, err
	}
	if d.RestrictionTags, err = unmarshalTags(restrictionJSON); err != nil {
		return nil, err
	}
	return &d, nil
}

func unmarshalTags(raw string) ([]string, error) {
	tags := []string{}
	if raw == "" {
		return tags, nil
	}
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, fmt.Errorf("unmarshalling tags: %w", err)
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

// nullString converts an empty string to sql.NullString with Valid=false.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
