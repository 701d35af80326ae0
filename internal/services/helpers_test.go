package services

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/config"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/dto"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/identity"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/models"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/repository"
	"github.com/google/uuid"
)

type testEnv struct {
	store      *repository.MemoryStore
	cache      *recordingCache
	cfg        *config.Config
	auth       *AuthService
	identity   *IdentityService
	listings   *ListingService
	moderation *ModerationService
	favorites  *FavoriteService
	inquiries  *InquiryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 24 * time.Hour,
		AdminEmails:      "root@example.com",
	}
	store := repository.NewMemoryStore()
	cache := newRecordingCache()
	filter := NewContentFilter()
	return &testEnv{
		store:      store,
		cache:      cache,
		cfg:        cfg,
		auth:       NewAuthService(store, store, cfg),
		identity:   NewIdentityService(store, cfg),
		listings:   NewListingService(store, cache, filter),
		moderation: NewModerationService(store, cache),
		favorites:  NewFavoriteService(store),
		inquiries:  NewInquiryService(store, filter),
	}
}

// user registers an account and resolves it into a Caller.
func (e *testEnv) user(t *testing.T, email string, role string) identity.Caller {
	t.Helper()
	ctx := context.Background()
	resp, err := e.auth.Register(ctx, &dto.RegisterRequest{
		FullName: "Test " + role,
		Email:    email,
		Password: "password123",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	caller, err := e.identity.ResolveCaller(ctx, resp.User.ID)
	if err != nil {
		t.Fatalf("resolve %s: %v", email, err)
	}
	return caller
}

func (e *testEnv) seller(t *testing.T) identity.Caller {
	return e.user(t, uuid.NewString()+"@seller.test", "entrepreneur")
}

func (e *testEnv) investor(t *testing.T) identity.Caller {
	return e.user(t, uuid.NewString()+"@investor.test", "investor")
}

func (e *testEnv) admin(t *testing.T) identity.Caller {
	t.Helper()
	c := e.user(t, uuid.NewString()+"@staff.test", "investor")
	e.store.SetUserRole(c.ID, models.RoleAdmin)
	caller, err := e.identity.ResolveCaller(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("resolve admin: %v", err)
	}
	return caller
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func validListing(title string) *dto.ListingRequest {
	return &dto.ListingRequest{
		Title:       strPtr(title),
		Type:        strPtr("business_sale"),
		Category:    strPtr("agriculture"),
		Description: strPtr("Established coffee plantation with processing equipment"),
		AskingPrice: floatPtr(250000),
		Location:    strPtr("Kigali"),
	}
}

func (e *testEnv) createListing(t *testing.T, seller identity.Caller, req *dto.ListingRequest) *models.Listing {
	t.Helper()
	l, err := e.listings.Create(context.Background(), seller, req)
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}
	return l
}

func (e *testEnv) approve(t *testing.T, admin identity.Caller, id uuid.UUID) *models.Listing {
	t.Helper()
	l, err := e.moderation.SetListingStatus(context.Background(), admin, id, &dto.SetStatusRequest{Status: "approved"})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	return l
}

func assertKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != kind {
		t.Fatalf("expected %s error, got %v", kind, err)
	}
}

// recordingCache is an in-memory ListingCache that counts invalidations.
type recordingCache struct {
	mu            sync.Mutex
	pages         map[string]*models.ListingPage
	generation    int
	hits          int
	invalidations int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{pages: make(map[string]*models.ListingPage)}
}

func (c *recordingCache) key(q models.ListingQuery) string {
	p := q.CacheParams()
	return strconv.Itoa(c.generation) + "|" + p["view"] + "|" + p["status"] + "|" + p["category"] + "|" + p["sort"] + "|" + p["limit"] + "|" + p["offset"] + "|" + p["search"]
}

func (c *recordingCache) GetPage(_ context.Context, q models.ListingQuery) (*models.ListingPage, string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.key(q)
	page, ok := c.pages[key]
	if ok {
		c.hits++
	}
	return page, key, ok
}

func (c *recordingCache) SetPage(_ context.Context, token string, page *models.ListingPage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages[token] = page
}

func (c *recordingCache) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.invalidations++
}

// listHookStore runs afterList once, between a listing read and the moment
// the service caches what it read.
type listHookStore struct {
	*repository.MemoryStore
	afterList func()
}

func (s *listHookStore) ListListings(ctx context.Context, q models.ListingQuery) ([]models.Listing, int64, error) {
	listings, total, err := s.MemoryStore.ListListings(ctx, q)
	if hook := s.afterList; hook != nil {
		s.afterList = nil
		hook()
	}
	return listings, total, err
}
