package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MemoryStore is an in-memory implementation of every store port. A single
// mutex serialises writers, which gives the same per-listing guarantees as
// the row locks taken by GormStore.
type MemoryStore struct {
	mu        sync.Mutex
	users     map[uuid.UUID]*models.User
	tokens    map[string]*models.RefreshToken
	listings  map[uuid.UUID]*models.Listing
	favorites map[uuid.UUID]*models.Favorite
	inquiries map[uuid.UUID]*models.Inquiry
	reviews   []*models.ListingReview
	now       func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[uuid.UUID]*models.User),
		tokens:    make(map[string]*models.RefreshToken),
		listings:  make(map[uuid.UUID]*models.Listing),
		favorites: make(map[uuid.UUID]*models.Favorite),
		inquiries: make(map[uuid.UUID]*models.Inquiry),
		now:       time.Now,
	}
}

// SetClock overrides the clock used for timestamps.
func (m *MemoryStore) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func cloneListing(l *models.Listing) *models.Listing {
	c := *l
	c.Images = append(datatypes.JSONSlice[string](nil), l.Images...)
	c.Documents = append(datatypes.JSONSlice[models.ListingDocument](nil), l.Documents...)
	c.Highlights = append(datatypes.JSONSlice[string](nil), l.Highlights...)
	return &c
}

// --- users ---

func (m *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	for _, u := range m.users {
		if u.Email == user.Email {
			return apperr.Conflict("user already exists")
		}
	}
	if user.ID == uuid.Nil {
		user.ID = models.NewID()
	}
	if user.Role == "" {
		user.Role = models.RoleInvestor
	}
	now := m.now()
	user.CreatedAt, user.UpdatedAt = now, now
	c := *user
	m.users[user.ID] = &c
	return nil
}

func (m *MemoryStore) GetUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	c := *u
	return &c, nil
}

func (m *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range m.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (m *MemoryStore) UpdateUserName(_ context.Context, id uuid.UUID, fullName string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	u.FullName = fullName
	u.UpdatedAt = m.now()
	c := *u
	return &c, nil
}

// SetUserRole changes a role directly, the way an operator would in the database.
func (m *MemoryStore) SetUserRole(id uuid.UUID, role models.Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		u.Role = role
	}
}

// --- refresh tokens ---

func (m *MemoryStore) CreateRefreshToken(_ context.Context, token *models.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.tokens[token.TokenHash]; exists {
		return apperr.Conflict("refresh token already exists")
	}
	if token.ID == uuid.Nil {
		token.ID = models.NewID()
	}
	token.CreatedAt = m.now()
	c := *token
	m.tokens[token.TokenHash] = &c
	return nil
}

func (m *MemoryStore) ConsumeRefreshToken(_ context.Context, tokenHash string, now time.Time) (*models.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[tokenHash]
	if !ok || t.Revoked || !t.ExpiresAt.After(now) {
		return nil, apperr.NotFound("refresh token not found")
	}
	t.Revoked = true
	c := *t
	return &c, nil
}

func (m *MemoryStore) RevokeRefreshToken(_ context.Context, tokenHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tokens[tokenHash]; ok {
		t.Revoked = true
	}
	return nil
}

// --- listings ---

func (m *MemoryStore) CreateListing(_ context.Context, listing *models.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if listing.ID == uuid.Nil {
		listing.ID = models.NewID()
	}
	if _, exists := m.listings[listing.ID]; exists {
		return apperr.Conflict("listing already exists")
	}
	if listing.Status == "" {
		listing.Status = models.StatusPendingReview
	}
	if listing.VerificationStatus == "" {
		listing.VerificationStatus = models.VerificationUnverified
	}
	now := m.now()
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = now
	}
	listing.UpdatedAt = now
	m.listings[listing.ID] = cloneListing(listing)
	return nil
}

func (m *MemoryStore) GetListing(_ context.Context, id uuid.UUID) (*models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok {
		return nil, apperr.NotFound("listing not found")
	}
	return cloneListing(l), nil
}

func (m *MemoryStore) ViewListing(_ context.Context, id, viewerID uuid.UUID, asAdmin bool) (*models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok || !(asAdmin || l.Status == models.StatusApproved || l.OwnedBy(viewerID)) {
		return nil, apperr.NotFound("listing not found")
	}
	l.ViewsCount++
	return cloneListing(l), nil
}

func (m *MemoryStore) ListListings(_ context.Context, q models.ListingQuery) ([]models.Listing, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	matched := make([]*models.Listing, 0)
	for _, l := range m.listings {
		if q.Matches(l) {
			matched = append(matched, l)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return q.Less(matched[i], matched[j]) })

	total := int64(len(matched))
	start := q.Offset
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if q.Limit > 0 && start+q.Limit < end {
		end = start + q.Limit
	}

	out := make([]models.Listing, 0, end-start)
	for _, l := range matched[start:end] {
		out = append(out, *cloneListing(l))
	}
	return out, total, nil
}

func (m *MemoryStore) UpdateListing(_ context.Context, id uuid.UUID, fn func(*models.Listing) (models.ListingPatch, error)) (*models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok {
		return nil, apperr.NotFound("listing not found")
	}
	patch, err := fn(cloneListing(l))
	if err != nil {
		return nil, err
	}
	if !patch.Empty() {
		patch.Apply(l)
		l.UpdatedAt = m.now()
	}
	return cloneListing(l), nil
}

func (m *MemoryStore) TransitionListing(_ context.Context, id uuid.UUID, fn func(*models.Listing) (models.StatusChange, error)) (*models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok {
		return nil, apperr.NotFound("listing not found")
	}
	change, err := fn(cloneListing(l))
	if err != nil {
		return nil, err
	}
	l.Status = change.Status
	if change.Verification != "" {
		l.VerificationStatus = change.Verification
	}
	now := m.now()
	l.UpdatedAt = now
	if change.Review != nil {
		r := *change.Review
		r.ListingID = l.ID
		if r.ID == uuid.Nil {
			r.ID = models.NewID()
		}
		r.CreatedAt = now
		*change.Review = r
		m.reviews = append(m.reviews, &r)
	}
	return cloneListing(l), nil
}

func (m *MemoryStore) DeleteListing(_ context.Context, id uuid.UUID, guard func(*models.Listing) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok {
		return apperr.NotFound("listing not found")
	}
	if err := guard(cloneListing(l)); err != nil {
		return err
	}
	for fid, f := range m.favorites {
		if f.ListingID == id {
			delete(m.favorites, fid)
		}
	}
	for iid, inq := range m.inquiries {
		if inq.ListingID == id {
			delete(m.inquiries, iid)
		}
	}
	kept := m.reviews[:0]
	for _, r := range m.reviews {
		if r.ListingID != id {
			kept = append(kept, r)
		}
	}
	m.reviews = kept
	delete(m.listings, id)
	return nil
}

func (m *MemoryStore) ListReviews(_ context.Context, listingID uuid.UUID) ([]models.ListingReview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.ListingReview, 0)
	for _, r := range m.reviews {
		if r.ListingID == listingID {
			out = append(out, *r)
		}
	}
	return out, nil
}

// --- favorites ---

func (m *MemoryStore) CreateFavorite(_ context.Context, fav *models.Favorite, guard func(*models.Listing) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[fav.ListingID]
	if !ok {
		return apperr.NotFound("listing not found")
	}
	if err := guard(cloneListing(l)); err != nil {
		return err
	}
	for _, f := range m.favorites {
		if f.UserID == fav.UserID && f.ListingID == fav.ListingID {
			return apperr.Conflict("favorite already exists")
		}
	}
	if fav.ID == uuid.Nil {
		fav.ID = models.NewID()
	}
	fav.CreatedAt = m.now()
	c := *fav
	c.Listing = nil
	m.favorites[fav.ID] = &c
	fav.Listing = cloneListing(l)
	return nil
}

func (m *MemoryStore) ListFavorites(_ context.Context, userID uuid.UUID) ([]models.Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Favorite, 0)
	for _, f := range m.favorites {
		if f.UserID != userID {
			continue
		}
		c := *f
		if l, ok := m.listings[f.ListingID]; ok {
			c.Listing = cloneListing(l)
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (m *MemoryStore) DeleteFavorite(_ context.Context, id uuid.UUID, guard func(*models.Favorite) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.favorites[id]
	if !ok {
		return apperr.NotFound("favorite not found")
	}
	c := *f
	if err := guard(&c); err != nil {
		return err
	}
	delete(m.favorites, id)
	return nil
}

// --- inquiries ---

func (m *MemoryStore) CreateInquiry(_ context.Context, inq *models.Inquiry, guard func(*models.Listing) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[inq.ListingID]
	if !ok {
		return apperr.NotFound("listing not found")
	}
	if err := guard(cloneListing(l)); err != nil {
		return err
	}
	if inq.ID == uuid.Nil {
		inq.ID = models.NewID()
	}
	inq.SellerID = l.SellerID
	now := m.now()
	inq.CreatedAt, inq.UpdatedAt = now, now
	c := *inq
	c.Listing = nil
	m.inquiries[inq.ID] = &c
	l.InquiriesCount++
	return nil
}

func (m *MemoryStore) ListInquiries(_ context.Context, f models.InquiryFilter) ([]models.Inquiry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Inquiry, 0)
	for _, inq := range m.inquiries {
		if f.Matches(inq) {
			out = append(out, *inq)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []models.Inquiry{}, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *MemoryStore) DeleteInquiry(_ context.Context, id uuid.UUID, guard func(*models.Inquiry) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inq, ok := m.inquiries[id]
	if !ok {
		return apperr.NotFound("inquiry not found")
	}
	c := *inq
	if err := guard(&c); err != nil {
		return err
	}
	delete(m.inquiries, id)
	return nil
}
