package services

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/models"
	"github.com/google/uuid"
)

// Stores report missing rows as apperr.ErrNotFound and unique violations as
// apperr.ErrConflict. Guard callbacks run while the affected row is locked,
// so a check and the write that follows it cannot interleave with another
// writer on the same listing.

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUserName(ctx context.Context, id uuid.UUID, fullName string) (*models.User, error)
}

// TokenStore persists hashed refresh tokens.
type TokenStore interface {
	CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error
	// ConsumeRefreshToken revokes a live token and returns it.
	ConsumeRefreshToken(ctx context.Context, tokenHash string, now time.Time) (*models.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
}

// ListingStore persists listings and their moderation history.
type ListingStore interface {
	CreateListing(ctx context.Context, listing *models.Listing) error
	GetListing(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	// ViewListing increments views_count and returns the row in one step,
	// provided the listing is approved, owned by viewerID, or asAdmin is set.
	ViewListing(ctx context.Context, id, viewerID uuid.UUID, asAdmin bool) (*models.Listing, error)
	ListListings(ctx context.Context, q models.ListingQuery) ([]models.Listing, int64, error)
	UpdateListing(ctx context.Context, id uuid.UUID, fn func(current *models.Listing) (models.ListingPatch, error)) (*models.Listing, error)
	TransitionListing(ctx context.Context, id uuid.UUID, fn func(current *models.Listing) (models.StatusChange, error)) (*models.Listing, error)
	// DeleteListing removes the listing with its favorites, inquiries and reviews.
	DeleteListing(ctx context.Context, id uuid.UUID, guard func(current *models.Listing) error) error
	ListReviews(ctx context.Context, listingID uuid.UUID) ([]models.ListingReview, error)
}

// FavoriteStore persists favorites.
type FavoriteStore interface {
	CreateFavorite(ctx context.Context, fav *models.Favorite, guard func(listing *models.Listing) error) error
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]models.Favorite, error)
	DeleteFavorite(ctx context.Context, id uuid.UUID, guard func(fav *models.Favorite) error) error
}

// InquiryStore persists inquiries.
type InquiryStore interface {
	// CreateInquiry inserts the inquiry, copies the seller from the listing
	// and increments the listing's inquiries_count in one transaction.
	CreateInquiry(ctx context.Context, inq *models.Inquiry, guard func(listing *models.Listing) error) error
	ListInquiries(ctx context.Context, f models.InquiryFilter) ([]models.Inquiry, error)
	DeleteInquiry(ctx context.Context, id uuid.UUID, guard func(inq *models.Inquiry) error) error
}

// ListingCache holds marketplace query results. Implementations treat their
// own failures as misses.
type ListingCache interface {
	// GetPage also returns a token naming the cache generation seen by the
	// lookup. A page computed after a miss is stored with SetPage under that
	// token, so an invalidation that happens in between hides it.
	GetPage(ctx context.Context, q models.ListingQuery) (page *models.ListingPage, token string, ok bool)
	SetPage(ctx context.Context, token string, page *models.ListingPage)
	// Invalidate drops every cached page.
	Invalidate(ctx context.Context)
}
