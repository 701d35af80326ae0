package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/dto"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/identity"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/models"
	"github.com/google/uuid"
)

var (
	ErrSellerRequired = apperr.Authorization("only sellers can create listings")
	ErrInvalidStatus  = apperr.Validation("invalid status value")
)

type ListingService struct {
	store  ListingStore
	cache  ListingCache
	filter *ContentFilter
}

// NewListingService wires the listing operations. cache may be nil.
func NewListingService(store ListingStore, cache ListingCache, filter *ContentFilter) *ListingService {
	if cache == nil {
		cache = noCache{}
	}
	return &ListingService{store: store, cache: cache, filter: filter}
}

// Create inserts a listing owned by the caller. Whatever the client sent,
// the listing starts in pending_review with zeroed counters.
func (s *ListingService) Create(ctx context.Context, caller identity.Caller, req *dto.ListingRequest) (*models.Listing, error) {
	if err := RequireRole(caller, models.RoleSeller); err != nil {
		if apperr.KindOf(err) == apperr.KindAuthorization {
			return nil, ErrSellerRequired
		}
		return nil, err
	}

	listing := &models.Listing{
		SellerID:           caller.ID,
		Status:             models.StatusPendingReview,
		VerificationStatus: models.VerificationUnverified,
	}
	req.Patch().Apply(listing)
	if err := s.validate(listing); err != nil {
		return nil, err
	}

	if err := s.store.CreateListing(ctx, listing); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)

	slog.Info("listing created",
		"listing_id", listing.ID.String(),
		"user_id", caller.ID.String(),
		"role", string(caller.Role),
	)
	return listing, nil
}

// Get returns one listing and counts the view. Listings the caller may not
// address are reported as not found.
func (s *ListingService) Get(ctx context.Context, caller identity.Caller, id uuid.UUID) (*models.Listing, error) {
	return s.store.ViewListing(ctx, id, caller.ID, caller.IsAdmin())
}

// List runs q for the caller. The public view is pinned to approved
// listings unless an admin asks for a specific status, in which case the
// admin view is used. A status filter from anyone else on the public view
// is ignored.
func (s *ListingService) List(ctx context.Context, caller identity.Caller, q models.ListingQuery) (*dto.ListingListResponse, error) {
	q = q.Normalize()

	switch q.View {
	case models.ViewOwner:
		if err := requireAuthenticated(caller); err != nil {
			return nil, err
		}
		q.OwnerID = caller.ID
	case models.ViewAdmin:
		if err := RequireRole(caller, models.RoleAdmin); err != nil {
			return nil, err
		}
	default:
		q.View = models.ViewPublic
		if !caller.IsAdmin() {
			q.Status = ""
		} else if q.Status != "" {
			q.View = models.ViewAdmin
		}
	}
	if q.Status != "" && !q.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	var token string
	cacheable := q.View == models.ViewPublic
	if cacheable {
		page, tok, ok := s.cache.GetPage(ctx, q)
		if ok {
			resp := dto.NewListingListResponse(page.Listings, page.Total, q.Limit, q.Offset)
			return &resp, nil
		}
		token = tok
	}

	listings, total, err := s.store.ListListings(ctx, q)
	if err != nil {
		return nil, err
	}
	if cacheable {
		s.cache.SetPage(ctx, token, &models.ListingPage{Listings: listings, Total: total})
	}

	resp := dto.NewListingListResponse(listings, total, q.Limit, q.Offset)
	return &resp, nil
}

// Update edits the seller-owned fields. Status cannot change here.
func (s *ListingService) Update(ctx context.Context, caller identity.Caller, id uuid.UUID, req *dto.ListingRequest) (*models.Listing, error) {
	if err := requireAuthenticated(caller); err != nil {
		return nil, err
	}
	patch := req.Patch()

	updated, err := s.store.UpdateListing(ctx, id, func(current *models.Listing) (models.ListingPatch, error) {
		if err := RequireOwnerOrAdmin(caller, current); err != nil {
			return patch, err
		}
		next := *current
		patch.Apply(&next)
		return patch, s.validate(&next)
	})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)

	slog.Info("listing updated",
		"listing_id", id.String(),
		"user_id", caller.ID.String(),
		"role", string(caller.Role),
	)
	return updated, nil
}

// Delete removes the listing together with its favorites, inquiries and reviews.
func (s *ListingService) Delete(ctx context.Context, caller identity.Caller, id uuid.UUID) error {
	if err := requireAuthenticated(caller); err != nil {
		return err
	}
	err := s.store.DeleteListing(ctx, id, func(current *models.Listing) error {
		return RequireOwnerOrAdmin(caller, current)
	})
	if err != nil {
		return err
	}
	s.cache.Invalidate(ctx)

	slog.Info("listing deleted",
		"listing_id", id.String(),
		"user_id", caller.ID.String(),
		"role", string(caller.Role),
	)
	return nil
}

func (s *ListingService) validate(l *models.Listing) error {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"title", l.Title},
		{"type", l.Type},
		{"category", l.Category},
		{"description", l.Description},
		{"location", l.Location},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if l.AskingPrice <= 0 {
		missing = append(missing, "asking_price")
	}
	if len(missing) > 0 {
		return apperr.Validation("missing required fields: " + strings.Join(missing, ", "))
	}

	if len(l.Title) > 255 {
		return apperr.Validation("title must be at most 255 characters")
	}
	if l.MinimumInvestment != nil && *l.MinimumInvestment < 0 {
		return apperr.Validation("minimum_investment must not be negative")
	}
	if l.AnnualRevenue != nil && *l.AnnualRevenue < 0 {
		return apperr.Validation("annual_revenue must not be negative")
	}
	if l.Employees != nil && *l.Employees < 0 {
		return apperr.Validation("employees must not be negative")
	}
	if l.YearEstablished != nil {
		if y := *l.YearEstablished; y < 1800 || y > time.Now().Year()+1 {
			return apperr.Validation(fmt.Sprintf("year_established %d is out of range", y))
		}
	}
	for i, doc := range l.Documents {
		if strings.TrimSpace(doc.URL) == "" {
			return apperr.Validation(fmt.Sprintf("documents[%d].url is required", i))
		}
	}
	for i, img := range l.Images {
		if strings.TrimSpace(img) == "" {
			return apperr.Validation(fmt.Sprintf("images[%d] must not be empty", i))
		}
	}

	fields := []Field{
		{Name: "title", Value: l.Title, AllowCaps: true},
		{Name: "short_description", Value: l.ShortDescription},
		{Name: "description", Value: l.Description},
	}
	for _, h := range l.Highlights {
		fields = append(fields, Field{Name: "highlights", Value: h})
	}
	return s.filter.Screen(ListingPolicy, fields...)
}

type noCache struct{}

func (noCache) GetPage(context.Context, models.ListingQuery) (*models.ListingPage, string, bool) {
	return nil, "", false
}

func (noCache) SetPage(context.Context, string, *models.ListingPage) {}

func (noCache) Invalidate(context.Context) {}
