package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/models"
	"github.com/google/uuid"
)

func seedListing(t *testing.T, s *MemoryStore, seller uuid.UUID, status models.ListingStatus) *models.Listing {
	t.Helper()
	l := &models.Listing{
		SellerID:    seller,
		Title:       "Coffee washing station",
		Type:        "business_sale",
		Category:    "agriculture",
		Description: "Fully equipped station in Huye",
		AskingPrice: 250000,
		Location:    "Huye",
		Status:      status,
	}
	if err := s.CreateListing(context.Background(), l); err != nil {
		t.Fatalf("create listing: %v", err)
	}
	return l
}

func TestMemoryCreateUserDuplicateEmail(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	if err := s.CreateUser(ctx, &models.User{Email: "Ana@Example.com", Password: "x"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := s.CreateUser(ctx, &models.User{Email: "ana@example.com", Password: "y"})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	u, err := s.GetUserByEmail(ctx, " ANA@example.com ")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if u.Role != models.RoleInvestor {
		t.Errorf("expected default investor role, got %q", u.Role)
	}
}

func TestMemoryConsumeRefreshTokenOnce(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	now := time.Now()
	tok := &models.RefreshToken{UserID: uuid.New(), TokenHash: "abc", ExpiresAt: now.Add(time.Hour)}
	if err := s.CreateRefreshToken(ctx, tok); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.ConsumeRefreshToken(ctx, "abc", now); err != nil {
		t.Fatalf("first consume: %v", err)
	}
	if _, err := s.ConsumeRefreshToken(ctx, "abc", now); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("second consume should fail, got %v", err)
	}

	expired := &models.RefreshToken{UserID: uuid.New(), TokenHash: "old", ExpiresAt: now.Add(-time.Minute)}
	_ = s.CreateRefreshToken(ctx, expired)
	if _, err := s.ConsumeRefreshToken(ctx, "old", now); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expired token should not be consumable, got %v", err)
	}
}

func TestMemoryViewListingVisibility(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	seller := uuid.New()
	pending := seedListing(t, s, seller, models.StatusPendingReview)

	if _, err := s.ViewListing(ctx, pending.ID, uuid.New(), false); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("stranger should not see pending listing, got %v", err)
	}
	got, err := s.ViewListing(ctx, pending.ID, seller, false)
	if err != nil {
		t.Fatalf("owner view: %v", err)
	}
	if got.ViewsCount != 1 {
		t.Errorf("expected 1 view, got %d", got.ViewsCount)
	}
	got, err = s.ViewListing(ctx, pending.ID, uuid.Nil, true)
	if err != nil {
		t.Fatalf("admin view: %v", err)
	}
	if got.ViewsCount != 2 {
		t.Errorf("expected 2 views, got %d", got.ViewsCount)
	}
}

func TestMemoryViewListingConcurrentIncrements(t *testing.T) {
	s := NewMemoryStore()
	l := seedListing(t, s, uuid.New(), models.StatusApproved)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.ViewListing(context.Background(), l.ID, uuid.Nil, false)
		}()
	}
	wg.Wait()

	got, _ := s.GetListing(context.Background(), l.ID)
	if got.ViewsCount != 50 {
		t.Fatalf("expected 50 views, got %d", got.ViewsCount)
	}
}

func TestMemoryListListingsOrderAndPaging(t *testing.T) {
	s := NewMemoryStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	s.SetClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	})
	seller := uuid.New()
	first := seedListing(t, s, seller, models.StatusApproved)
	second := seedListing(t, s, seller, models.StatusApproved)
	third := seedListing(t, s, seller, models.StatusApproved)
	seedListing(t, s, seller, models.StatusRejected)

	q := models.ListingQuery{View: models.ViewPublic, Limit: 2}.Normalize()
	page, total, err := s.ListListings(context.Background(), q)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected total 3, got %d", total)
	}
	if len(page) != 2 || page[0].ID != third.ID || page[1].ID != second.ID {
		t.Fatalf("unexpected first page order")
	}

	q.Offset = 2
	page, _, _ = s.ListListings(context.Background(), q)
	if len(page) != 1 || page[0].ID != first.ID {
		t.Fatalf("unexpected second page")
	}

	q.Offset = 10
	page, total, _ = s.ListListings(context.Background(), q)
	if len(page) != 0 || total != 3 {
		t.Fatalf("offset past end should be empty with full total, got %d/%d", len(page), total)
	}
}

func TestMemoryTransitionRecordsReview(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	l := seedListing(t, s, uuid.New(), models.StatusPendingReview)
	admin := uuid.New()

	got, err := s.TransitionListing(ctx, l.ID, func(cur *models.Listing) (models.StatusChange, error) {
		return models.StatusChange{
			Status:       models.StatusApproved,
			Verification: models.VerificationDocumentsSubmitted,
			Review: &models.ListingReview{
				ActorID:    admin,
				FromStatus: cur.Status,
				ToStatus:   models.StatusApproved,
			},
		}, nil
	})
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	if got.Status != models.StatusApproved || got.VerificationStatus != models.VerificationDocumentsSubmitted {
		t.Fatalf("unexpected state %s/%s", got.Status, got.VerificationStatus)
	}
	reviews, _ := s.ListReviews(ctx, l.ID)
	if len(reviews) != 1 || reviews[0].FromStatus != models.StatusPendingReview {
		t.Fatalf("expected one review from pending_review, got %+v", reviews)
	}

	rejectErr := apperr.Conflict("nope")
	_, err = s.TransitionListing(ctx, l.ID, func(*models.Listing) (models.StatusChange, error) {
		return models.StatusChange{}, rejectErr
	})
	if !errors.Is(err, rejectErr) {
		t.Fatalf("expected callback error, got %v", err)
	}
	after, _ := s.GetListing(ctx, l.ID)
	if after.Status != models.StatusApproved {
		t.Fatalf("failed transition must not change status")
	}
}

func TestMemoryUpdateListingAppliesPatchOnly(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	l := seedListing(t, s, uuid.New(), models.StatusApproved)
	title := "  New title "
	got, err := s.UpdateListing(ctx, l.ID, func(*models.Listing) (models.ListingPatch, error) {
		return models.ListingPatch{Title: &title}, nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Title != "New title" || got.Status != models.StatusApproved {
		t.Fatalf("unexpected listing %q/%s", got.Title, got.Status)
	}
}

func TestMemoryFavoritesUniqueAndCascade(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	user := uuid.New()
	l := seedListing(t, s, uuid.New(), models.StatusApproved)
	allow := func(*models.Listing) error { return nil }

	fav := &models.Favorite{UserID: user, ListingID: l.ID}
	if err := s.CreateFavorite(ctx, fav, allow); err != nil {
		t.Fatalf("favorite: %v", err)
	}
	if fav.Listing == nil || fav.Listing.ID != l.ID {
		t.Fatalf("favorite should carry its listing")
	}
	err := s.CreateFavorite(ctx, &models.Favorite{UserID: user, ListingID: l.ID}, allow)
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict on duplicate favorite, got %v", err)
	}

	inq := &models.Inquiry{ListingID: l.ID, InvestorID: user, Message: "hello"}
	if err := s.CreateInquiry(ctx, inq, allow); err != nil {
		t.Fatalf("inquiry: %v", err)
	}
	if inq.SellerID != l.SellerID {
		t.Fatalf("inquiry seller should be copied from listing")
	}
	got, _ := s.GetListing(ctx, l.ID)
	if got.InquiriesCount != 1 {
		t.Fatalf("expected inquiries_count 1, got %d", got.InquiriesCount)
	}

	if err := s.DeleteListing(ctx, l.ID, func(*models.Listing) error { return nil }); err != nil {
		t.Fatalf("delete: %v", err)
	}
	favs, _ := s.ListFavorites(ctx, user)
	if len(favs) != 0 {
		t.Fatalf("favorites should cascade, got %d", len(favs))
	}
	inqs, _ := s.ListInquiries(ctx, models.InquiryFilter{InvestorID: user})
	if len(inqs) != 0 {
		t.Fatalf("inquiries should cascade, got %d", len(inqs))
	}
}

func TestMemoryGuardsBlockWrites(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	l := seedListing(t, s, uuid.New(), models.StatusPendingReview)
	deny := apperr.Authorization("denied")

	err := s.CreateInquiry(ctx, &models.Inquiry{ListingID: l.ID, InvestorID: uuid.New(), Message: "hi"},
		func(*models.Listing) error { return deny })
	if !errors.Is(err, deny) {
		t.Fatalf("expected guard error, got %v", err)
	}
	got, _ := s.GetListing(ctx, l.ID)
	if got.InquiriesCount != 0 {
		t.Fatalf("guarded inquiry must not increment count")
	}

	if err := s.DeleteListing(ctx, l.ID, func(*models.Listing) error { return deny }); !errors.Is(err, deny) {
		t.Fatalf("expected guard error, got %v", err)
	}
	if _, err := s.GetListing(ctx, l.ID); err != nil {
		t.Fatalf("guarded delete must keep listing: %v", err)
	}
}
