package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/dto"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/identity"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/models"
	"github.com/google/uuid"
)

func TestCreateListingStartsPendingReview(t *testing.T) {
	env := newTestEnv(t)
	seller := env.seller(t)

	l := env.createListing(t, seller, validListing("Coffee Farm"))
	if l.Status != models.StatusPendingReview {
		t.Fatalf("status = %q, want pending_review", l.Status)
	}
	if l.SellerID != seller.ID {
		t.Fatalf("seller_id = %v, want %v", l.SellerID, seller.ID)
	}
	if l.ViewsCount != 0 || l.InquiriesCount != 0 {
		t.Fatalf("counters should start at zero")
	}
	if l.VerificationStatus != models.VerificationUnverified {
		t.Fatalf("verification = %q", l.VerificationStatus)
	}
}

func TestCreateListingRequiresSeller(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.listings.Create(ctx, env.investor(t), validListing("x"))
	if !errors.Is(err, ErrSellerRequired) {
		t.Fatalf("investor create: expected ErrSellerRequired, got %v", err)
	}
	_, err = env.listings.Create(ctx, identity.Anonymous(), validListing("x"))
	assertKind(t, err, apperr.KindAuthentication)
}

func TestCreateListingValidation(t *testing.T) {
	env := newTestEnv(t)
	seller := env.seller(t)
	ctx := context.Background()

	missing := validListing("Coffee Farm")
	missing.Location = nil
	_, err := env.listings.Create(ctx, seller, missing)
	assertKind(t, err, apperr.KindValidation)

	zeroPrice := validListing("Coffee Farm")
	zeroPrice.AskingPrice = floatPtr(0)
	_, err = env.listings.Create(ctx, seller, zeroPrice)
	assertKind(t, err, apperr.KindValidation)

	blank := validListing("   ")
	_, err = env.listings.Create(ctx, seller, blank)
	assertKind(t, err, apperr.KindValidation)

	profane := validListing("Total bullshit deal")
	_, err = env.listings.Create(ctx, seller, profane)
	assertKind(t, err, apperr.KindValidation)
	var rejection ContentRejection
	if !errors.As(err, &rejection) || rejection != ReasonInappropriateLanguage {
		t.Fatalf("expected inappropriate_language rejection, got %v", err)
	}

	fraudPrevention := validListing("RWANDA KIGALI COFFEE EXPORT")
	fraudPrevention.Description = strPtr("Export house with anti-scam escrow and phishing-resistant payments")
	if _, err := env.listings.Create(ctx, seller, fraudPrevention); err != nil {
		t.Fatalf("upper case title and fraud vocabulary should be accepted in listings: %v", err)
	}
}

func TestPublicListShowsOnlyApproved(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := env.seller(t)
	admin := env.admin(t)
	investor := env.investor(t)

	pending := env.createListing(t, seller, validListing("Coffee Farm"))
	approved := env.createListing(t, seller, validListing("Tea Estate"))
	env.approve(t, admin, approved.ID)
	rejected := env.createListing(t, seller, validListing("Dairy"))
	if _, err := env.moderation.SetListingStatus(ctx, admin, rejected.ID, &dto.SetStatusRequest{Status: "rejected", Note: "missing documents"}); err != nil {
		t.Fatalf("reject: %v", err)
	}

	for _, caller := range []identity.Caller{identity.Anonymous(), investor, seller} {
		for _, status := range []models.ListingStatus{"", models.StatusPendingReview, models.StatusRejected, "all", "bogus"} {
			resp, err := env.listings.List(ctx, caller, models.ListingQuery{View: models.ViewPublic, Status: status})
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			for _, l := range resp.Listings {
				if l.Status != models.StatusApproved {
					t.Fatalf("public list returned %s listing %s", l.Status, l.ID)
				}
				if l.ID == pending.ID {
					t.Fatalf("pending listing leaked into marketplace")
				}
			}
			if resp.Total != 1 {
				t.Fatalf("total = %d, want 1", resp.Total)
			}
		}
	}
}

func TestAdminStatusFilterOnPublicList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := env.seller(t)
	admin := env.admin(t)
	env.createListing(t, seller, validListing("Coffee Farm"))

	resp, err := env.listings.List(ctx, admin, models.ListingQuery{View: models.ViewPublic, Status: models.StatusPendingReview})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if resp.Total != 1 || resp.Listings[0].Status != models.StatusPendingReview {
		t.Fatalf("admin should see pending listings when asking for them")
	}

	_, err = env.listings.List(ctx, admin, models.ListingQuery{View: models.ViewAdmin, Status: "bogus"})
	assertKind(t, err, apperr.KindValidation)
	_, err = env.listings.List(ctx, admin, models.ListingQuery{View: models.ViewPublic, Status: "bogus"})
	assertKind(t, err, apperr.KindValidation)
	_, err = env.listings.List(ctx, seller, models.ListingQuery{View: models.ViewOwner, Status: "bogus"})
	assertKind(t, err, apperr.KindValidation)
}

func TestOwnerAndAdminViews(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := env.seller(t)
	other := env.seller(t)
	admin := env.admin(t)

	env.createListing(t, seller, validListing("Mine"))
	env.createListing(t, other, validListing("Theirs"))

	mine, err := env.listings.List(ctx, seller, models.ListingQuery{View: models.ViewOwner})
	if err != nil {
		t.Fatalf("my listings: %v", err)
	}
	if mine.Total != 1 || mine.Listings[0].SellerID != seller.ID {
		t.Fatalf("owner view should only hold own listings")
	}

	_, err = env.listings.List(ctx, identity.Anonymous(), models.ListingQuery{View: models.ViewOwner})
	assertKind(t, err, apperr.KindAuthentication)

	_, err = env.listings.List(ctx, seller, models.ListingQuery{View: models.ViewAdmin})
	if !errors.Is(err, ErrAdminRequired) {
		t.Fatalf("non-admin all listings: expected ErrAdminRequired, got %v", err)
	}

	all, err := env.listings.List(ctx, admin, models.ListingQuery{View: models.ViewAdmin})
	if err != nil {
		t.Fatalf("all listings: %v", err)
	}
	if all.Total != 2 {
		t.Fatalf("admin view total = %d, want 2", all.Total)
	}
}

func TestListSortAndFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := env.seller(t)
	admin := env.admin(t)

	cheap := validListing("Cheap")
	cheap.AskingPrice = floatPtr(1000)
	cheap.ProjectedROI = floatPtr(30)
	mid := validListing("Mid")
	mid.AskingPrice = floatPtr(5000)
	mid.Category = strPtr("real_estate")
	mid.RDBRegistrationNumber = strPtr("RDB-1")
	pricey := validListing("Pricey")
	pricey.AskingPrice = floatPtr(9000)
	pricey.ProjectedROI = floatPtr(12)

	var ids []uuid.UUID
	for _, req := range []*dto.ListingRequest{cheap, mid, pricey} {
		l := env.createListing(t, seller, req)
		env.approve(t, admin, l.ID)
		ids = append(ids, l.ID)
	}

	order := func(q models.ListingQuery) []uuid.UUID {
		t.Helper()
		resp, err := env.listings.List(ctx, identity.Anonymous(), q)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		out := make([]uuid.UUID, 0, len(resp.Listings))
		for _, l := range resp.Listings {
			out = append(out, l.ID)
		}
		return out
	}
	equal := func(got, want []uuid.UUID) bool {
		if len(got) != len(want) {
			return false
		}
		for i := range got {
			if got[i] != want[i] {
				return false
			}
		}
		return true
	}

	if got := order(models.ListingQuery{Sort: models.SortPriceHigh}); !equal(got, []uuid.UUID{ids[2], ids[1], ids[0]}) {
		t.Errorf("price_high order wrong")
	}
	if got := order(models.ListingQuery{Sort: models.SortPriceLow}); !equal(got, ids) {
		t.Errorf("price_low order wrong")
	}
	if got := order(models.ListingQuery{Sort: models.SortROI}); !equal(got, []uuid.UUID{ids[0], ids[2], ids[1]}) {
		t.Errorf("roi order wrong")
	}
	if got := order(models.ListingQuery{Category: "real_estate"}); !equal(got, []uuid.UUID{ids[1]}) {
		t.Errorf("category filter wrong")
	}
	if got := order(models.ListingQuery{VerifiedOnly: true}); !equal(got, []uuid.UUID{ids[1]}) {
		t.Errorf("verified_only filter wrong")
	}
	lo, hi := 1000.0, 5000.0
	if got := order(models.ListingQuery{MinPrice: &lo, MaxPrice: &hi, Sort: models.SortPriceLow}); !equal(got, []uuid.UUID{ids[0], ids[1]}) {
		t.Errorf("inclusive price range wrong")
	}
	if got := order(models.ListingQuery{Search: "PRICEY"}); !equal(got, []uuid.UUID{ids[2]}) {
		t.Errorf("search wrong")
	}
}

func TestUpdateListingOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.seller(t)
	stranger := env.seller(t)
	admin := env.admin(t)
	l := env.createListing(t, owner, validListing("Coffee Farm"))

	_, err := env.listings.Update(ctx, stranger, l.ID, &dto.ListingRequest{Title: strPtr("Hijacked")})
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("stranger update: expected ErrNotOwner, got %v", err)
	}

	updated, err := env.listings.Update(ctx, owner, l.ID, &dto.ListingRequest{Title: strPtr("Coffee Farm II")})
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Title != "Coffee Farm II" || updated.Status != models.StatusPendingReview {
		t.Fatalf("unexpected listing after update: %q %s", updated.Title, updated.Status)
	}

	if _, err := env.listings.Update(ctx, admin, l.ID, &dto.ListingRequest{AskingPrice: floatPtr(300000)}); err != nil {
		t.Fatalf("admin update: %v", err)
	}

	_, err = env.listings.Update(ctx, owner, l.ID, &dto.ListingRequest{Title: strPtr("")})
	assertKind(t, err, apperr.KindValidation)

	_, err = env.listings.Update(ctx, owner, uuid.New(), &dto.ListingRequest{Title: strPtr("x")})
	assertKind(t, err, apperr.KindNotFound)
}

func TestGetListingCountsViews(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := env.seller(t)
	admin := env.admin(t)
	l := env.createListing(t, seller, validListing("Coffee Farm"))
	env.approve(t, admin, l.ID)

	const n = 5
	for i := 0; i < n; i++ {
		if _, err := env.listings.Get(ctx, identity.Anonymous(), l.ID); err != nil {
			t.Fatalf("get: %v", err)
		}
	}
	got, _ := env.store.GetListing(ctx, l.ID)
	if got.ViewsCount != n {
		t.Fatalf("views = %d, want %d", got.ViewsCount, n)
	}
}

func TestGetListingVisibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := env.seller(t)
	admin := env.admin(t)
	l := env.createListing(t, seller, validListing("Coffee Farm"))

	_, err := env.listings.Get(ctx, env.investor(t), l.ID)
	assertKind(t, err, apperr.KindNotFound)

	if _, err := env.listings.Get(ctx, seller, l.ID); err != nil {
		t.Fatalf("owner get: %v", err)
	}
	if _, err := env.listings.Get(ctx, admin, l.ID); err != nil {
		t.Fatalf("admin get: %v", err)
	}

	_, err = env.listings.Get(ctx, admin, uuid.New())
	assertKind(t, err, apperr.KindNotFound)
}

func TestDeleteListingCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := env.seller(t)
	admin := env.admin(t)
	investor := env.investor(t)
	l := env.createListing(t, seller, validListing("Coffee Farm"))
	env.approve(t, admin, l.ID)

	if _, err := env.favorites.Add(ctx, investor, l.ID); err != nil {
		t.Fatalf("favorite: %v", err)
	}

	err := env.listings.Delete(ctx, investor, l.ID)
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("investor delete: expected ErrNotOwner, got %v", err)
	}
	if err := env.listings.Delete(ctx, seller, l.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	favs, _ := env.favorites.List(ctx, investor)
	if len(favs) != 0 {
		t.Fatalf("favorites should be removed with the listing")
	}
	_, err = env.listings.Get(ctx, admin, l.ID)
	assertKind(t, err, apperr.KindNotFound)
}

func TestListingCacheLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := env.seller(t)
	admin := env.admin(t)
	l := env.createListing(t, seller, validListing("Coffee Farm"))
	env.approve(t, admin, l.ID)

	q := models.ListingQuery{View: models.ViewPublic}
	if _, err := env.listings.List(ctx, identity.Anonymous(), q); err != nil {
		t.Fatalf("list: %v", err)
	}
	if _, err := env.listings.List(ctx, identity.Anonymous(), q); err != nil {
		t.Fatalf("list: %v", err)
	}
	if env.cache.hits != 1 {
		t.Fatalf("second public list should hit the cache, hits = %d", env.cache.hits)
	}

	before := env.cache.invalidations
	if _, err := env.listings.Update(ctx, seller, l.ID, &dto.ListingRequest{Title: strPtr("Renamed")}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if env.cache.invalidations != before+1 {
		t.Fatalf("update should invalidate the cache")
	}

	resp, _ := env.listings.List(ctx, identity.Anonymous(), q)
	if resp.Listings[0].Title != "Renamed" {
		t.Fatalf("stale page served after update")
	}

	hits := env.cache.hits
	if _, err := env.listings.List(ctx, seller, models.ListingQuery{View: models.ViewOwner}); err != nil {
		t.Fatalf("owner list: %v", err)
	}
	if env.cache.hits != hits {
		t.Fatalf("owner view must bypass the cache")
	}
}

func TestListingCacheSkipsPageReadBeforeInvalidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.admin(t)
	l := env.createListing(t, env.seller(t), validListing("Coffee Farm"))
	env.approve(t, admin, l.ID)

	store := &listHookStore{MemoryStore: env.store}
	listings := NewListingService(store, env.cache, NewContentFilter())
	store.afterList = func() {
		if _, err := env.moderation.SetListingStatus(ctx, admin, l.ID, &dto.SetStatusRequest{Status: "rejected"}); err != nil {
			t.Errorf("reject: %v", err)
		}
	}

	q := models.ListingQuery{View: models.ViewPublic}
	resp, err := listings.List(ctx, identity.Anonymous(), q)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("in-flight read should still see the approved listing, total = %d", resp.Total)
	}

	resp, err = listings.List(ctx, identity.Anonymous(), q)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if resp.Total != 0 || len(resp.Listings) != 0 {
		t.Fatalf("page read before the rejection was served from cache: %+v", resp.Listings)
	}
}
