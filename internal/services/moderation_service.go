package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/dto"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/identity"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/models"
	"github.com/google/uuid"
)

var (
	ErrInvalidVerification = apperr.Validation("invalid verification_status value")
	ErrListingNotFound     = apperr.NotFound("listing not found")
)

// ModerationService drives listing status changes and keeps their history.
type ModerationService struct {
	store ListingStore
	cache ListingCache
}

func NewModerationService(store ListingStore, cache ListingCache) *ModerationService {
	if cache == nil {
		cache = noCache{}
	}
	return &ModerationService{store: store, cache: cache}
}

// SetListingStatus moves a listing to a new status. Only admins may call
// it. Writing the current status again leaves the listing unchanged and
// records nothing.
func (s *ModerationService) SetListingStatus(ctx context.Context, caller identity.Caller, id uuid.UUID, req *dto.SetStatusRequest) (*models.Listing, error) {
	if err := RequireRole(caller, models.RoleAdmin); err != nil {
		return nil, err
	}

	to := models.ListingStatus(strings.TrimSpace(req.Status))
	if !to.Valid() {
		return nil, ErrInvalidStatus
	}
	requested := models.VerificationStatus(strings.TrimSpace(req.VerificationStatus))
	if requested != "" && !requested.Valid() {
		return nil, ErrInvalidVerification
	}
	note := strings.TrimSpace(req.Note)

	var from models.ListingStatus
	updated, err := s.store.TransitionListing(ctx, id, func(current *models.Listing) (models.StatusChange, error) {
		from = current.Status
		if !models.CanTransition(current.Status, to) {
			return models.StatusChange{}, apperr.Conflict(fmt.Sprintf("cannot move a listing from %s to %s", current.Status, to))
		}

		verification := requested
		if verification == "" && to == models.StatusApproved {
			verification = approvalVerification(current)
		}

		change := models.StatusChange{Status: to, Verification: verification}
		if current.Status == to && (verification == "" || verification == current.VerificationStatus) {
			return change, nil
		}

		effective := current.VerificationStatus
		if verification != "" {
			effective = verification
		}
		change.Review = &models.ListingReview{
			ActorID:            caller.ID,
			FromStatus:         current.Status,
			ToStatus:           to,
			VerificationStatus: effective,
			Note:               note,
		}
		return change, nil
	})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)

	slog.Info("listing status changed",
		"listing_id", id.String(),
		"from", string(from),
		"to", string(to),
		"verification_status", string(updated.VerificationStatus),
		"admin_id", caller.ID.String(),
	)
	return updated, nil
}

// approvalVerification is the tier set when approving without an explicit
// one. Re-approvals and listings already at a verified tier keep their tier.
func approvalVerification(current *models.Listing) models.VerificationStatus {
	if current.Status == models.StatusApproved || current.VerificationStatus.Verified() {
		return ""
	}
	return models.DeriveVerification(current)
}

// Resubmit sends a draft or rejected listing back to review.
func (s *ModerationService) Resubmit(ctx context.Context, caller identity.Caller, id uuid.UUID, req *dto.ResubmitRequest) (*models.Listing, error) {
	if err := requireAuthenticated(caller); err != nil {
		return nil, err
	}
	note := strings.TrimSpace(req.Note)

	var from models.ListingStatus
	updated, err := s.store.TransitionListing(ctx, id, func(current *models.Listing) (models.StatusChange, error) {
		from = current.Status
		if err := RequireOwnerOrAdmin(caller, current); err != nil {
			return models.StatusChange{}, err
		}
		if !models.CanResubmit(current.Status) {
			return models.StatusChange{}, apperr.Conflict(fmt.Sprintf("a %s listing cannot be resubmitted", current.Status))
		}

		change := models.StatusChange{Status: models.StatusPendingReview}
		if current.Status == models.StatusPendingReview {
			return change, nil
		}
		change.Review = &models.ListingReview{
			ActorID:            caller.ID,
			FromStatus:         current.Status,
			ToStatus:           models.StatusPendingReview,
			VerificationStatus: current.VerificationStatus,
			Note:               note,
		}
		return change, nil
	})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)

	slog.Info("listing resubmitted",
		"listing_id", id.String(),
		"from", string(from),
		"to", string(models.StatusPendingReview),
		"user_id", caller.ID.String(),
	)
	return updated, nil
}

// Reviews returns the moderation history of a listing to its owner or an admin.
func (s *ModerationService) Reviews(ctx context.Context, caller identity.Caller, id uuid.UUID) ([]models.ListingReview, error) {
	if err := requireAuthenticated(caller); err != nil {
		return nil, err
	}
	listing, err := s.store.GetListing(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canSee(caller, listing) {
		return nil, ErrListingNotFound
	}
	if err := RequireOwnerOrAdmin(caller, listing); err != nil {
		return nil, err
	}
	return s.store.ListReviews(ctx, id)
}
