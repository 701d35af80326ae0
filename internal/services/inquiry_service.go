package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/dto"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/identity"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/models"
	"github.com/google/uuid"
)

var (
	ErrOwnListingInquiry = apperr.Authorization("you cannot send an inquiry about your own listing")
	ErrListingNotOpen    = apperr.Conflict("listing is not open for inquiries")
	ErrInquiryNotFound   = apperr.NotFound("inquiry not found")
	ErrInquirySenderOnly = apperr.Authorization("only the sender can delete an inquiry")
)

// Inquiry list scopes.
const (
	InquiriesSent     = "sent"
	InquiriesReceived = "received"
)

const maxInquirySubject = 255

type InquiryService struct {
	store  InquiryStore
	filter *ContentFilter
}

func NewInquiryService(store InquiryStore, filter *ContentFilter) *InquiryService {
	return &InquiryService{store: store, filter: filter}
}

// Create records an inquiry on an approved listing and bumps the listing's
// inquiries_count in the same transaction.
func (s *InquiryService) Create(ctx context.Context, caller identity.Caller, req *dto.InquiryRequest) (*models.Inquiry, error) {
	if err := requireAuthenticated(caller); err != nil {
		return nil, err
	}
	subject := strings.TrimSpace(req.Subject)
	message := strings.TrimSpace(req.Message)
	if req.ListingID == uuid.Nil || message == "" {
		return nil, apperr.Validation("listing_id and message are required")
	}
	if len(subject) > maxInquirySubject {
		return nil, apperr.Validation("subject must be at most 255 characters")
	}
	if err := s.filter.Screen(InquiryPolicy, Field{Name: "subject", Value: subject}, Field{Name: "message", Value: message}); err != nil {
		return nil, err
	}

	inq := &models.Inquiry{
		ListingID:  req.ListingID,
		InvestorID: caller.ID,
		Subject:    subject,
		Message:    message,
		Status:     models.InquiryStatusNew,
	}
	err := s.store.CreateInquiry(ctx, inq, func(listing *models.Listing) error {
		if !canSee(caller, listing) {
			return ErrListingNotFound
		}
		if listing.OwnedBy(caller.ID) {
			return ErrOwnListingInquiry
		}
		if !listing.Status.PubliclyVisible() {
			return ErrListingNotOpen
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("inquiry created",
		"listing_id", inq.ListingID.String(),
		"user_id", caller.ID.String(),
		"role", string(caller.Role),
	)
	return inq, nil
}

// List returns inquiries the caller took part in. scope narrows to sent or
// received ones; admins without a scope see every inquiry.
func (s *InquiryService) List(ctx context.Context, caller identity.Caller, scope string, limit, offset int) ([]models.Inquiry, error) {
	if err := requireAuthenticated(caller); err != nil {
		return nil, err
	}

	f := models.InquiryFilter{Limit: limit, Offset: offset}
	switch strings.ToLower(strings.TrimSpace(scope)) {
	case InquiriesSent:
		f.InvestorID = caller.ID
	case InquiriesReceived:
		f.SellerID = caller.ID
	case "":
		if !caller.IsAdmin() {
			f.Participant = caller.ID
		}
	default:
		return nil, apperr.Validation("role must be sent or received")
	}

	if f.Limit <= 0 {
		f.Limit = models.DefaultListingLimit
	}
	if f.Limit > models.MaxListingLimit {
		f.Limit = models.MaxListingLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.store.ListInquiries(ctx, f)
}

// Delete removes an inquiry. Only its sender may do so; the receiving seller
// is refused and anyone else gets not found.
func (s *InquiryService) Delete(ctx context.Context, caller identity.Caller, id uuid.UUID) error {
	if err := requireAuthenticated(caller); err != nil {
		return err
	}
	return s.store.DeleteInquiry(ctx, id, func(inq *models.Inquiry) error {
		switch caller.ID {
		case inq.InvestorID:
			return nil
		case inq.SellerID:
			return ErrInquirySenderOnly
		}
		if caller.IsAdmin() {
			return ErrInquirySenderOnly
		}
		return ErrInquiryNotFound
	})
}
