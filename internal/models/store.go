package models

import "github.com/google/uuid"

// StatusChange is the outcome of a listing transition decision.
type StatusChange struct {
	Status ListingStatus
	// Verification is left unchanged when empty.
	Verification VerificationStatus
	Review       *ListingReview
}

// InquiryFilter selects inquiries; zero IDs are not applied.
type InquiryFilter struct {
	InvestorID uuid.UUID
	SellerID   uuid.UUID
	// Participant matches either side of the inquiry.
	Participant uuid.UUID
	ListingID   uuid.UUID
	Limit       int
	Offset      int
}

// Matches reports whether inq satisfies the filter.
func (f InquiryFilter) Matches(inq *Inquiry) bool {
	if f.InvestorID != uuid.Nil && inq.InvestorID != f.InvestorID {
		return false
	}
	if f.SellerID != uuid.Nil && inq.SellerID != f.SellerID {
		return false
	}
	if f.Participant != uuid.Nil && inq.InvestorID != f.Participant && inq.SellerID != f.Participant {
		return false
	}
	if f.ListingID != uuid.Nil && inq.ListingID != f.ListingID {
		return false
	}
	return true
}
