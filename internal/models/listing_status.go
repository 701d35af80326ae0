package models

// ListingStatus governs marketplace visibility and mutability of a listing.
type ListingStatus string

const (
	StatusDraft         ListingStatus = "draft"
	StatusPendingReview ListingStatus = "pending_review"
	StatusApproved      ListingStatus = "approved"
	StatusRejected      ListingStatus = "rejected"
	StatusUnderOffer    ListingStatus = "under_offer"
	StatusSold          ListingStatus = "sold"
)

// AllListingStatuses lists every status in lifecycle order.
var AllListingStatuses = []ListingStatus{
	StatusDraft, StatusPendingReview, StatusApproved, StatusRejected, StatusUnderOffer, StatusSold,
}

func (s ListingStatus) Valid() bool {
	for _, v := range AllListingStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// PubliclyVisible reports whether listings in this status appear in the marketplace.
func (s ListingStatus) PubliclyVisible() bool {
	return s == StatusApproved
}

// moderationTransitions is the admin transition table. Writing the current
// status again is always allowed and is not listed here.
var moderationTransitions = map[ListingStatus][]ListingStatus{
	StatusDraft:         {StatusPendingReview},
	StatusPendingReview: {StatusApproved, StatusRejected},
	StatusApproved:      {StatusUnderOffer, StatusSold, StatusRejected, StatusPendingReview},
	StatusUnderOffer:    {StatusApproved, StatusSold},
	StatusRejected:      {StatusPendingReview, StatusApproved},
	StatusSold:          {},
}

// resubmitSources are the statuses a seller may send back to review.
var resubmitSources = []ListingStatus{StatusDraft, StatusRejected, StatusPendingReview}

// CanTransition reports whether an admin may move a listing from one status to another.
func CanTransition(from, to ListingStatus) bool {
	if from == to {
		return true
	}
	for _, next := range moderationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionSources returns every status from which `to` is reachable,
// including `to` itself. Used to guard the status UPDATE in one statement.
func TransitionSources(to ListingStatus) []ListingStatus {
	sources := []ListingStatus{to}
	for _, from := range AllListingStatuses {
		if from != to && CanTransition(from, to) {
			sources = append(sources, from)
		}
	}
	return sources
}

// ResubmitSources returns the statuses from which the owner may resubmit.
func ResubmitSources() []ListingStatus {
	out := make([]ListingStatus, len(resubmitSources))
	copy(out, resubmitSources)
	return out
}

// CanResubmit reports whether the owner may move the listing back to review.
func CanResubmit(from ListingStatus) bool {
	for _, s := range resubmitSources {
		if s == from {
			return true
		}
	}
	return false
}

// VerificationStatus is the trust tier of a listing, independent of Status.
type VerificationStatus string

const (
	VerificationUnverified         VerificationStatus = "unverified"
	VerificationDocumentsSubmitted VerificationStatus = "documents_submitted"
	VerificationRDBVerified        VerificationStatus = "rdb_verified"
	VerificationFullyVerified      VerificationStatus = "fully_verified"
)

func (v VerificationStatus) Valid() bool {
	switch v {
	case VerificationUnverified, VerificationDocumentsSubmitted, VerificationRDBVerified, VerificationFullyVerified:
		return true
	}
	return false
}

// Verified reports whether the tier counts for the "verified only" filter.
func (v VerificationStatus) Verified() bool {
	return v == VerificationRDBVerified || v == VerificationFullyVerified
}

// VerifiedTiers lists the tiers matched by the "verified only" filter.
var VerifiedTiers = []VerificationStatus{VerificationRDBVerified, VerificationFullyVerified}

// DeriveVerification returns the tier assigned when a listing is approved
// without an explicit verification status.
func DeriveVerification(l *Listing) VerificationStatus {
	if l.HasRegistrationNumber() {
		return VerificationRDBVerified
	}
	return VerificationDocumentsSubmitted
}
