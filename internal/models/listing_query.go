package models

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ListingView selects which listings a query may address.
type ListingView int

const (
	// ViewPublic is the marketplace: approved listings only.
	ViewPublic ListingView = iota
	// ViewOwner is restricted to the caller's own listings, any status.
	ViewOwner
	// ViewAdmin has no restriction.
	ViewAdmin
)

func (v ListingView) String() string {
	switch v {
	case ViewOwner:
		return "owner"
	case ViewAdmin:
		return "admin"
	default:
		return "public"
	}
}

type ListingSort string

const (
	SortNewest    ListingSort = "newest"
	SortPriceLow  ListingSort = "price_low"
	SortPriceHigh ListingSort = "price_high"
	SortROI       ListingSort = "roi"
	SortPopular   ListingSort = "popular"
)

// ParseListingSort maps a sort parameter onto a ListingSort. The legacy
// "-created_date" style used by older clients maps to newest.
func ParseListingSort(raw string) ListingSort {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "price_low", "asking_price":
		return SortPriceLow
	case "price_high", "-asking_price":
		return SortPriceHigh
	case "roi", "-projected_roi":
		return SortROI
	case "popular", "-views_count":
		return SortPopular
	default:
		return SortNewest
	}
}

const (
	DefaultListingLimit = 50
	MaxListingLimit     = 100
)

// ListingQuery is a filter over listings. Every filter is AND-combined and
// an empty field is not applied.
type ListingQuery struct {
	View         ListingView
	OwnerID      uuid.UUID
	Status       ListingStatus
	Category     string
	Type         string
	District     string
	MinPrice     *float64
	MaxPrice     *float64
	Search       string
	VerifiedOnly bool
	Sort         ListingSort
	Limit        int
	Offset       int
}

func isUnset(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, "all")
}

// Normalize clears "all" values, fixes the sort and clamps paging.
func (q ListingQuery) Normalize() ListingQuery {
	clean := func(s string) string {
		if isUnset(s) {
			return ""
		}
		return strings.TrimSpace(s)
	}
	q.Category = clean(q.Category)
	q.Type = clean(q.Type)
	q.District = clean(q.District)
	q.Search = strings.TrimSpace(q.Search)
	q.Status = ListingStatus(clean(string(q.Status)))
	q.Sort = ParseListingSort(string(q.Sort))
	if q.Limit <= 0 {
		q.Limit = DefaultListingLimit
	}
	if q.Limit > MaxListingLimit {
		q.Limit = MaxListingLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}

// EffectiveStatus is the status restriction actually applied. The public
// view is always pinned to approved, whatever the caller asked for.
func (q ListingQuery) EffectiveStatus() ListingStatus {
	if q.View == ViewPublic {
		return StatusApproved
	}
	return q.Status
}

// Matches reports whether l satisfies the query.
func (q ListingQuery) Matches(l *Listing) bool {
	if q.View == ViewOwner && !l.OwnedBy(q.OwnerID) {
		return false
	}
	if st := q.EffectiveStatus(); st != "" && l.Status != st {
		return false
	}
	if q.Category != "" && l.Category != q.Category {
		return false
	}
	if q.Type != "" && l.Type != q.Type {
		return false
	}
	if q.District != "" && l.District != q.District {
		return false
	}
	if q.MinPrice != nil && l.AskingPrice < *q.MinPrice {
		return false
	}
	if q.MaxPrice != nil && l.AskingPrice > *q.MaxPrice {
		return false
	}
	if q.VerifiedOnly && !l.VerificationStatus.Verified() {
		return false
	}
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(l.Title), needle) &&
			!strings.Contains(strings.ToLower(l.Description), needle) {
			return false
		}
	}
	return true
}

// Less orders listings by the query's sort with id ascending as tie-break.
func (q ListingQuery) Less(a, b *Listing) bool {
	switch q.Sort {
	case SortPriceLow:
		if a.AskingPrice != b.AskingPrice {
			return a.AskingPrice < b.AskingPrice
		}
	case SortPriceHigh:
		if a.AskingPrice != b.AskingPrice {
			return a.AskingPrice > b.AskingPrice
		}
	case SortROI:
		ra, rb := floatOrZero(a.ProjectedROI), floatOrZero(b.ProjectedROI)
		if ra != rb {
			return ra > rb
		}
	case SortPopular:
		if a.ViewsCount != b.ViewsCount {
			return a.ViewsCount > b.ViewsCount
		}
	default:
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
	}
	return bytes.Compare(a.ID[:], b.ID[:]) < 0
}

// CacheParams flattens the query into a stable key/value set.
func (q ListingQuery) CacheParams() map[string]string {
	p := map[string]string{
		"view":     q.View.String(),
		"status":   string(q.EffectiveStatus()),
		"category": q.Category,
		"type":     q.Type,
		"district": q.District,
		"search":   strings.ToLower(q.Search),
		"verified": strconv.FormatBool(q.VerifiedOnly),
		"sort":     string(q.Sort),
		"limit":    strconv.Itoa(q.Limit),
		"offset":   strconv.Itoa(q.Offset),
	}
	if q.MinPrice != nil {
		p["min_price"] = strconv.FormatFloat(*q.MinPrice, 'f', -1, 64)
	}
	if q.MaxPrice != nil {
		p["max_price"] = strconv.FormatFloat(*q.MaxPrice, 'f', -1, 64)
	}
	if q.View == ViewOwner {
		p["owner"] = q.OwnerID.String()
	}
	return p
}

func floatOrZero(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// ListingPage is one page of a listing query.
type ListingPage struct {
	Listings []Listing `json:"listings"`
	Total    int64     `json:"total"`
}
