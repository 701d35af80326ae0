package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/models"
)

// ListingRequest is the body of create and update calls. Status, seller
// and counter fields are not part of it; clients that send them are ignored.
type ListingRequest struct {
	Title                 *string                   `json:"title"`
	Type                  *string                   `json:"type"`
	Category              *string                   `json:"category"`
	Description           *string                   `json:"description"`
	ShortDescription      *string                   `json:"short_description"`
	AskingPrice           *float64                  `json:"asking_price"`
	MinimumInvestment     *float64                  `json:"minimum_investment"`
	Location              *string                   `json:"location"`
	District              *string                   `json:"district"`
	Images                *[]string                 `json:"images"`
	Documents             *[]models.ListingDocument `json:"documents"`
	RDBRegistrationNumber *string                   `json:"rdb_registration_number"`
	RRATIN                *string                   `json:"rra_tin"`
	LandTitleNumber       *string                   `json:"land_title_number"`
	ProjectedROI          *float64                  `json:"projected_roi"`
	YearEstablished       *int                      `json:"year_established"`
	Employees             *int                      `json:"employees"`
	AnnualRevenue         *float64                  `json:"annual_revenue"`
	Highlights            *[]string                 `json:"highlights"`

	// Cleared holds the optional numeric fields sent as an explicit null.
	Cleared []string `json:"-"`
}

// UnmarshalJSON decodes the request and records which clearable fields were
// sent as null, since a nil pointer alone cannot tell null from absent.
func (r *ListingRequest) UnmarshalJSON(data []byte) error {
	type plain ListingRequest
	if err := json.Unmarshal(data, (*plain)(r)); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Cleared = nil
	for _, field := range models.ClearableListingColumns {
		if v, ok := raw[field]; ok && bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			r.Cleared = append(r.Cleared, field)
		}
	}
	return nil
}

func (r *ListingRequest) Patch() models.ListingPatch {
	return models.ListingPatch{
		Title:                 r.Title,
		Type:                  r.Type,
		Category:              r.Category,
		Description:           r.Description,
		ShortDescription:      r.ShortDescription,
		AskingPrice:           r.AskingPrice,
		MinimumInvestment:     r.MinimumInvestment,
		Location:              r.Location,
		District:              r.District,
		Images:                r.Images,
		Documents:             r.Documents,
		RDBRegistrationNumber: r.RDBRegistrationNumber,
		RRATIN:                r.RRATIN,
		LandTitleNumber:       r.LandTitleNumber,
		ProjectedROI:          r.ProjectedROI,
		YearEstablished:       r.YearEstablished,
		Employees:             r.Employees,
		AnnualRevenue:         r.AnnualRevenue,
		Highlights:            r.Highlights,
		Clear:                 r.Cleared,
	}
}

type ListingResponse struct {
	models.Listing
	CreatedDate time.Time `json:"created_date"`
}

func NewListingResponse(l *models.Listing) ListingResponse {
	return ListingResponse{Listing: *l, CreatedDate: l.CreatedAt}
}

type ListingListResponse struct {
	Listings []ListingResponse `json:"listings"`
	Total    int64             `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

func NewListingListResponse(listings []models.Listing, total int64, limit, offset int) ListingListResponse {
	out := make([]ListingResponse, 0, len(listings))
	for i := range listings {
		out = append(out, NewListingResponse(&listings[i]))
	}
	return ListingListResponse{Listings: out, Total: total, Limit: limit, Offset: offset}
}
