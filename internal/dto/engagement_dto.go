package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/models"
	"github.com/google/uuid"
)

type FavoriteRequest struct {
	ListingID uuid.UUID `json:"listing_id"`
}

type FavoriteResponse struct {
	ID        uuid.UUID        `json:"id"`
	ListingID uuid.UUID        `json:"listing_id"`
	CreatedAt time.Time        `json:"created_at"`
	Listing   *ListingResponse `json:"listing,omitempty"`
}

func NewFavoriteResponse(f *models.Favorite) FavoriteResponse {
	resp := FavoriteResponse{ID: f.ID, ListingID: f.ListingID, CreatedAt: f.CreatedAt}
	if f.Listing != nil {
		l := NewListingResponse(f.Listing)
		resp.Listing = &l
	}
	return resp
}

type InquiryRequest struct {
	ListingID uuid.UUID `json:"listing_id"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
}

type UploadResponse struct {
	Message  string `json:"message"`
	URL      string `json:"url"`
	FilePath string `json:"file_path"`
}
