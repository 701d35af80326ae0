package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ListingDocument references an uploaded file attached to a listing.
type ListingDocument struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

// Listing is an investment opportunity submitted by a seller.
type Listing struct {
	ID                    uuid.UUID                            `gorm:"type:uuid;primaryKey" json:"id"`
	SellerID              uuid.UUID                            `gorm:"type:uuid;not null;index" json:"seller_id"`
	Title                 string                               `gorm:"size:255;not null" json:"title"`
	Type                  string                               `gorm:"size:50;not null;index" json:"type"`
	Category              string                               `gorm:"size:50;not null;index" json:"category"`
	Description           string                               `gorm:"type:text;not null" json:"description"`
	ShortDescription      string                               `gorm:"type:text" json:"short_description"`
	AskingPrice           float64                              `gorm:"type:decimal(15,2);not null" json:"asking_price"`
	MinimumInvestment     *float64                             `gorm:"type:decimal(15,2)" json:"minimum_investment"`
	Location              string                               `gorm:"size:255;not null" json:"location"`
	District              string                               `gorm:"size:50;index" json:"district"`
	Images                datatypes.JSONSlice[string]          `json:"images"`
	Documents             datatypes.JSONSlice[ListingDocument] `json:"documents"`
	RDBRegistrationNumber string                               `gorm:"column:rdb_registration_number;size:100" json:"rdb_registration_number"`
	RRATIN                string                               `gorm:"column:rra_tin;size:50" json:"rra_tin"`
	LandTitleNumber       string                               `gorm:"size:100" json:"land_title_number"`
	Status                ListingStatus                        `gorm:"size:50;not null;default:'pending_review';index" json:"status"`
	VerificationStatus    VerificationStatus                   `gorm:"size:50;not null;default:'unverified'" json:"verification_status"`
	Featured              bool                                 `gorm:"default:false" json:"featured"`
	ViewsCount            int64                                `gorm:"not null;default:0" json:"views_count"`
	InquiriesCount        int64                                `gorm:"not null;default:0" json:"inquiries_count"`
	ProjectedROI          *float64                             `gorm:"column:projected_roi;type:decimal(5,2)" json:"projected_roi"`
	YearEstablished       *int                                 `json:"year_established"`
	Employees             *int                                 `json:"employees"`
	AnnualRevenue         *float64                             `gorm:"type:decimal(15,2)" json:"annual_revenue"`
	Highlights            datatypes.JSONSlice[string]          `json:"highlights"`
	CreatedAt             time.Time                            `gorm:"index" json:"created_at"`
	UpdatedAt             time.Time                            `json:"updated_at"`
	Seller                User                                 `gorm:"foreignKey:SellerID" json:"-"`
}

func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = NewID()
	}
	return nil
}

// HasRegistrationNumber reports whether a government registration number is on file.
func (l *Listing) HasRegistrationNumber() bool {
	return strings.TrimSpace(l.RDBRegistrationNumber) != ""
}

// OwnedBy reports whether userID is the listing's seller.
func (l *Listing) OwnedBy(userID uuid.UUID) bool {
	return userID != uuid.Nil && l.SellerID == userID
}
