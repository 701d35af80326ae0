package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Favorite is a user's bookmark of a listing, unique per (user, listing).
type Favorite struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorites_user_listing,priority:1" json:"user_id"`
	ListingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorites_user_listing,priority:2;index" json:"listing_id"`
	CreatedAt time.Time `json:"created_at"`
	Listing   *Listing  `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE" json:"listing,omitempty"`
}

func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = NewID()
	}
	return nil
}

const InquiryStatusNew = "new"

// Inquiry seeds a conversation between an investor and a listing's seller.
type Inquiry struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ListingID  uuid.UUID `gorm:"type:uuid;not null;index" json:"listing_id"`
	InvestorID uuid.UUID `gorm:"type:uuid;not null;index" json:"investor_id"`
	SellerID   uuid.UUID `gorm:"type:uuid;not null;index" json:"seller_id"`
	Subject    string    `gorm:"size:255" json:"subject"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	Status     string    `gorm:"size:30;not null;default:'new'" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Listing    *Listing  `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE" json:"-"`
}

func (i *Inquiry) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = NewID()
	}
	return nil
}

// ListingReview records one moderation decision on a listing.
type ListingReview struct {
	ID                 uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	ListingID          uuid.UUID          `gorm:"type:uuid;not null;index" json:"listing_id"`
	ActorID            uuid.UUID          `gorm:"type:uuid;not null;index" json:"actor_id"`
	FromStatus         ListingStatus      `gorm:"size:50;not null" json:"from_status"`
	ToStatus           ListingStatus      `gorm:"size:50;not null" json:"to_status"`
	VerificationStatus VerificationStatus `gorm:"size:50" json:"verification_status"`
	Note               string             `gorm:"size:1000" json:"note,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	Listing            *Listing           `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE" json:"-"`
}

func (r *ListingReview) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = NewID()
	}
	return nil
}
