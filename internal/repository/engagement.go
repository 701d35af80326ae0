package repository

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (s *GormStore) CreateFavorite(ctx context.Context, fav *models.Favorite, guard func(*models.Listing) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var listing models.Listing
		if err := tx.First(&listing, "id = ?", fav.ListingID).Error; err != nil {
			return translate(err, "listing")
		}
		if err := guard(&listing); err != nil {
			return err
		}
		if err := tx.Create(fav).Error; err != nil {
			return translate(err, "favorite")
		}
		fav.Listing = &listing
		return nil
	})
}

func (s *GormStore) ListFavorites(ctx context.Context, userID uuid.UUID) ([]models.Favorite, error) {
	favorites := make([]models.Favorite, 0)
	err := s.db.WithContext(ctx).
		Preload("Listing").
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id ASC").
		Find(&favorites).Error
	if err != nil {
		return nil, translate(err, "favorites")
	}
	return favorites, nil
}

func (s *GormStore) DeleteFavorite(ctx context.Context, id uuid.UUID, guard func(*models.Favorite) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var fav models.Favorite
		if err := tx.First(&fav, "id = ?", id).Error; err != nil {
			return translate(err, "favorite")
		}
		if err := guard(&fav); err != nil {
			return err
		}
		return translate(tx.Delete(&fav).Error, "favorite")
	})
}

func (s *GormStore) CreateInquiry(ctx context.Context, inq *models.Inquiry, guard func(*models.Listing) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var listing models.Listing
		if err := forUpdate(tx).First(&listing, "id = ?", inq.ListingID).Error; err != nil {
			return translate(err, "listing")
		}
		if err := guard(&listing); err != nil {
			return err
		}

		inq.SellerID = listing.SellerID
		if err := tx.Create(inq).Error; err != nil {
			return translate(err, "inquiry")
		}

		result := tx.Model(&models.Listing{}).
			Where("id = ?", listing.ID).
			UpdateColumn("inquiries_count", gorm.Expr("inquiries_count + 1"))
		if result.Error != nil {
			return translate(result.Error, "listing")
		}
		if result.RowsAffected == 0 {
			return apperr.NotFound("listing not found")
		}
		return nil
	})
}

func (s *GormStore) ListInquiries(ctx context.Context, f models.InquiryFilter) ([]models.Inquiry, error) {
	query := s.db.WithContext(ctx).Model(&models.Inquiry{})
	if f.InvestorID != uuid.Nil {
		query = query.Where("investor_id = ?", f.InvestorID)
	}
	if f.SellerID != uuid.Nil {
		query = query.Where("seller_id = ?", f.SellerID)
	}
	if f.Participant != uuid.Nil {
		query = query.Where("(investor_id = ? OR seller_id = ?)", f.Participant, f.Participant)
	}
	if f.ListingID != uuid.Nil {
		query = query.Where("listing_id = ?", f.ListingID)
	}

	inquiries := make([]models.Inquiry, 0)
	err := query.Order("created_at DESC").Order("id ASC").
		Scopes(paginate(f.Limit, f.Offset)).
		Find(&inquiries).Error
	if err != nil {
		return nil, translate(err, "inquiries")
	}
	return inquiries, nil
}

func (s *GormStore) DeleteInquiry(ctx context.Context, id uuid.UUID, guard func(*models.Inquiry) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inq models.Inquiry
		if err := tx.First(&inq, "id = ?", id).Error; err != nil {
			return translate(err, "inquiry")
		}
		if err := guard(&inq); err != nil {
			return err
		}
		return translate(tx.Delete(&inq).Error, "inquiry")
	})
}
