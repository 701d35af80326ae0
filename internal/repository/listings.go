package repository

import (
	"context"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// listingFilter applies a ListingQuery's visibility and filters.
func listingFilter(q models.ListingQuery) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if q.View == models.ViewOwner {
			db = db.Where("seller_id = ?", q.OwnerID)
		}
		if st := q.EffectiveStatus(); st != "" {
			db = db.Where("status = ?", st)
		}
		if q.Category != "" {
			db = db.Where("category = ?", q.Category)
		}
		if q.Type != "" {
			db = db.Where("type = ?", q.Type)
		}
		if q.District != "" {
			db = db.Where("district = ?", q.District)
		}
		if q.MinPrice != nil {
			db = db.Where("asking_price >= ?", *q.MinPrice)
		}
		if q.MaxPrice != nil {
			db = db.Where("asking_price <= ?", *q.MaxPrice)
		}
		if q.VerifiedOnly {
			db = db.Where("verification_status IN ?", models.VerifiedTiers)
		}
		if q.Search != "" {
			pattern := "%" + escapeLike(q.Search) + "%"
			db = db.Where("(title ILIKE ? OR description ILIKE ?)", pattern, pattern)
		}
		return db
	}
}

// listingOrder sorts by the query's sort with id ascending as tie-break.
func listingOrder(sort models.ListingSort) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch sort {
		case models.SortPriceLow:
			db = db.Order("asking_price ASC")
		case models.SortPriceHigh:
			db = db.Order("asking_price DESC")
		case models.SortROI:
			db = db.Order("COALESCE(projected_roi, 0) DESC")
		case models.SortPopular:
			db = db.Order("views_count DESC")
		default:
			db = db.Order("created_at DESC")
		}
		return db.Order("id ASC")
	}
}

func paginate(limit, offset int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if limit > 0 {
			db = db.Limit(limit)
		}
		if offset > 0 {
			db = db.Offset(offset)
		}
		return db
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (s *GormStore) CreateListing(ctx context.Context, listing *models.Listing) error {
	return translate(s.db.WithContext(ctx).Create(listing).Error, "listing")
}

func (s *GormStore) GetListing(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	if err := s.db.WithContext(ctx).First(&listing, "id = ?", id).Error; err != nil {
		return nil, translate(err, "listing")
	}
	return &listing, nil
}

func (s *GormStore) ViewListing(ctx context.Context, id, viewerID uuid.UUID, asAdmin bool) (*models.Listing, error) {
	var listing models.Listing
	query := s.db.WithContext(ctx).Model(&listing).
		Clauses(clause.Returning{}).
		Where("id = ?", id)
	if !asAdmin {
		query = query.Where("(status = ? OR seller_id = ?)", models.StatusApproved, viewerID)
	}
	result := query.UpdateColumn("views_count", gorm.Expr("views_count + 1"))
	if result.Error != nil {
		return nil, translate(result.Error, "listing")
	}
	if result.RowsAffected == 0 {
		return nil, apperr.NotFound("listing not found")
	}
	return &listing, nil
}

func (s *GormStore) ListListings(ctx context.Context, q models.ListingQuery) ([]models.Listing, int64, error) {
	base := s.db.WithContext(ctx).Model(&models.Listing{}).Scopes(listingFilter(q))

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, translate(err, "listings")
	}

	listings := make([]models.Listing, 0)
	err := base.Session(&gorm.Session{}).
		Scopes(listingOrder(q.Sort), paginate(q.Limit, q.Offset)).
		Find(&listings).Error
	if err != nil {
		return nil, 0, translate(err, "listings")
	}
	return listings, total, nil
}

func (s *GormStore) UpdateListing(ctx context.Context, id uuid.UUID, fn func(*models.Listing) (models.ListingPatch, error)) (*models.Listing, error) {
	var updated models.Listing
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Listing
		if err := forUpdate(tx).First(&current, "id = ?", id).Error; err != nil {
			return translate(err, "listing")
		}
		patch, err := fn(&current)
		if err != nil {
			return err
		}
		cols := patch.Columns()
		if len(cols) == 0 {
			updated = current
			return nil
		}
		cols["updated_at"] = time.Now()
		updated = current
		return translate(tx.Model(&updated).
			Clauses(clause.Returning{}).
			Updates(cols).Error, "listing")
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *GormStore) TransitionListing(ctx context.Context, id uuid.UUID, fn func(*models.Listing) (models.StatusChange, error)) (*models.Listing, error) {
	var updated models.Listing
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Listing
		if err := forUpdate(tx).First(&current, "id = ?", id).Error; err != nil {
			return translate(err, "listing")
		}
		change, err := fn(&current)
		if err != nil {
			return err
		}

		cols := map[string]interface{}{
			"status":     change.Status,
			"updated_at": time.Now(),
		}
		if change.Verification != "" {
			cols["verification_status"] = change.Verification
		}

		updated = current
		result := tx.Model(&updated).
			Clauses(clause.Returning{}).
			Where("status = ?", current.Status).
			Updates(cols)
		if result.Error != nil {
			return translate(result.Error, "listing")
		}
		if result.RowsAffected == 0 {
			return apperr.Conflict("listing status changed concurrently")
		}

		if change.Review != nil {
			change.Review.ListingID = current.ID
			if err := tx.Create(change.Review).Error; err != nil {
				return translate(err, "listing review")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *GormStore) DeleteListing(ctx context.Context, id uuid.UUID, guard func(*models.Listing) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Listing
		if err := forUpdate(tx).First(&current, "id = ?", id).Error; err != nil {
			return translate(err, "listing")
		}
		if err := guard(&current); err != nil {
			return err
		}
		if err := tx.Where("listing_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return translate(err, "favorites")
		}
		if err := tx.Where("listing_id = ?", id).Delete(&models.Inquiry{}).Error; err != nil {
			return translate(err, "inquiries")
		}
		if err := tx.Where("listing_id = ?", id).Delete(&models.ListingReview{}).Error; err != nil {
			return translate(err, "listing reviews")
		}
		return translate(tx.Delete(&current).Error, "listing")
	})
}

func (s *GormStore) ListReviews(ctx context.Context, listingID uuid.UUID) ([]models.ListingReview, error) {
	reviews := make([]models.ListingReview, 0)
	err := s.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("created_at ASC").Order("id ASC").
		Find(&reviews).Error
	if err != nil {
		return nil, translate(err, "listing reviews")
	}
	return reviews, nil
}
