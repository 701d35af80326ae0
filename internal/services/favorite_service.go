package services

import (
	"context"
	"errors"

	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/identity"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/models"
	"github.com/google/uuid"
)

var (
	ErrAlreadyFavorited = apperr.Conflict("already in favorites")
	ErrFavoriteNotFound = apperr.NotFound("favorite not found")
)

type FavoriteService struct {
	store FavoriteStore
}

func NewFavoriteService(store FavoriteStore) *FavoriteService {
	return &FavoriteService{store: store}
}

func (s *FavoriteService) Add(ctx context.Context, caller identity.Caller, listingID uuid.UUID) (*models.Favorite, error) {
	if err := requireAuthenticated(caller); err != nil {
		return nil, err
	}
	if listingID == uuid.Nil {
		return nil, apperr.Validation("listing_id is required")
	}

	fav := &models.Favorite{UserID: caller.ID, ListingID: listingID}
	err := s.store.CreateFavorite(ctx, fav, func(listing *models.Listing) error {
		if !canSee(caller, listing) {
			return ErrListingNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, ErrAlreadyFavorited
		}
		return nil, err
	}
	return fav, nil
}

// List returns the caller's favorites, newest first. Listings that are no
// longer addressable by the caller are left out of the payload.
func (s *FavoriteService) List(ctx context.Context, caller identity.Caller) ([]models.Favorite, error) {
	if err := requireAuthenticated(caller); err != nil {
		return nil, err
	}
	favorites, err := s.store.ListFavorites(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	for i := range favorites {
		if l := favorites[i].Listing; l != nil && !canSee(caller, l) {
			favorites[i].Listing = nil
		}
	}
	return favorites, nil
}

// Remove deletes one of the caller's favorites. Other users' favorites
// are reported as not found.
func (s *FavoriteService) Remove(ctx context.Context, caller identity.Caller, id uuid.UUID) error {
	if err := requireAuthenticated(caller); err != nil {
		return err
	}
	return s.store.DeleteFavorite(ctx, id, func(fav *models.Favorite) error {
		if fav.UserID != caller.ID {
			return ErrFavoriteNotFound
		}
		return nil
	})
}
