package handlers

import (
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/dto"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/identity"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/models"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ListingHandler struct {
	listingService *services.ListingService
}

func NewListingHandler(listingService *services.ListingService) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

// parseListingQuery reads the marketplace filters shared by every list view.
func parseListingQuery(c *fiber.Ctx, view models.ListingView) (models.ListingQuery, error) {
	q := models.ListingQuery{
		View:         view,
		Status:       models.ListingStatus(c.Query("status")),
		Category:     c.Query("category"),
		Type:         c.Query("type"),
		District:     c.Query("district"),
		Search:       c.Query("search"),
		VerifiedOnly: c.QueryBool("verified_only", false),
		Sort:         models.ListingSort(c.Query("sort")),
	}

	var err error
	if q.MinPrice, err = queryFloat(c, "min_price"); err != nil {
		return q, err
	}
	if q.MaxPrice, err = queryFloat(c, "max_price"); err != nil {
		return q, err
	}
	if q.Limit, err = queryInt(c, "limit", models.DefaultListingLimit); err != nil {
		return q, err
	}
	if q.Offset, err = queryInt(c, "offset", 0); err != nil {
		return q, err
	}
	return q, nil
}

func (h *ListingHandler) list(c *fiber.Ctx, view models.ListingView) error {
	q, err := parseListingQuery(c, view)
	if err != nil {
		return respondError(c, err)
	}

	resp, err := h.listingService.List(c.UserContext(), identity.FromCtx(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// List is the public marketplace.
func (h *ListingHandler) List(c *fiber.Ctx) error {
	return h.list(c, models.ViewPublic)
}

func (h *ListingHandler) MyListings(c *fiber.Ctx) error {
	return h.list(c, models.ViewOwner)
}

func (h *ListingHandler) All(c *fiber.Ctx) error {
	return h.list(c, models.ViewAdmin)
}

func (h *ListingHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id", services.ErrListingNotFound)
	if err != nil {
		return respondError(c, err)
	}

	listing, err := h.listingService.Get(c.UserContext(), identity.FromCtx(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewListingResponse(listing))
}

func (h *ListingHandler) Create(c *fiber.Ctx) error {
	var req dto.ListingRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	listing, err := h.listingService.Create(c.UserContext(), identity.FromCtx(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewListingResponse(listing))
}

func (h *ListingHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id", services.ErrListingNotFound)
	if err != nil {
		return respondError(c, err)
	}

	var req dto.ListingRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	listing, err := h.listingService.Update(c.UserContext(), identity.FromCtx(c), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewListingResponse(listing))
}

func (h *ListingHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id", services.ErrListingNotFound)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.listingService.Delete(c.UserContext(), identity.FromCtx(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Listing deleted successfully"})
}
