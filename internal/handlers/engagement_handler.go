package handlers

import (
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/dto"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/identity"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/services"
	"github.com/gofiber/fiber/v2"
)

type FavoriteHandler struct {
	favoriteService *services.FavoriteService
}

func NewFavoriteHandler(favoriteService *services.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

func (h *FavoriteHandler) Add(c *fiber.Ctx) error {
	var req dto.FavoriteRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	fav, err := h.favoriteService.Add(c.UserContext(), identity.FromCtx(c), req.ListingID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewFavoriteResponse(fav))
}

func (h *FavoriteHandler) List(c *fiber.Ctx) error {
	favorites, err := h.favoriteService.List(c.UserContext(), identity.FromCtx(c))
	if err != nil {
		return respondError(c, err)
	}

	out := make([]dto.FavoriteResponse, 0, len(favorites))
	for i := range favorites {
		out = append(out, dto.NewFavoriteResponse(&favorites[i]))
	}
	return c.JSON(fiber.Map{"favorites": out})
}

func (h *FavoriteHandler) Remove(c *fiber.Ctx) error {
	id, err := paramID(c, "id", services.ErrFavoriteNotFound)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.favoriteService.Remove(c.UserContext(), identity.FromCtx(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Removed from favorites"})
}

type InquiryHandler struct {
	inquiryService *services.InquiryService
}

func NewInquiryHandler(inquiryService *services.InquiryService) *InquiryHandler {
	return &InquiryHandler{inquiryService: inquiryService}
}

func (h *InquiryHandler) Create(c *fiber.Ctx) error {
	var req dto.InquiryRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	inq, err := h.inquiryService.Create(c.UserContext(), identity.FromCtx(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inq)
}

func (h *InquiryHandler) List(c *fiber.Ctx) error {
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		return respondError(c, err)
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return respondError(c, err)
	}

	inquiries, err := h.inquiryService.List(c.UserContext(), identity.FromCtx(c), c.Query("role"), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"inquiries": inquiries})
}

func (h *InquiryHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id", services.ErrInquiryNotFound)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.inquiryService.Delete(c.UserContext(), identity.FromCtx(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Inquiry deleted successfully"})
}
