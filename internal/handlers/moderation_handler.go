package handlers

import (
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/dto"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/identity"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ModerationHandler struct {
	moderationService *services.ModerationService
}

func NewModerationHandler(moderationService *services.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderationService: moderationService}
}

func (h *ModerationHandler) SetStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id", services.ErrListingNotFound)
	if err != nil {
		return respondError(c, err)
	}

	var req dto.SetStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	listing, err := h.moderationService.SetListingStatus(c.UserContext(), identity.FromCtx(c), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewListingResponse(listing))
}

func (h *ModerationHandler) Resubmit(c *fiber.Ctx) error {
	id, err := paramID(c, "id", services.ErrListingNotFound)
	if err != nil {
		return respondError(c, err)
	}

	// The note is optional, so an empty body is fine.
	var req dto.ResubmitRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
	}

	listing, err := h.moderationService.Resubmit(c.UserContext(), identity.FromCtx(c), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewListingResponse(listing))
}

func (h *ModerationHandler) Reviews(c *fiber.Ctx) error {
	id, err := paramID(c, "id", services.ErrListingNotFound)
	if err != nil {
		return respondError(c, err)
	}

	reviews, err := h.moderationService.Reviews(c.UserContext(), identity.FromCtx(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"reviews": reviews})
}
