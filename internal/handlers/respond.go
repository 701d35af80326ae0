package handlers

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/dto"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/identity"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// respondError writes err as an ErrorResponse. Server-side failures are
// logged and their details withheld from the client.
func respondError(c *fiber.Ctx, err error) error {
	e := apperr.From(err)
	status := e.HTTPStatus()
	resp := dto.ErrorResponse{Error: true, Kind: string(e.Kind), Message: e.Message}

	var rejection services.ContentRejection
	if errors.As(err, &rejection) {
		resp.Reason = string(rejection)
	}

	if status >= fiber.StatusInternalServerError {
		caller := identity.FromCtx(c)
		slog.Error("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", requestID(c),
			"user_id", caller.ID.String(),
			"error", err.Error(),
		)
		resp.Message = "Internal server error"
	}

	return c.Status(status).JSON(resp)
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Kind: string(apperr.KindValidation), Message: "Invalid request body",
	})
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}

// paramID parses a UUID route parameter. A malformed id cannot name an
// existing row, so it is reported as notFound.
func paramID(c *fiber.Ctx, name string, notFound error) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, notFound
	}
	return id, nil
}

// queryInt reads an integer query parameter, falling back on absence.
func queryInt(c *fiber.Ctx, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validation(name + " must be an integer")
	}
	return n, nil
}

func queryFloat(c *fiber.Ctx, name string) (*float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperr.Validation(name + " must be a number")
	}
	return &f, nil
}
