package handlers

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/dto"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/identity"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/storage"
	"github.com/gofiber/fiber/v2"
)

type UploadHandler struct {
	store   *storage.LocalStore
	baseURL string
}

// NewUploadHandler serves uploads. With an empty baseURL the public URL is
// built from the request's scheme and host.
func NewUploadHandler(store *storage.LocalStore, baseURL string) *UploadHandler {
	return &UploadHandler{store: store, baseURL: baseURL}
}

func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return respondError(c, storage.ErrNoFile)
	}

	saved, err := h.store.Save(fh)
	if err != nil {
		return respondError(c, err)
	}

	base := h.baseURL
	if base == "" {
		base = c.BaseURL()
	}
	slog.Info("file uploaded", "user_id", identity.FromCtx(c).ID.String(), "file", saved.Name, "size", saved.Size)

	return c.Status(fiber.StatusCreated).JSON(dto.UploadResponse{
		Message:  "File uploaded successfully",
		URL:      base + saved.Path,
		FilePath: saved.Path,
	})
}
