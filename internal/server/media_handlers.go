package server

import (
	"fmt"
	"path/filepath"
	"strings"

	"bloghub/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const maxUploadSize = 5 << 20 // 5 MiB

var allowedUploadTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// UploadMedia stores an uploaded image in object storage and returns its URL.
// The object key is namespaced by the uploader.
func (s *Server) UploadMedia(c *fiber.Ctx) error {
	if s.media == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewInternalError(fmt.Errorf("object storage is not configured")))
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("A file is required"))
	}
	if fileHeader.Size > maxUploadSize {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("File must not exceed 5 MiB"))
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	contentType, ok := allowedUploadTypes[ext]
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unsupported file type"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	defer file.Close()

	key := fmt.Sprintf("uploads/%d/%s%s", userID(c), uuid.New().String(), ext)
	if err := s.media.Put(c.UserContext(), key, file, fileHeader.Size, contentType); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"key": key,
		"url": strings.TrimRight(s.config.MediaBaseURL, "/") + "/" + key,
	})
}
