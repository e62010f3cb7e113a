package server

import (
	"tracemap/internal/models"
	"tracemap/internal/service"

	"github.com/gofiber/fiber/v2"
)

// PresignUpload issues a time-limited URL the client PUTs a trace image to
// (POST /api/uploads)
func (s *Server) PresignUpload(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req struct {
		ContentType string `json:"contentType"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	presigned, err := s.uploadService.PresignUpload(ctx, service.PresignUploadInput{
		UserID:      currentUserID(c),
		ContentType: req.ContentType,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(presigned)
}
