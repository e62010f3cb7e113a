package server

import (
	"tracemap/internal/models"
	"tracemap/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment posts a comment or a one-level reply on a trace
// (POST /api/traces/:id/comments)
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)

	traceID, err := s.parseUUID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content  string  `json:"content"`
		ParentID *string `json:"parentId"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if _, err := s.userService.GetOrCreate(ctx, userID, currentUserEmail(c)); err != nil {
		return respondError(c, err)
	}

	comment, err := s.commentService.CreateComment(ctx, service.CreateCommentInput{
		UserID:   userID,
		TraceID:  traceID,
		Content:  req.Content,
		ParentID: req.ParentID,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments returns the comments of a trace grouped into threads
// (GET /api/traces/:id/comments)
func (s *Server) GetComments(c *fiber.Ctx) error {
	ctx := c.UserContext()

	traceID, err := s.parseUUID(c, "id")
	if err != nil {
		return nil
	}

	threads, err := s.commentService.ListThreads(ctx, traceID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(threads)
}
