package server

import (
	"tracemap/internal/models"
	"tracemap/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile returns the authenticated user's profile, creating the account
// on first sight (GET /api/users/me)
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := s.userService.GetOrCreate(ctx, currentUserID(c), currentUserEmail(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile updates the authenticated user's display name or avatar
// (PATCH /api/users/me)
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req struct {
		Name  *string `json:"name"`
		Image *string `json:"image"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(ctx, service.UpdateProfileInput{
		UserID: currentUserID(c),
		Name:   req.Name,
		Image:  req.Image,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// DeleteMyAccount removes the authenticated user and everything they left
// behind (DELETE /api/users/me)
func (s *Server) DeleteMyAccount(c *fiber.Ctx) error {
	ctx := c.UserContext()

	if err := s.userService.DeleteAccount(ctx, currentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
