package server

import (
	"strconv"
	"time"

	"tracemap/internal/models"
	"tracemap/internal/service"

	"github.com/gofiber/fiber/v2"
)

// DiscoverTraces returns visible traces near the given point, sorted by
// distance (GET /api/traces?lat=..&lng=..)
func (s *Server) DiscoverTraces(c *fiber.Ctx) error {
	ctx := c.UserContext()

	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("lat query parameter is required"))
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("lng query parameter is required"))
	}

	traces, err := s.discoveryService.FindNearby(ctx, lat, lng)
	if err != nil {
		return respondError(c, err)
	}

	if traces == nil {
		traces = []*models.TraceWithDistance{}
	}
	return c.JSON(traces)
}

// CreateTrace leaves a new trace at a location (POST /api/traces)
func (s *Server) CreateTrace(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)

	var req struct {
		Title     string     `json:"title"`
		Content   string     `json:"content"`
		ImageURL  string     `json:"imageUrl"`
		Latitude  *float64   `json:"latitude"`
		Longitude *float64   `json:"longitude"`
		ExpiresAt *time.Time `json:"expiresAt"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Latitude == nil || req.Longitude == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("latitude and longitude are required"))
	}

	// The identity provider owns signup, so the local account may not exist
	// yet on a first write.
	if _, err := s.userService.GetOrCreate(ctx, userID, currentUserEmail(c)); err != nil {
		return respondError(c, err)
	}

	trace, err := s.traceService.CreateTrace(ctx, service.CreateTraceInput{
		UserID:    userID,
		Title:     req.Title,
		Content:   req.Content,
		ImageURL:  req.ImageURL,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(trace)
}

// GetTrace returns a single trace by ID (GET /api/traces/:id)
func (s *Server) GetTrace(c *fiber.Ctx) error {
	ctx := c.UserContext()

	traceID, err := s.parseUUID(c, "id")
	if err != nil {
		return nil
	}

	trace, err := s.traceService.GetTrace(ctx, traceID, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(trace)
}

// DeleteTrace soft-deletes a trace, owner only (DELETE /api/traces/:id)
func (s *Server) DeleteTrace(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)

	traceID, err := s.parseUUID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.traceService.DeleteTrace(ctx, traceID, userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// PatchTrace applies lifecycle updates to a trace. Restoring a soft-deleted
// trace is the only supported update (PATCH /api/traces/:id)
func (s *Server) PatchTrace(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)

	traceID, err := s.parseUUID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Restore bool `json:"restore"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if !req.Restore {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No supported update in request"))
	}

	trace, err := s.traceService.RestoreTrace(ctx, traceID, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(trace)
}

// GetMyTraces lists the authenticated user's own traces, newest first
// (GET /api/users/me/traces?includeDeleted=true)
func (s *Server) GetMyTraces(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)

	traces, err := s.traceService.ListOwned(ctx, service.ListOwnedInput{
		OwnerID:        userID,
		IncludeDeleted: c.QueryBool("includeDeleted", false),
	})
	if err != nil {
		return respondError(c, err)
	}

	if traces == nil {
		traces = []*models.Trace{}
	}
	return c.JSON(traces)
}
