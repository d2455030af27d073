package server

import (
	"io"

	"atelier/internal/models"
	"atelier/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetOwnerProfile handles GET /api/profile, the public owner profile shown
// on the home page.
func (s *Server) GetOwnerProfile(c *fiber.Ctx) error {
	profile, err := s.profileService.GetOwnerProfile(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(profile)
}

// GetSiteSettings handles GET /api/site. Clients use map_enabled to decide
// whether to render a location map or a placeholder.
func (s *Server) GetSiteSettings(c *fiber.Ctx) error {
	settings := fiber.Map{
		"map_enabled": s.config.MapEnabled(),
	}
	if s.config.MapEnabled() {
		settings["map_api_key"] = s.config.MapAPIKey
	}
	return c.JSON(settings)
}

// GetMyProfile handles GET /api/admin/profile
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	profile, err := s.profileService.GetProfile(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(profile)
}

// UpdateMyProfile handles PUT /api/admin/profile
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Username *string `json:"username"`
		Bio      *string `json:"bio"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.profileService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:   userID,
		Username: req.Username,
		Bio:      req.Bio,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(profile)
}

// UploadAvatar handles POST /api/admin/profile/avatar (multipart form,
// field "avatar").
func (s *Server) UploadAvatar(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Avatar file is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Could not read uploaded file"))
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	profile, err := s.profileService.UploadAvatar(c.Context(), userID,
		fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(profile)
}

// DeleteAvatar handles DELETE /api/admin/profile/avatar
func (s *Server) DeleteAvatar(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	profile, err := s.profileService.RemoveAvatar(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(profile)
}

// GetDashboardStats handles GET /api/admin/stats
func (s *Server) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := s.statsService.Dashboard(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(stats)
}
