package server

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"atelier/internal/cache"
	"atelier/internal/middleware"
	"atelier/internal/models"
	"atelier/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenIssuer   = "atelier-api"
	tokenAudience = "atelier-client"
	tokenLifetime = 7 * 24 * time.Hour
)

// Login handles POST /api/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Authenticate(c.Context(), req.Email, req.Password)
	if err != nil {
		return respondServiceError(c, err)
	}

	token, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Logout handles POST /api/auth/logout. The presented token's jti is
// blacklisted until the token would have expired on its own.
func (s *Server) Logout(c *fiber.Ctx) error {
	claims, ok := s.bearerClaims(c)
	if !ok {
		// AuthRequired already validated the token; treat a parse failure
		// here as an already-dead session.
		return c.JSON(fiber.Map{"message": "Logged out"})
	}

	jti, _ := claims["jti"].(string)
	if jti != "" && s.redis != nil {
		ttl := tokenLifetime
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			if remaining := time.Until(exp.Time); remaining > 0 {
				ttl = remaining
			}
		}
		if err := s.redis.Set(c.Context(), cache.BlacklistKey(jti), "1", ttl).Err(); err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "failed to blacklist token",
				"error", err)
		}
	}

	return c.JSON(fiber.Map{"message": "Logged out"})
}

// Session handles GET /api/auth/session, returning the logged-in admin and
// their profile.
func (s *Server) Session(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.userService.GetUser(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	// The profile may not exist yet on a fresh install.
	profile, err := s.profileService.GetProfile(c.Context(), userID)
	if err != nil {
		profile = nil
	}

	return c.JSON(fiber.Map{
		"user":    user,
		"profile": profile,
	})
}

// ChangePassword handles POST /api/auth/password
func (s *Server) ChangePassword(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
		ConfirmPassword string `json:"confirm_password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.NewPassword != req.ConfirmPassword {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Passwords do not match"))
	}

	err := s.userService.ChangePassword(c.Context(), service.ChangePasswordInput{
		UserID:          userID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Password updated"})
}

// bearerClaims re-parses the Authorization bearer token's claims. Only
// valid behind AuthRequired.
func (s *Server) bearerClaims(c *fiber.Ctx) (jwt.MapClaims, bool) {
	parts := strings.Split(c.Get("Authorization"), " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}
	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (any, error) {
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	return claims, ok
}

// generateToken creates a JWT token for the given user ID and username
func (s *Server) generateToken(userID uint, username string) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10),
		"username": username,
		"iss":      tokenIssuer,
		"aud":      tokenAudience,
		"exp":      now.Add(tokenLifetime).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      s.generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// generateJTI creates a unique JWT ID to prevent replay attacks
func (s *Server) generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
