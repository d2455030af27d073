package server

import (
	"atelier/internal/models"
	"atelier/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/posts/:id/comments, returning root comments
// each with their replies.
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	threads, err := s.commentService.ListThreads(c.Context(), postID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"comments": threads})
}

// CreateComment handles POST /api/posts/:id/comments. Anonymous visitors
// supply a nickname and password; the logged-in owner comments under their
// profile name.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content  string `json:"content"`
		ParentID *uint  `json:"parent_id"`
		Nickname string `json:"nickname"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	userID, authenticated := s.optionalUserID(c)

	comment, err := s.commentService.CreateComment(c.Context(), service.CreateCommentInput{
		PostID:        postID,
		ParentID:      req.ParentID,
		Content:       req.Content,
		Nickname:      req.Nickname,
		Password:      req.Password,
		Authenticated: authenticated,
		UserID:        userID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// AdminDeleteComment handles DELETE /api/admin/comments/:id
func (s *Server) AdminDeleteComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.commentService.DeleteComment(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Comment deleted"})
}
