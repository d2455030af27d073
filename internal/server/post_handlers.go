package server

import (
	"atelier/internal/content"
	"atelier/internal/models"
	"atelier/internal/service"

	"github.com/gofiber/fiber/v2"
)

// postResponse is a post plus its derived presentation fields.
type postResponse struct {
	*models.Post
	ContentHTML string `json:"content_html"`
	Excerpt     string `json:"excerpt"`
	ReadTime    string `json:"read_time"`
}

const excerptLen = 160

func renderPost(p *models.Post) *postResponse {
	return &postResponse{
		Post:        p,
		ContentHTML: content.RenderHTML(p.Content),
		Excerpt:     content.Excerpt(p.Content, excerptLen),
		ReadTime:    content.ReadTime(p.Content),
	}
}

func renderPage(page *service.PostPage) fiber.Map {
	rendered := make([]*postResponse, len(page.Posts))
	for i, p := range page.Posts {
		rendered[i] = renderPost(p)
	}
	return fiber.Map{
		"posts":       rendered,
		"total_count": page.TotalCount,
		"has_more":    page.HasMore,
	}
}

// GetPosts handles GET /api/posts?category=&sort=&limit=&offset=
func (s *Server) GetPosts(c *fiber.Ctx) error {
	filter := parseListFilter(c)
	page := parsePagination(c, defaultPageSize)

	result, err := s.postService.ListPosts(c.Context(), service.ListPostsInput{
		Filter: filter,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(renderPage(result))
}

// SearchPosts handles GET /api/posts/search?q=...
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	page := parsePagination(c, defaultPageSize)

	result, err := s.postService.SearchPosts(c.Context(), c.Query("q"), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(renderPage(result))
}

// GetPost handles GET /api/posts/:id. Every load counts as a view.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.ViewPost(c.Context(), id, false)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(renderPost(post))
}

// AdminGetPosts handles GET /api/admin/posts, drafts included.
func (s *Server) AdminGetPosts(c *fiber.Ctx) error {
	filter := parseListFilter(c)
	filter.IncludeUnpublished = true
	page := parsePagination(c, defaultPageSize)

	result, err := s.postService.ListPosts(c.Context(), service.ListPostsInput{
		Filter: filter,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(renderPage(result))
}

// AdminGetPost handles GET /api/admin/posts/:id without counting a view.
func (s *Server) AdminGetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), id, true)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(renderPost(post))
}

type postPayload struct {
	Title         *string  `json:"title"`
	Content       *string  `json:"content"`
	Category      *string  `json:"category"`
	ImageURLs     []string `json:"image_urls"`
	ThumbnailURLs []string `json:"thumbnail_urls"`
	LocationName  *string  `json:"location_name"`
	Lat           *float64 `json:"lat"`
	Lng           *float64 `json:"lng"`
	ClearLocation bool     `json:"clear_location"`
	IsPublished   *bool    `json:"is_published"`
}

// AdminCreatePost handles POST /api/admin/posts
func (s *Server) AdminCreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req postPayload
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	in := service.CreatePostInput{
		AuthorID:      userID,
		ImageURLs:     req.ImageURLs,
		ThumbnailURLs: req.ThumbnailURLs,
		Lat:           req.Lat,
		Lng:           req.Lng,
	}
	if req.Title != nil {
		in.Title = *req.Title
	}
	if req.Content != nil {
		in.Content = *req.Content
	}
	if req.Category != nil {
		in.Category = *req.Category
	}
	if req.LocationName != nil {
		in.LocationName = *req.LocationName
	}
	if req.IsPublished != nil {
		in.IsPublished = *req.IsPublished
	}

	post, err := s.postService.CreatePost(c.Context(), in)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(renderPost(post))
}

// AdminUpdatePost handles PUT /api/admin/posts/:id
func (s *Server) AdminUpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req postPayload
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		PostID:        id,
		Title:         req.Title,
		Content:       req.Content,
		Category:      req.Category,
		ImageURLs:     req.ImageURLs,
		ThumbnailURLs: req.ThumbnailURLs,
		LocationName:  req.LocationName,
		Lat:           req.Lat,
		Lng:           req.Lng,
		ClearLocation: req.ClearLocation,
		IsPublished:   req.IsPublished,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(renderPost(post))
}

// AdminDeletePost handles DELETE /api/admin/posts/:id
func (s *Server) AdminDeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Post deleted"})
}
