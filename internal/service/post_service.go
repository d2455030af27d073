// Package service holds business logic between HTTP handlers and
// repositories. Validation failures surface as *models.AppError.
package service

import (
	"context"
	"strings"

	"atelier/internal/middleware"
	"atelier/internal/models"
	"atelier/internal/observability"
	"atelier/internal/repository"
)

type PostService struct {
	postRepo repository.PostRepository
}

type CreatePostInput struct {
	AuthorID      uint
	Title         string
	Content       string
	Category      string
	ImageURLs     []string
	ThumbnailURLs []string
	LocationName  string
	Lat           *float64
	Lng           *float64
	IsPublished   bool
}

type UpdatePostInput struct {
	PostID        uint
	Title         *string
	Content       *string
	Category      *string
	ImageURLs     []string
	ThumbnailURLs []string
	LocationName  *string
	Lat           *float64
	Lng           *float64
	ClearLocation bool
	IsPublished   *bool
}

// ListPostsInput selects one page of the public or admin post listing.
type ListPostsInput struct {
	Filter models.PostFilter
	Limit  int
	Offset int
}

// PostPage is one page of a listing plus the data a client needs to keep
// paginating: the total matching count and whether more pages remain.
type PostPage struct {
	Posts      []*models.Post `json:"posts"`
	TotalCount int64          `json:"total_count"`
	HasMore    bool           `json:"has_more"`
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

// ListPosts returns one page and the total for the same filter. HasMore is
// derived from offset, not from page fullness, so a final exactly-full page
// still terminates pagination.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) (*PostPage, error) {
	total, err := s.postRepo.Count(ctx, in.Filter)
	if err != nil {
		return nil, err
	}
	posts, err := s.postRepo.List(ctx, in.Filter, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	observability.FeedPagesLoaded.WithLabelValues("merged").Inc()
	return &PostPage{
		Posts:      posts,
		TotalCount: total,
		HasMore:    int64(in.Offset+len(posts)) < total,
	}, nil
}

func (s *PostService) SearchPosts(ctx context.Context, query string, limit, offset int) (*PostPage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	f := models.PostFilter{Search: query, Sort: models.SortLatest}
	return s.ListPosts(ctx, ListPostsInput{Filter: f, Limit: limit, Offset: offset})
}

// GetPost loads one post without touching its view count (admin edit forms,
// internal lookups).
func (s *PostService) GetPost(ctx context.Context, id uint, includeUnpublished bool) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id, includeUnpublished)
}

// ViewPost loads one post the way the public detail page does: every load
// counts a view, owner visits and repeat visits included. The increment is
// applied before the read so the response already carries the new count.
func (s *PostService) ViewPost(ctx context.Context, id uint, includeUnpublished bool) (*models.Post, error) {
	if err := s.postRepo.IncrementViewCount(ctx, id); err != nil {
		// A failed counter update must not break the page.
		middleware.Logger.WarnContext(ctx, "failed to increment view count",
			"post_id", id, "error", err)
	} else {
		observability.PostViews.WithLabelValues("ok").Inc()
	}
	return s.postRepo.GetByID(ctx, id, includeUnpublished)
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	category, err := validatePostFields(in.Title, in.Content, in.Category)
	if err != nil {
		return nil, err
	}
	if err := validateCoordinates(in.Lat, in.Lng); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:         strings.TrimSpace(in.Title),
		Content:       in.Content,
		Category:      category,
		ImageURLs:     in.ImageURLs,
		ThumbnailURLs: in.ThumbnailURLs,
		LocationName:  strings.TrimSpace(in.LocationName),
		Lat:           in.Lat,
		Lng:           in.Lng,
		AuthorID:      in.AuthorID,
		IsPublished:   in.IsPublished,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, true)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, true)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		post.Title = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		post.Content = *in.Content
	}
	if in.Category != nil {
		category, ok := models.ParseCategory(*in.Category)
		if !ok {
			return nil, models.NewValidationError("Invalid category")
		}
		post.Category = category
	}
	if in.ImageURLs != nil {
		post.ImageURLs = in.ImageURLs
	}
	if in.ThumbnailURLs != nil {
		post.ThumbnailURLs = in.ThumbnailURLs
	}
	if in.ClearLocation {
		post.LocationName = ""
		post.Lat = nil
		post.Lng = nil
	} else {
		if in.LocationName != nil {
			post.LocationName = strings.TrimSpace(*in.LocationName)
		}
		if in.Lat != nil {
			post.Lat = in.Lat
		}
		if in.Lng != nil {
			post.Lng = in.Lng
		}
	}
	if in.IsPublished != nil {
		post.IsPublished = *in.IsPublished
	}

	if _, err := validatePostFields(post.Title, post.Content, string(post.Category)); err != nil {
		return nil, err
	}
	if err := validateCoordinates(post.Lat, post.Lng); err != nil {
		return nil, err
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, true)
}

func (s *PostService) DeletePost(ctx context.Context, id uint) error {
	if _, err := s.postRepo.GetByID(ctx, id, true); err != nil {
		return err
	}
	return s.postRepo.Delete(ctx, id)
}

func validatePostFields(title, content, rawCategory string) (models.Category, error) {
	const maxTitleLen = 300
	const maxContentLen = 100000

	title = strings.TrimSpace(title)
	if title == "" {
		return "", models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return "", models.NewValidationError("Title too long (max 300 characters)")
	}
	if content == "" {
		return "", models.NewValidationError("Content is required")
	}
	if len(content) > maxContentLen {
		return "", models.NewValidationError("Content too long (max 100000 characters)")
	}
	category, ok := models.ParseCategory(rawCategory)
	if !ok {
		return "", models.NewValidationError("Invalid category")
	}
	return category, nil
}

func validateCoordinates(lat, lng *float64) error {
	if (lat == nil) != (lng == nil) {
		return models.NewValidationError("lat and lng must be provided together")
	}
	if lat == nil {
		return nil
	}
	if *lat < -90 || *lat > 90 {
		return models.NewValidationError("lat must be between -90 and 90")
	}
	if *lng < -180 || *lng > 180 {
		return models.NewValidationError("lng must be between -180 and 180")
	}
	return nil
}
