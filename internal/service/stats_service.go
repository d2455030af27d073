package service

import (
	"context"

	"atelier/internal/cache"
	"atelier/internal/models"
	"atelier/internal/repository"
)

type StatsService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
}

// DashboardStats is the admin dashboard summary.
type DashboardStats struct {
	TotalPosts     int64                     `json:"total_posts"`
	PublishedPosts int64                     `json:"published_posts"`
	TotalViews     int64                     `json:"total_views"`
	TotalComments  int64                     `json:"total_comments"`
	PostsByCateg   map[models.Category]int64 `json:"posts_by_category"`
}

func NewStatsService(postRepo repository.PostRepository, commentRepo repository.CommentRepository) *StatsService {
	return &StatsService{postRepo: postRepo, commentRepo: commentRepo}
}

// Dashboard aggregates the admin dashboard counters. The result is cached
// briefly; dashboard numbers tolerate a minute of staleness.
func (s *StatsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	err := cache.Aside(ctx, cache.StatsKey, &stats, cache.StatsTTL, func() error {
		return s.collect(ctx, &stats)
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *StatsService) collect(ctx context.Context, stats *DashboardStats) error {
	all := models.PostFilter{IncludeUnpublished: true}
	total, err := s.postRepo.Count(ctx, all)
	if err != nil {
		return err
	}
	published, err := s.postRepo.Count(ctx, models.PostFilter{})
	if err != nil {
		return err
	}
	views, err := s.postRepo.TotalViews(ctx)
	if err != nil {
		return err
	}
	comments, err := s.commentRepo.CountAll(ctx)
	if err != nil {
		return err
	}

	byCategory := make(map[models.Category]int64, len(models.Categories()))
	for _, category := range models.Categories() {
		n, err := s.postRepo.CountByCategory(ctx, category)
		if err != nil {
			return err
		}
		byCategory[category] = n
	}

	stats.TotalPosts = total
	stats.PublishedPosts = published
	stats.TotalViews = views
	stats.TotalComments = comments
	stats.PostsByCateg = byCategory
	return nil
}
