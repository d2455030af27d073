// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"time"

	"atelier/internal/cache"
	"atelier/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	// GetByID loads one post. Unpublished posts are only returned when
	// includeUnpublished is set (admin surface).
	GetByID(ctx context.Context, id uint, includeUnpublished bool) (*models.Post, error)
	// List and Count must be called with the same filter; Count is the
	// "total" a paginated listing terminates against.
	List(ctx context.Context, f models.PostFilter, limit, offset int) ([]*models.Post, error)
	Count(ctx context.Context, f models.PostFilter) (int64, error)
	CountByCategory(ctx context.Context, category models.Category) (int64, error)
	TotalViews(ctx context.Context) (int64, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	// IncrementViewCount adds one view, unconditionally. There is no
	// per-viewer idempotence guard; repeated loads keep counting.
	IncrementViewCount(ctx context.Context, id uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return err
	}
	cache.InvalidateStats(ctx)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint, includeUnpublished bool) (*models.Post, error) {
	var post models.Post

	if includeUnpublished {
		err := r.withCommentsCount(r.db.WithContext(ctx)).First(&post, id).Error
		if err != nil {
			return nil, err
		}
		return &post, nil
	}

	err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		return r.withCommentsCount(r.db.WithContext(ctx)).
			Where("is_published = ?", true).
			First(&post, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, f models.PostFilter, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applySort(r.applyFilter(r.withCommentsCount(r.db.WithContext(ctx)), f), f.Sort).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) Count(ctx context.Context, f models.PostFilter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.Post{}), f).Count(&count).Error
	return count, err
}

func (r *postRepository) CountByCategory(ctx context.Context, category models.Category) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("category = ?", category).
		Count(&count).Error
	return count, err
}

func (r *postRepository) TotalViews(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Select("COALESCE(SUM(view_count), 0)").
		Scan(&total).Error
	return total, err
}

// applyFilter translates a PostFilter into WHERE clauses. The same filter
// must produce the same predicate for List and Count.
func (r *postRepository) applyFilter(db *gorm.DB, f models.PostFilter) *gorm.DB {
	if !f.IncludeUnpublished {
		db = db.Where("is_published = ?", true)
	}
	if len(f.Categories) > 0 {
		db = db.Where("category IN ?", f.Categories)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		db = db.Where("LOWER(title) LIKE LOWER(?) OR LOWER(content) LIKE LOWER(?)", like, like)
	}
	if f.Sort == models.SortPopular {
		db = db.Where("created_at > ?", time.Now().Add(-models.PopularWindow))
	}
	return db
}

// applySort appends the ORDER BY clause for the requested sort mode.
// The popular mode's trailing time window lives in applyFilter so that
// Count sees it too.
func (r *postRepository) applySort(db *gorm.DB, sort models.Sort) *gorm.DB {
	switch sort {
	case models.SortPopular:
		return db.Order("view_count DESC, created_at DESC")
	default:
		return db.Order("created_at DESC")
	}
}

// withCommentsCount adds the computed comments_count column.
func (r *postRepository) withCommentsCount(db *gorm.DB) *gorm.DB {
	return db.Select("posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) as comments_count")
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return err
	}
	cache.InvalidatePost(ctx, post.ID)
	cache.InvalidateStats(ctx)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return err
	}
	cache.InvalidatePost(ctx, id)
	cache.InvalidateStats(ctx)
	return nil
}

func (r *postRepository) IncrementViewCount(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
	if err == nil {
		cache.InvalidatePost(ctx, id)
	}
	return err
}
