// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Category is the closed set of post categories.
type Category string

const (
	CategoryPortfolio Category = "portfolio"
	CategoryFood      Category = "food"
	CategoryDrawing   Category = "drawing"
)

// Categories lists every valid category.
func Categories() []Category {
	return []Category{CategoryPortfolio, CategoryFood, CategoryDrawing}
}

// LifeCategories are the categories shown on the life page when no single
// category is selected.
func LifeCategories() []Category {
	return []Category{CategoryFood, CategoryDrawing}
}

// ParseCategory validates a raw category value. The second return value is
// false for anything outside the closed enum.
func ParseCategory(v string) (Category, bool) {
	switch Category(v) {
	case CategoryPortfolio, CategoryFood, CategoryDrawing:
		return Category(v), true
	}
	return "", false
}

// Sort selects the ordering of a post listing.
type Sort string

const (
	// SortLatest orders by created_at descending with no time constraint.
	SortLatest Sort = "latest"
	// SortPopular orders by view_count descending, constrained to posts
	// created within the trailing 7 days from query evaluation time.
	SortPopular Sort = "popular"
)

// ParseSort maps a raw sort value onto the enum. Unknown values (including
// the empty string) fall back to SortLatest.
func ParseSort(v string) Sort {
	if Sort(v) == SortPopular {
		return SortPopular
	}
	return SortLatest
}

// PopularWindow is the trailing window the popular sort considers.
const PopularWindow = 7 * 24 * time.Hour

// PostFilter is the predicate shared by list and count queries. List and
// count must always be issued with the same filter so pagination totals
// line up.
type PostFilter struct {
	// Categories restricts results to the given categories. Empty means all.
	Categories []Category
	// Sort selects ordering (and, for popular, the trailing time window).
	Sort Sort
	// Search is an optional case-insensitive pattern over title and content.
	Search string
	// IncludeUnpublished lifts the is_published constraint (admin listings).
	IncludeUnpublished bool
}

// Post represents a blog/portfolio entry.
type Post struct {
	ID            uint     `gorm:"primaryKey" json:"id"`
	Title         string   `gorm:"not null" json:"title"`
	Content       string   `gorm:"type:text;not null" json:"content"`
	Category      Category `gorm:"not null;index" json:"category"`
	ImageURLs     []string `gorm:"serializer:json" json:"image_urls"`
	ThumbnailURLs []string `gorm:"serializer:json" json:"thumbnail_urls"`
	LocationName  string   `json:"location_name,omitempty"`
	Lat           *float64 `json:"lat,omitempty"`
	Lng           *float64 `json:"lng,omitempty"`
	AuthorID      uint     `gorm:"not null;index" json:"author_id"`
	ViewCount     int      `gorm:"not null;default:0" json:"view_count"`
	IsPublished   bool     `gorm:"not null;default:false;index" json:"is_published"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int            `gorm:"->" json:"comments_count"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
