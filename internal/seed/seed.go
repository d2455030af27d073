// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"atelier/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumPosts    int
	ShouldClean bool
	// SkipBcrypt stores the admin password in plain text for fast dev cycles.
	SkipBcrypt bool
}

// AdminEmail and AdminPassword are the credentials of the seeded owner account.
const (
	AdminEmail    = "owner@atelier.dev"
	AdminPassword = "password123"
)

// Seeder builds domain entities and persists them to the database.
type Seeder struct {
	db   *gorm.DB
	opts Options
	rnd  *rand.Rand
}

// NewSeeder creates a new Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:   db,
		opts: opts,
		rnd:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes previously seeded data. Order matters because of the
// post/comment relation.
func (s *Seeder) ClearAll() error {
	for _, model := range []interface{}{
		&models.Comment{}, &models.Post{}, &models.Profile{}, &models.User{},
	} {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error; err != nil {
			return fmt.Errorf("failed to clear %T: %w", model, err)
		}
	}
	return nil
}

// Run populates the database with an owner account, posts across every
// category and comment threads under them.
func (s *Seeder) Run() error {
	log.Printf("🌱 Starting database seeding with %d posts...", s.opts.NumPosts)

	if s.opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	owner, err := s.createOwner()
	if err != nil {
		return fmt.Errorf("failed to create owner: %w", err)
	}
	log.Printf("✓ owner account created (%s / %s)", AdminEmail, AdminPassword)

	posts, err := s.createPosts(owner)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("✓ %d posts created", len(posts))

	count, err := s.createComments(posts)
	if err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}
	log.Printf("✓ %d comments created", count)

	log.Println("🎉 Seeding complete")
	return nil
}

func (s *Seeder) createOwner() (*models.User, error) {
	user := &models.User{
		Username: "owner",
		Email:    AdminEmail,
		IsAdmin:  true,
	}
	if s.opts.SkipBcrypt {
		user.Password = AdminPassword
	} else {
		hashed, err := bcrypt.GenerateFromPassword([]byte(AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}

	bio := gofakeit.Sentence(12)
	profile := &models.Profile{
		UserID:   user.ID,
		Username: gofakeit.FirstName(),
		Bio:      &bio,
	}
	if err := s.db.Create(profile).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Seeder) createPosts(owner *models.User) ([]*models.Post, error) {
	total := s.opts.NumPosts
	if total <= 0 {
		total = 40
	}

	posts := make([]*models.Post, 0, total)
	categories := models.Categories()
	for i := 0; i < total; i++ {
		category := categories[i%len(categories)]
		post := s.BuildPost(owner, category)
		posts = append(posts, post)
	}

	// A handful of recent posts with high view counts keeps the popular
	// listing non-empty.
	for i := 0; i < len(posts) && i < 6; i++ {
		posts[i].CreatedAt = time.Now().Add(-time.Duration(s.rnd.Intn(6)+1) * 24 * time.Hour)
		posts[i].ViewCount = 200 + s.rnd.Intn(800)
	}

	if err := s.db.Create(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// BuildPost constructs a post without persisting it. Useful for tests and
// batching.
func (s *Seeder) BuildPost(owner *models.User, category models.Category) *models.Post {
	post := &models.Post{
		Title:       s.titleFor(category),
		Content:     s.contentFor(category),
		Category:    category,
		AuthorID:    owner.ID,
		ViewCount:   s.rnd.Intn(150),
		IsPublished: s.rnd.Intn(10) != 0, // occasional draft
	}

	// realistic created_at spread over the last three months
	daysBack := s.rnd.Intn(90)
	hoursBack := s.rnd.Intn(24)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for j := 0; j < s.rnd.Intn(4); j++ {
		seed := gofakeit.UUID()
		post.ImageURLs = append(post.ImageURLs, fmt.Sprintf("https://picsum.photos/seed/%s/1200/800", seed))
		post.ThumbnailURLs = append(post.ThumbnailURLs, fmt.Sprintf("https://picsum.photos/seed/%s/400/267", seed))
	}

	if category == models.CategoryFood && s.rnd.Intn(2) == 0 {
		post.LocationName = gofakeit.Company()
		lat := gofakeit.Latitude()
		lng := gofakeit.Longitude()
		post.Lat = &lat
		post.Lng = &lng
	}
	return post
}

func (s *Seeder) titleFor(category models.Category) string {
	switch category {
	case models.CategoryFood:
		return fmt.Sprintf("Trying %s at %s", gofakeit.Dinner(), gofakeit.Company())
	case models.CategoryDrawing:
		return fmt.Sprintf("Sketch study: %s", gofakeit.NounConcrete())
	default:
		return fmt.Sprintf("Building %s", gofakeit.AppName())
	}
}

func (s *Seeder) contentFor(category models.Category) string {
	var b strings.Builder
	b.WriteString("## ")
	b.WriteString(gofakeit.Sentence(3))
	b.WriteString("\n\n")
	b.WriteString(gofakeit.Paragraph(2, 4, 8, "\n\n"))
	b.WriteString("\n\n### Notes\n\n")
	for i := 0; i < 3; i++ {
		b.WriteString("- ")
		b.WriteString(gofakeit.Sentence(6))
		b.WriteString("\n")
	}
	if category == models.CategoryPortfolio {
		b.WriteString("\nStack: **")
		b.WriteString(gofakeit.ProgrammingLanguage())
		b.WriteString("**\n")
	}
	return b.String()
}

func (s *Seeder) createComments(posts []*models.Post) (int, error) {
	count := 0
	for _, post := range posts {
		if !post.IsPublished {
			continue
		}
		for i := 0; i < s.rnd.Intn(4); i++ {
			root, err := s.createComment(post.ID, nil)
			if err != nil {
				return count, err
			}
			count++
			for j := 0; j < s.rnd.Intn(3); j++ {
				if _, err := s.createComment(post.ID, &root.ID); err != nil {
					return count, err
				}
				count++
			}
		}
	}
	return count, nil
}

func (s *Seeder) createComment(postID uint, parentID *uint) (*models.Comment, error) {
	comment := &models.Comment{
		PostID:  postID,
		Parent:  parentID,
		Content: gofakeit.Sentence(s.rnd.Intn(12) + 3),
	}
	if s.rnd.Intn(5) == 0 {
		comment.Nickname = "Admin"
		comment.IsAdmin = true
	} else {
		comment.Nickname = gofakeit.Username()
		hashed, err := bcrypt.GenerateFromPassword([]byte(gofakeit.Password(true, true, true, false, false, 10)), bcrypt.MinCost)
		if err != nil {
			return nil, err
		}
		comment.Password = string(hashed)
	}
	if err := s.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}
