// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"atelier/internal/cache"
	"atelier/internal/models"

	"gorm.io/gorm"
)

// ProfileRepository defines interface for site profile operations
type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	// GetOwner returns the first profile row; public pages treat it as "the"
	// site owner profile.
	GetOwner(ctx context.Context) (*models.Profile, error)
	GetByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
	// SetAvatarURL updates only the avatar column; nil clears it.
	SetAvatarURL(ctx context.Context, id uint, url *string) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return err
	}
	cache.InvalidateProfile(ctx)
	return nil
}

func (r *profileRepository) GetOwner(ctx context.Context) (*models.Profile, error) {
	var profile models.Profile
	err := cache.Aside(ctx, cache.ProfileKey, &profile, cache.ProfileTTL, func() error {
		return r.db.WithContext(ctx).Order("id asc").First(&profile).Error
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		return err
	}
	cache.InvalidateProfile(ctx)
	return nil
}

func (r *profileRepository) SetAvatarURL(ctx context.Context, id uint, url *string) error {
	err := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", id).
		Update("avatar_url", url).Error
	if err != nil {
		return err
	}
	cache.InvalidateProfile(ctx)
	return nil
}
