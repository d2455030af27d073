package service

import (
	"context"
	"strings"

	"atelier/internal/models"
	"atelier/internal/repository"
	"atelier/internal/storage"
)

type ProfileService struct {
	profileRepo repository.ProfileRepository
	avatars     *storage.AvatarStore
}

type UpdateProfileInput struct {
	UserID   uint
	Username *string
	Bio      *string
}

func NewProfileService(profileRepo repository.ProfileRepository, avatars *storage.AvatarStore) *ProfileService {
	return &ProfileService{profileRepo: profileRepo, avatars: avatars}
}

// GetOwnerProfile returns the site owner's public profile.
func (s *ProfileService) GetOwnerProfile(ctx context.Context) (*models.Profile, error) {
	return s.profileRepo.GetOwner(ctx)
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.profileRepo.GetByUserID(ctx, userID)
}

func (s *ProfileService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.Profile, error) {
	const maxUsernameLen = 30
	const maxBioLen = 2000

	profile, err := s.profileRepo.GetByUserID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if username == "" {
			return nil, models.NewValidationError("Username is required")
		}
		if len(username) > maxUsernameLen {
			return nil, models.NewValidationError("Username too long (max 30 characters)")
		}
		profile.Username = username
	}
	if in.Bio != nil {
		bio := strings.TrimSpace(*in.Bio)
		if len(bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 2000 characters)")
		}
		if bio == "" {
			profile.Bio = nil
		} else {
			profile.Bio = &bio
		}
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return s.profileRepo.GetByUserID(ctx, in.UserID)
}

// UploadAvatar stores a new avatar and points the profile at it. The
// previous avatar's objects are removed afterwards; a failed cleanup only
// leaks an orphaned file and is not surfaced.
func (s *ProfileService) UploadAvatar(ctx context.Context, userID uint, contentType string, data []byte) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	stored, err := s.avatars.Save(contentType, data)
	if err != nil {
		return nil, err
	}

	previous := profile.AvatarURL
	if err := s.profileRepo.SetAvatarURL(ctx, profile.ID, &stored.URL); err != nil {
		return nil, err
	}
	if previous != nil && *previous != stored.URL {
		_ = s.avatars.Remove(*previous)
	}
	return s.profileRepo.GetByUserID(ctx, userID)
}

// RemoveAvatar clears the profile's avatar and deletes the stored objects.
func (s *ProfileService) RemoveAvatar(ctx context.Context, userID uint) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile.AvatarURL != nil {
		if err := s.avatars.Remove(*profile.AvatarURL); err != nil {
			return nil, err
		}
	}
	if err := s.profileRepo.SetAvatarURL(ctx, profile.ID, nil); err != nil {
		return nil, err
	}
	return s.profileRepo.GetByUserID(ctx, userID)
}
