package service

import (
	"context"
	"testing"

	"atelier/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn          func(context.Context, *models.Post) error
	getByIDFn         func(context.Context, uint, bool) (*models.Post, error)
	listFn            func(context.Context, models.PostFilter, int, int) ([]*models.Post, error)
	countFn           func(context.Context, models.PostFilter) (int64, error)
	countByCategoryFn func(context.Context, models.Category) (int64, error)
	totalViewsFn      func(context.Context) (int64, error)
	updateFn          func(context.Context, *models.Post) error
	deleteFn          func(context.Context, uint) error
	incrementFn       func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint, includeUnpublished bool) (*models.Post, error) {
	return s.getByIDFn(ctx, id, includeUnpublished)
}
func (s *postRepoStub) List(ctx context.Context, f models.PostFilter, limit, offset int) ([]*models.Post, error) {
	return s.listFn(ctx, f, limit, offset)
}
func (s *postRepoStub) Count(ctx context.Context, f models.PostFilter) (int64, error) {
	return s.countFn(ctx, f)
}
func (s *postRepoStub) CountByCategory(ctx context.Context, category models.Category) (int64, error) {
	return s.countByCategoryFn(ctx, category)
}
func (s *postRepoStub) TotalViews(ctx context.Context) (int64, error) {
	return s.totalViewsFn(ctx)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) IncrementViewCount(ctx context.Context, id uint) error {
	return s.incrementFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id uint, _ bool) (*models.Post, error) {
			return &models.Post{ID: id, Title: "t", Content: "c", Category: models.CategoryFood}, nil
		},
		listFn:            func(_ context.Context, _ models.PostFilter, _, _ int) ([]*models.Post, error) { return nil, nil },
		countFn:           func(_ context.Context, _ models.PostFilter) (int64, error) { return 0, nil },
		countByCategoryFn: func(_ context.Context, _ models.Category) (int64, error) { return 0, nil },
		totalViewsFn:      func(_ context.Context) (int64, error) { return 0, nil },
		updateFn:          func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:          func(_ context.Context, _ uint) error { return nil },
		incrementFn:       func(_ context.Context, _ uint) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint) ([]*models.Comment, error)
	countAllFn   func(context.Context) (int64, error)
	deleteFn     func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) CountAll(ctx context.Context) (int64, error) {
	return s.countAllFn(ctx)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:     func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:    func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listByPostFn: func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
		countAllFn:   func(_ context.Context) (int64, error) { return 0, nil },
		deleteFn:     func(_ context.Context, _ uint) error { return nil },
	}
}

// profileRepoStub is a stub for repository.ProfileRepository.
type profileRepoStub struct {
	createFn       func(context.Context, *models.Profile) error
	getOwnerFn     func(context.Context) (*models.Profile, error)
	getByUserIDFn  func(context.Context, uint) (*models.Profile, error)
	updateFn       func(context.Context, *models.Profile) error
	setAvatarURLFn func(context.Context, uint, *string) error
}

func (s *profileRepoStub) Create(ctx context.Context, profile *models.Profile) error {
	return s.createFn(ctx, profile)
}
func (s *profileRepoStub) GetOwner(ctx context.Context) (*models.Profile, error) {
	return s.getOwnerFn(ctx)
}
func (s *profileRepoStub) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.getByUserIDFn(ctx, userID)
}
func (s *profileRepoStub) Update(ctx context.Context, profile *models.Profile) error {
	return s.updateFn(ctx, profile)
}
func (s *profileRepoStub) SetAvatarURL(ctx context.Context, id uint, url *string) error {
	return s.setAvatarURLFn(ctx, id, url)
}

func noopProfileRepo() *profileRepoStub {
	return &profileRepoStub{
		createFn: func(_ context.Context, _ *models.Profile) error { return nil },
		getOwnerFn: func(_ context.Context) (*models.Profile, error) {
			return &models.Profile{ID: 1, UserID: 1, Username: "owner"}, nil
		},
		getByUserIDFn: func(_ context.Context, userID uint) (*models.Profile, error) {
			return &models.Profile{ID: 1, UserID: userID, Username: "owner"}, nil
		},
		updateFn:       func(_ context.Context, _ *models.Profile) error { return nil },
		setAvatarURLFn: func(_ context.Context, _ uint, _ *string) error { return nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn         func(context.Context, *models.User) error
	getByIDFn        func(context.Context, uint) (*models.User, error)
	getByEmailFn     func(context.Context, string) (*models.User, error)
	updatePasswordFn func(context.Context, uint, string) error
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) UpdatePassword(ctx context.Context, id uint, hashed string) error {
	return s.updatePasswordFn(ctx, id, hashed)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:         func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn:        func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn:     func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		updatePasswordFn: func(_ context.Context, _ uint, _ string) error { return nil },
	}
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)
}
