package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"atelier/internal/config"
	"atelier/internal/models"
	"atelier/internal/service"
	"atelier/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPostRepository is a mock of the PostRepository interface
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id uint, includeUnpublished bool) (*models.Post, error) {
	args := m.Called(ctx, id, includeUnpublished)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context, f models.PostFilter, limit, offset int) ([]*models.Post, error) {
	args := m.Called(ctx, f, limit, offset)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) Count(ctx context.Context, f models.PostFilter) (int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPostRepository) CountByCategory(ctx context.Context, category models.Category) (int64, error) {
	args := m.Called(ctx, category)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPostRepository) TotalViews(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPostRepository) Update(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) IncrementViewCount(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCommentRepository is a mock of the CommentRepository interface
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).([]*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCommentRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProfileRepository is a mock of the ProfileRepository interface
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) GetOwner(ctx context.Context) (*models.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) SetAvatarURL(ctx context.Context, id uint, url *string) error {
	args := m.Called(ctx, id, url)
	return args.Error(0)
}

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uint, hashed string) error {
	args := m.Called(ctx, id, hashed)
	return args.Error(0)
}

// testMocks bundles the repositories a handler test wires into the server.
type testMocks struct {
	posts    *MockPostRepository
	comments *MockCommentRepository
	profiles *MockProfileRepository
	users    *MockUserRepository
}

// newTestServer builds a Server around mocked repositories, without Redis
// or a database.
func newTestServer(t *testing.T) (*Server, *testMocks) {
	t.Helper()

	mocks := &testMocks{
		posts:    new(MockPostRepository),
		comments: new(MockCommentRepository),
		profiles: new(MockProfileRepository),
		users:    new(MockUserRepository),
	}
	cfg := &config.Config{
		JWTSecret:         "test-secret",
		AvatarDir:         t.TempDir(),
		AvatarMaxUploadMB: 1,
		Env:               "test",
	}
	avatars, err := storage.NewAvatarStore(cfg)
	require.NoError(t, err)

	s := &Server{
		config:      cfg,
		avatars:     avatars,
		userRepo:    mocks.users,
		postRepo:    mocks.posts,
		commentRepo: mocks.comments,
		profileRepo: mocks.profiles,
	}
	s.postService = service.NewPostService(mocks.posts)
	s.commentService = service.NewCommentService(mocks.comments, mocks.posts, mocks.profiles)
	s.profileService = service.NewProfileService(mocks.profiles, avatars)
	s.userService = service.NewUserService(mocks.users)
	s.statsService = service.NewStatsService(mocks.posts, mocks.comments)
	return s, mocks
}

// asUser injects an authenticated user the way AuthRequired would.
func asUser(userID uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	}
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, dest))
}
