package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"atelier/internal/config"
	"atelier/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetOwnerProfile(t *testing.T) {
	app := fiber.New()
	s, mocks := newTestServer(t)
	app.Get("/profile", s.GetOwnerProfile)

	bio := "hello"
	mocks.profiles.On("GetOwner", mock.Anything).
		Return(&models.Profile{ID: 1, Username: "corey", Bio: &bio}, nil)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Username string `json:"username"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, "corey", body.Username)
}

func TestGetSiteSettings(t *testing.T) {
	t.Run("map disabled without API key", func(t *testing.T) {
		app := fiber.New()
		s, _ := newTestServer(t)
		app.Get("/site", s.GetSiteSettings)

		req := httptest.NewRequest(http.MethodGet, "/site", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)

		var body map[string]any
		decodeBody(t, resp, &body)
		assert.Equal(t, false, body["map_enabled"])
		_, present := body["map_api_key"]
		assert.False(t, present)
	})

	t.Run("map enabled with API key", func(t *testing.T) {
		app := fiber.New()
		s, _ := newTestServer(t)
		s.config = &config.Config{MapAPIKey: "k123"}
		app.Get("/site", s.GetSiteSettings)

		req := httptest.NewRequest(http.MethodGet, "/site", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)

		var body map[string]any
		decodeBody(t, resp, &body)
		assert.Equal(t, true, body["map_enabled"])
		assert.Equal(t, "k123", body["map_api_key"])
	})
}

func TestUpdateMyProfile(t *testing.T) {
	app := fiber.New()
	s, mocks := newTestServer(t)
	app.Put("/admin/profile", asUser(1), s.UpdateMyProfile)

	profile := &models.Profile{ID: 1, UserID: 1, Username: "old"}
	mocks.profiles.On("GetByUserID", mock.Anything, uint(1)).Return(profile, nil)
	mocks.profiles.On("Update", mock.Anything, mock.MatchedBy(func(p *models.Profile) bool {
		return p.Username == "new-name"
	})).Return(nil)

	payload, _ := json.Marshal(map[string]string{"username": "new-name"})
	req := httptest.NewRequest(http.MethodPut, "/admin/profile", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	mocks.profiles.AssertExpectations(t)
}

func avatarForm(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}
	var imgBuf bytes.Buffer
	require.NoError(t, png.Encode(&imgBuf, img))

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="avatar"; filename="avatar.png"`)
	header.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(imgBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func TestUploadAvatar(t *testing.T) {
	app := fiber.New()
	s, mocks := newTestServer(t)
	app.Post("/admin/profile/avatar", asUser(1), s.UploadAvatar)

	profile := &models.Profile{ID: 1, UserID: 1, Username: "corey"}
	mocks.profiles.On("GetByUserID", mock.Anything, uint(1)).Return(profile, nil)
	mocks.profiles.On("SetAvatarURL", mock.Anything, uint(1), mock.MatchedBy(func(url *string) bool {
		return url != nil && *url != ""
	})).Return(nil)

	body, contentType := avatarForm(t)
	req := httptest.NewRequest(http.MethodPost, "/admin/profile/avatar", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	mocks.profiles.AssertExpectations(t)
}

func TestUploadAvatarMissingFile(t *testing.T) {
	app := fiber.New()
	s, _ := newTestServer(t)
	app.Post("/admin/profile/avatar", asUser(1), s.UploadAvatar)

	req := httptest.NewRequest(http.MethodPost, "/admin/profile/avatar", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteAvatar(t *testing.T) {
	app := fiber.New()
	s, mocks := newTestServer(t)
	app.Delete("/admin/profile/avatar", asUser(1), s.DeleteAvatar)

	url := "/media/avatars/gone.png"
	profile := &models.Profile{ID: 1, UserID: 1, AvatarURL: &url}
	mocks.profiles.On("GetByUserID", mock.Anything, uint(1)).Return(profile, nil)
	mocks.profiles.On("SetAvatarURL", mock.Anything, uint(1), (*string)(nil)).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/admin/profile/avatar", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	mocks.profiles.AssertExpectations(t)
}

func TestGetDashboardStats(t *testing.T) {
	app := fiber.New()
	s, mocks := newTestServer(t)
	app.Get("/admin/stats", asUser(1), s.GetDashboardStats)

	mocks.posts.On("Count", mock.Anything, mock.MatchedBy(func(f models.PostFilter) bool {
		return f.IncludeUnpublished
	})).Return(int64(12), nil)
	mocks.posts.On("Count", mock.Anything, mock.MatchedBy(func(f models.PostFilter) bool {
		return !f.IncludeUnpublished
	})).Return(int64(10), nil)
	mocks.posts.On("TotalViews", mock.Anything).Return(int64(321), nil)
	mocks.posts.On("CountByCategory", mock.Anything, mock.Anything).Return(int64(4), nil)
	mocks.comments.On("CountAll", mock.Anything).Return(int64(17), nil)

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		TotalPosts    int64 `json:"total_posts"`
		TotalViews    int64 `json:"total_views"`
		TotalComments int64 `json:"total_comments"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, int64(12), body.TotalPosts)
	assert.Equal(t, int64(321), body.TotalViews)
	assert.Equal(t, int64(17), body.TotalComments)
}
