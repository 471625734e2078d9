package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ripple/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetProfile(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		postRepo := new(MockPostRepository)
		userRepo.On("GetByUsername", mock.Anything, "alice").Return(&models.User{
			ID:       3,
			Username: "alice",
			Email:    "alice@example.com",
			Bio:      "hello",
		}, nil)
		postRepo.On("ListByAuthor", mock.Anything, uint(3), mock.Anything, mock.Anything, uint(0)).
			Return([]*models.Post{{ID: 10, AuthorID: 3, Content: "first"}}, nil)

		s := newTestServer(postRepo, nil, userRepo)
		app := fiber.New()
		app.Get("/profiles/:username", s.GetProfile)

		req := httptest.NewRequest(http.MethodGet, "/profiles/alice", nil)
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var profile models.Profile
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&profile))
		assert.Equal(t, "alice", profile.Username)
		assert.Len(t, profile.Posts, 1)

		// the public projection must not expose the email
		var raw map[string]any
		b, _ := json.Marshal(profile)
		_ = json.Unmarshal(b, &raw)
		_, hasEmail := raw["email"]
		assert.False(t, hasEmail)
	})

	t.Run("Not Found", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("GetByUsername", mock.Anything, "ghost").Return(nil, nil)

		s := newTestServer(nil, nil, userRepo)
		app := fiber.New()
		app.Get("/profiles/:username", s.GetProfile)

		req := httptest.NewRequest(http.MethodGet, "/profiles/ghost", nil)
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestGetMyAccount(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("GetByID", mock.Anything, uint(7)).Return(&models.User{
			ID:       7,
			Username: "bob",
			Email:    "bob@example.com",
		}, nil)

		s := newTestServer(nil, nil, userRepo)
		app := fiber.New()
		app.Get("/users/me", asUser(7), s.GetMyAccount)

		req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var user models.User
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
		assert.Equal(t, "bob@example.com", user.Email)
	})

	t.Run("Anonymous", func(t *testing.T) {
		s := newTestServer(nil, nil, nil)
		app := fiber.New()
		app.Get("/users/me", s.GetMyAccount)

		req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestUpdateMyAccount(t *testing.T) {
	t.Run("Partial update keeps omitted fields", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("GetByID", mock.Anything, uint(7)).Return(&models.User{
			ID:        7,
			Username:  "bob",
			FirstName: "Bob",
			Bio:       "old bio",
		}, nil)
		userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.Bio == "new bio" && u.FirstName == "Bob"
		})).Return(nil)

		s := newTestServer(nil, nil, userRepo)
		app := fiber.New()
		app.Patch("/users/me", asUser(7), s.UpdateMyAccount)

		body, _ := json.Marshal(map[string]string{"bio": "new bio"})
		req := httptest.NewRequest(http.MethodPatch, "/users/me", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var user models.User
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
		assert.Equal(t, "new bio", user.Bio)
		assert.Equal(t, "Bob", user.FirstName)
	})

	t.Run("Anonymous", func(t *testing.T) {
		s := newTestServer(nil, nil, nil)
		app := fiber.New()
		app.Put("/users/me", s.UpdateMyAccount)

		body, _ := json.Marshal(map[string]string{"bio": "new bio"})
		req := httptest.NewRequest(http.MethodPut, "/users/me", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
