package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ripple/internal/config"
	"ripple/internal/models"
	"ripple/internal/repository"
	"ripple/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
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

func (m *MockPostRepository) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Post, error) {
	args := m.Called(ctx, id, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context, limit, offset int, viewerID uint) ([]*models.Post, error) {
	args := m.Called(ctx, limit, offset, viewerID)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) ListByAuthor(ctx context.Context, authorID uint, limit, offset int, viewerID uint) ([]*models.Post, error) {
	args := m.Called(ctx, authorID, limit, offset, viewerID)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) Update(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	args := m.Called(ctx, userID, postID)
	return args.Bool(0), args.Error(1)
}

// newTestServer wires a Server around mock repositories.
func newTestServer(postRepo repository.PostRepository, commentRepo repository.CommentRepository, userRepo repository.UserRepository) *Server {
	s := &Server{
		config:      &config.Config{JWTSecret: "test-secret-for-handlers"},
		userRepo:    userRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
	}
	s.postService = service.NewPostService(postRepo)
	s.commentService = service.NewCommentService(commentRepo, postRepo)
	s.profileService = service.NewProfileService(userRepo, postRepo)
	return s
}

// asUser injects an authenticated user the way AuthRequired would.
func asUser(userID uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	}
}

func TestCreatePost(t *testing.T) {
	mockRepo := new(MockPostRepository)
	s := newTestServer(mockRepo, nil, nil)

	app := fiber.New()
	app.Post("/posts", asUser(1), s.CreatePost)

	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func()
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]string{
				"content": "Hello world",
			},
			mockSetup: func() {
				mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
				mockRepo.On("GetByID", mock.Anything, mock.Anything, uint(1)).
					Return(&models.Post{ID: 1, Content: "Hello world", AuthorID: 1}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Missing Content",
			body: map[string]string{
				"content": "",
			},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/posts", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, _ := app.Test(req)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestCreatePost_Anonymous(t *testing.T) {
	mockRepo := new(MockPostRepository)
	s := newTestServer(mockRepo, nil, nil)

	app := fiber.New()
	app.Post("/posts", s.CreatePost) // no auth middleware

	body, _ := json.Marshal(map[string]string{"content": "hi"})
	req := httptest.NewRequest(http.MethodPost, "/posts", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGetPost(t *testing.T) {
	mockRepo := new(MockPostRepository)
	s := newTestServer(mockRepo, nil, nil)

	app := fiber.New()
	app.Get("/posts/:id", s.GetPost)

	t.Run("Success", func(t *testing.T) {
		mockRepo.On("GetByID", mock.Anything, uint(5), uint(0)).
			Return(&models.Post{ID: 5, Content: "hello", LikesCount: 3}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/posts/5", nil)
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var post models.Post
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&post))
		assert.Equal(t, 3, post.LikesCount)
		assert.False(t, post.IsLiked)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockRepo.On("GetByID", mock.Anything, uint(404), uint(0)).
			Return(nil, models.NewNotFoundError("Post", 404)).Once()

		req := httptest.NewRequest(http.MethodGet, "/posts/404", nil)
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Invalid ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/posts/abc", nil)
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestUpdatePost(t *testing.T) {
	t.Run("Non-owner gets 403", func(t *testing.T) {
		mockRepo := new(MockPostRepository)
		mockRepo.On("GetByID", mock.Anything, uint(5), uint(2)).
			Return(&models.Post{ID: 5, Content: "x", AuthorID: 1}, nil)

		s := newTestServer(mockRepo, nil, nil)
		app := fiber.New()
		app.Put("/posts/:id", asUser(2), s.UpdatePost)

		body, _ := json.Marshal(map[string]string{"content": "hijack"})
		req := httptest.NewRequest(http.MethodPut, "/posts/5", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("Owner gets 200", func(t *testing.T) {
		mockRepo := new(MockPostRepository)
		mockRepo.On("GetByID", mock.Anything, uint(5), uint(1)).
			Return(&models.Post{ID: 5, Content: "x", AuthorID: 1}, nil)
		mockRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

		s := newTestServer(mockRepo, nil, nil)
		app := fiber.New()
		app.Put("/posts/:id", asUser(1), s.UpdatePost)

		body, _ := json.Marshal(map[string]string{"content": "edited"})
		req := httptest.NewRequest(http.MethodPut, "/posts/5", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var post models.Post
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&post))
		assert.Equal(t, "edited", post.Content)
	})
}

func TestDeletePost(t *testing.T) {
	t.Run("Owner gets 204", func(t *testing.T) {
		mockRepo := new(MockPostRepository)
		mockRepo.On("GetByID", mock.Anything, uint(5), uint(1)).
			Return(&models.Post{ID: 5, AuthorID: 1}, nil)
		mockRepo.On("Delete", mock.Anything, uint(5)).Return(nil)

		s := newTestServer(mockRepo, nil, nil)
		app := fiber.New()
		app.Delete("/posts/:id", asUser(1), s.DeletePost)

		req := httptest.NewRequest(http.MethodDelete, "/posts/5", nil)
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		mockRepo.AssertCalled(t, "Delete", mock.Anything, uint(5))
	})

	t.Run("Non-owner gets 403 and no delete", func(t *testing.T) {
		mockRepo := new(MockPostRepository)
		mockRepo.On("GetByID", mock.Anything, uint(5), uint(2)).
			Return(&models.Post{ID: 5, AuthorID: 1}, nil)

		s := newTestServer(mockRepo, nil, nil)
		app := fiber.New()
		app.Delete("/posts/:id", asUser(2), s.DeletePost)

		req := httptest.NewRequest(http.MethodDelete, "/posts/5", nil)
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestToggleLike(t *testing.T) {
	t.Run("Like answers 201 with liked true", func(t *testing.T) {
		mockRepo := new(MockPostRepository)
		mockRepo.On("GetByID", mock.Anything, uint(5), uint(1)).
			Return(&models.Post{ID: 5, AuthorID: 2, LikesCount: 1, IsLiked: true}, nil)
		mockRepo.On("ToggleLike", mock.Anything, uint(1), uint(5)).Return(true, nil)

		s := newTestServer(mockRepo, nil, nil)
		app := fiber.New()
		app.Post("/posts/:id/like", asUser(1), s.ToggleLike)

		req := httptest.NewRequest(http.MethodPost, "/posts/5/like", nil)
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var result struct {
			Liked bool         `json:"liked"`
			Post  *models.Post `json:"post"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.True(t, result.Liked)
		require.NotNil(t, result.Post)
		assert.Equal(t, 1, result.Post.LikesCount)
	})

	t.Run("Unlike answers 200 with liked false", func(t *testing.T) {
		mockRepo := new(MockPostRepository)
		mockRepo.On("GetByID", mock.Anything, uint(5), uint(1)).
			Return(&models.Post{ID: 5, AuthorID: 2}, nil)
		mockRepo.On("ToggleLike", mock.Anything, uint(1), uint(5)).Return(false, nil)

		s := newTestServer(mockRepo, nil, nil)
		app := fiber.New()
		app.Post("/posts/:id/like", asUser(1), s.ToggleLike)

		req := httptest.NewRequest(http.MethodPost, "/posts/5/like", nil)
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result struct {
			Liked bool `json:"liked"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.False(t, result.Liked)
	})

	t.Run("Anonymous gets 401", func(t *testing.T) {
		mockRepo := new(MockPostRepository)
		s := newTestServer(mockRepo, nil, nil)
		app := fiber.New()
		app.Post("/posts/:id/like", s.ToggleLike)

		req := httptest.NewRequest(http.MethodPost, "/posts/5/like", nil)
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		mockRepo.AssertNotCalled(t, "ToggleLike", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Missing post gets 404", func(t *testing.T) {
		mockRepo := new(MockPostRepository)
		mockRepo.On("GetByID", mock.Anything, uint(404), uint(1)).
			Return(nil, models.NewNotFoundError("Post", 404))

		s := newTestServer(mockRepo, nil, nil)
		app := fiber.New()
		app.Post("/posts/:id/like", asUser(1), s.ToggleLike)

		req := httptest.NewRequest(http.MethodPost, "/posts/404/like", nil)
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestGetPosts(t *testing.T) {
	mockRepo := new(MockPostRepository)
	mockRepo.On("List", mock.Anything, 20, 0, uint(0)).
		Return([]*models.Post{{ID: 2}, {ID: 1}}, nil)

	s := newTestServer(mockRepo, nil, nil)
	app := fiber.New()
	app.Get("/posts", s.GetPosts)

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var posts []*models.Post
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&posts))
	assert.Len(t, posts, 2)
}
