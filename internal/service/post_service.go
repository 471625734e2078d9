// Package service holds the application's business rules. Services sit
// between HTTP handlers and repositories: handlers decode requests, services
// consult the permission table and enforce invariants, repositories persist.
package service

import (
	"context"
	"strings"

	"ripple/internal/models"
	"ripple/internal/permissions"
	"ripple/internal/repository"
)

type PostService struct {
	postRepo repository.PostRepository
}

type CreatePostInput struct {
	Identity permissions.Identity
	Content  string
	Image    string
}

type ListPostsInput struct {
	Identity permissions.Identity
	Limit    int
	Offset   int
}

type UpdatePostInput struct {
	Identity permissions.Identity
	PostID   uint
	Content  string
	Image    string
}

type DeletePostInput struct {
	Identity permissions.Identity
	PostID   uint
}

// LikeResult reports the outcome of a like toggle.
type LikeResult struct {
	Liked bool         `json:"liked"`
	Post  *models.Post `json:"post"`
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

const maxPostContentLen = 10000

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := permissions.Check(permissions.ResourcePost, permissions.ActionCreate, in.Identity, 0); err != nil {
		return nil, err
	}

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxPostContentLen {
		return nil, models.NewValidationError("Content too long (max 10000 characters)")
	}

	post := &models.Post{
		Content:  content,
		Image:    in.Image,
		AuthorID: in.Identity.UserID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	// Reload so the response carries the author and computed counts.
	return s.postRepo.GetByID(ctx, post.ID, in.Identity.UserID)
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	if err := permissions.Check(permissions.ResourcePost, permissions.ActionList, in.Identity, 0); err != nil {
		return nil, err
	}
	limit, offset := clampPage(in.Limit, in.Offset)
	return s.postRepo.List(ctx, limit, offset, in.Identity.UserID)
}

func (s *PostService) GetPost(ctx context.Context, id uint, identity permissions.Identity) (*models.Post, error) {
	if err := permissions.Check(permissions.ResourcePost, permissions.ActionRetrieve, identity, 0); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, id, identity.UserID)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.Identity.UserID)
	if err != nil {
		return nil, err
	}

	if err := permissions.Check(permissions.ResourcePost, permissions.ActionUpdate, in.Identity, post.AuthorID); err != nil {
		return nil, err
	}

	// Omitted fields keep their stored value; PUT and PATCH share this path.
	if in.Content != "" {
		content := strings.TrimSpace(in.Content)
		if content == "" {
			return nil, models.NewValidationError("Content cannot be blank")
		}
		if len(content) > maxPostContentLen {
			return nil, models.NewValidationError("Content too long (max 10000 characters)")
		}
		post.Content = content
	}
	if in.Image != "" {
		post.Image = in.Image
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.Identity.UserID)
	if err != nil {
		return err
	}

	if err := permissions.Check(permissions.ResourcePost, permissions.ActionDelete, in.Identity, post.AuthorID); err != nil {
		return err
	}

	return s.postRepo.Delete(ctx, in.PostID)
}

// ToggleLike flips the caller's like on a post. The returned result reports
// the state after the toggle together with the refreshed post projection.
func (s *PostService) ToggleLike(ctx context.Context, identity permissions.Identity, postID uint) (*LikeResult, error) {
	if err := permissions.Check(permissions.ResourcePost, permissions.ActionLike, identity, 0); err != nil {
		return nil, err
	}

	// Confirm the post exists before touching likes; a dangling toggle
	// would otherwise surface as a foreign key error.
	if _, err := s.postRepo.GetByID(ctx, postID, identity.UserID); err != nil {
		return nil, err
	}

	liked, err := s.postRepo.ToggleLike(ctx, identity.UserID, postID)
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, postID, identity.UserID)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Liked: liked, Post: post}, nil
}

// ListUserPosts returns posts authored by userID, projected for identity.
func (s *PostService) ListUserPosts(ctx context.Context, userID uint, limit, offset int, identity permissions.Identity) ([]*models.Post, error) {
	if err := permissions.Check(permissions.ResourcePost, permissions.ActionList, identity, 0); err != nil {
		return nil, err
	}
	limit, offset = clampPage(limit, offset)
	return s.postRepo.ListByAuthor(ctx, userID, limit, offset, identity.UserID)
}

// clampPage normalizes pagination arguments.
func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
