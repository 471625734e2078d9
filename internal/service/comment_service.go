package service

import (
	"context"
	"strings"

	"ripple/internal/models"
	"ripple/internal/permissions"
	"ripple/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

type CreateCommentInput struct {
	Identity permissions.Identity
	PostID   uint
	Content  string
}

type ListCommentsInput struct {
	Identity permissions.Identity
	PostID   uint
	Limit    int
	Offset   int
}

type UpdateCommentInput struct {
	Identity  permissions.Identity
	PostID    uint
	CommentID uint
	Content   string
}

type DeleteCommentInput struct {
	Identity  permissions.Identity
	PostID    uint
	CommentID uint
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo}
}

const maxCommentContentLen = 2000

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if err := permissions.Check(permissions.ResourceComment, permissions.ActionCreate, in.Identity, 0); err != nil {
		return nil, err
	}

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxCommentContentLen {
		return nil, models.NewValidationError("Content too long (max 2000 characters)")
	}

	// The parent post must exist; the comment is attached to the path's
	// post, never to an ID from the request body.
	if _, err := s.postRepo.GetByID(ctx, in.PostID, in.Identity.UserID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content:  content,
		AuthorID: in.Identity.UserID,
		PostID:   in.PostID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) ListComments(ctx context.Context, in ListCommentsInput) ([]*models.Comment, error) {
	if err := permissions.Check(permissions.ResourceComment, permissions.ActionList, in.Identity, 0); err != nil {
		return nil, err
	}
	if _, err := s.postRepo.GetByID(ctx, in.PostID, in.Identity.UserID); err != nil {
		return nil, err
	}
	limit, offset := clampPage(in.Limit, in.Offset)
	return s.commentRepo.ListByPost(ctx, in.PostID, limit, offset)
}

func (s *CommentService) GetComment(ctx context.Context, identity permissions.Identity, postID, commentID uint) (*models.Comment, error) {
	if err := permissions.Check(permissions.ResourceComment, permissions.ActionRetrieve, identity, 0); err != nil {
		return nil, err
	}
	return s.getScoped(ctx, postID, commentID)
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.getScoped(ctx, in.PostID, in.CommentID)
	if err != nil {
		return nil, err
	}

	if err := permissions.Check(permissions.ResourceComment, permissions.ActionUpdate, in.Identity, comment.AuthorID); err != nil {
		return nil, err
	}

	if in.Content != "" {
		content := strings.TrimSpace(in.Content)
		if content == "" {
			return nil, models.NewValidationError("Content cannot be blank")
		}
		if len(content) > maxCommentContentLen {
			return nil, models.NewValidationError("Content too long (max 2000 characters)")
		}
		comment.Content = content
	}

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	comment, err := s.getScoped(ctx, in.PostID, in.CommentID)
	if err != nil {
		return err
	}

	if err := permissions.Check(permissions.ResourceComment, permissions.ActionDelete, in.Identity, comment.AuthorID); err != nil {
		return err
	}

	return s.commentRepo.Delete(ctx, in.CommentID)
}

// getScoped loads a comment and verifies it belongs to the post named in the
// request path. A mismatch reads as not found rather than leaking that the
// comment exists under another post.
func (s *CommentService) getScoped(ctx context.Context, postID, commentID uint) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.PostID != postID {
		return nil, models.NewNotFoundError("Comment", commentID)
	}
	return comment, nil
}
