// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"

	"ripple/internal/cache"
	"ripple/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, viewerID uint) (*models.Post, error)
	List(ctx context.Context, limit, offset int, viewerID uint) ([]*models.Post, error)
	ListByAuthor(ctx context.Context, authorID uint, limit, offset int, viewerID uint) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	ToggleLike(ctx context.Context, userID, postID uint) (bool, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePostsList(ctx)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Post, error) {
	var post models.Post

	fetch := func() error {
		if err := r.applyPostDetails(r.db.WithContext(ctx), viewerID).
			Preload("Author").
			First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	}

	var err error
	if viewerID == 0 {
		// The anonymous projection carries no viewer-specific fields,
		// so it is safe to share via the cache.
		err = cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, fetch)
	} else {
		err = fetch()
	}

	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int, viewerID uint) ([]*models.Post, error) {
	var posts []*models.Post

	fetch := func() error {
		err := r.applyPostDetails(r.db.WithContext(ctx), viewerID).
			Preload("Author").
			Order("created_at DESC").
			Limit(limit).
			Offset(offset).
			Find(&posts).Error
		if err != nil {
			return models.NewInternalError(err)
		}
		return nil
	}

	// Anonymous pages carry no viewer-specific like state, so they can be
	// shared via the cache. Post writes invalidate every cached page.
	if viewerID == 0 {
		if err := cache.Aside(ctx, cache.PostsListKey(limit, offset), &posts, cache.PostsListTTL, fetch); err != nil {
			return nil, err
		}
		return posts, nil
	}

	if err := fetch(); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint, limit, offset int, viewerID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), viewerID).
		Preload("Author").
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// applyPostDetails adds subqueries to fetch counts and liked status in a single query.
// Comment counts exclude soft-deleted rows; like counts never need to, likes are
// hard-deleted.
func (r *postRepository) applyPostDetails(db *gorm.DB, viewerID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.deleted_at IS NULL) as comments_count, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) as likes_count"

	if viewerID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) as is_liked", viewerID)
	}

	return db.Select(selectQuery + ", false as is_liked")
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	// Omit associations so a preloaded Author never gets written back.
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID)
	cache.InvalidatePostsList(ctx)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, id)
	cache.InvalidatePostsList(ctx)
	return nil
}

// maxToggleAttempts bounds the insert/delete retry in ToggleLike.
const maxToggleAttempts = 3

// ToggleLike flips the caller's like state on a post in a race-safe way and
// reports the resulting state (true when the post is now liked).
//
// The insert probe is the whole trick: INSERT ... ON CONFLICT DO NOTHING is
// atomic under the unique (user_id, post_id) index, so exactly one of two
// concurrent first-time likes inserts a row. RowsAffected == 1 means this call
// created the like; 0 means a like already existed, and this call removes it.
// The returned state always reflects a row this call actually inserted or
// deleted, never a change a concurrent call made.
func (r *postRepository) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	for attempt := 0; attempt < maxToggleAttempts; attempt++ {
		result := r.db.WithContext(ctx).Exec(
			`INSERT INTO likes (user_id, post_id, created_at)
			 VALUES (?, ?, NOW())
			 ON CONFLICT (user_id, post_id) DO NOTHING`,
			userID, postID,
		)
		if result.Error != nil {
			return false, models.NewInternalError(result.Error)
		}

		if result.RowsAffected == 1 {
			cache.InvalidatePost(ctx, postID)
			return true, nil
		}

		// The row already existed, so this toggle is an unlike. Hard
		// delete; likes carry no deleted_at column.
		del := r.db.WithContext(ctx).
			Where("user_id = ? AND post_id = ?", userID, postID).
			Delete(&models.Like{})
		if del.Error != nil {
			return false, models.NewInternalError(del.Error)
		}
		if del.RowsAffected > 0 {
			cache.InvalidatePost(ctx, postID)
			return false, nil
		}

		// A concurrent toggle removed the row between the probe and the
		// delete. Re-run the probe rather than report an unlike that
		// deleted nothing.
	}
	return false, models.NewInternalError(errors.New("like toggle did not settle"))
}
