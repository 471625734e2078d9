package service

import (
	"context"
	"strings"

	"ripple/internal/cache"
	"ripple/internal/models"
	"ripple/internal/permissions"
	"ripple/internal/repository"
)

// ProfileService serves public profiles and the authenticated account view.
type ProfileService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
}

type UpdateAccountInput struct {
	Identity       permissions.Identity
	FirstName      string
	LastName       string
	Bio            string
	ProfilePicture string
}

func NewProfileService(userRepo repository.UserRepository, postRepo repository.PostRepository) *ProfileService {
	return &ProfileService{userRepo: userRepo, postRepo: postRepo}
}

// profilePostsLimit caps how many recent posts a profile embeds.
const profilePostsLimit = 20

// GetProfile returns the public profile for a username with the user's
// recent posts projected for the requesting identity.
func (s *ProfileService) GetProfile(ctx context.Context, username string, identity permissions.Identity) (*models.Profile, error) {
	if err := permissions.Check(permissions.ResourceProfile, permissions.ActionRetrieve, identity, 0); err != nil {
		return nil, err
	}

	fetch := func() (*models.Profile, error) {
		user, err := s.userRepo.GetByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, models.NewNotFoundError("Profile", username)
		}

		posts, err := s.postRepo.ListByAuthor(ctx, user.ID, profilePostsLimit, 0, identity.UserID)
		if err != nil {
			return nil, err
		}
		return models.ProfileFromUser(user, posts), nil
	}

	// Anonymous profiles carry no viewer-specific like state, so they can
	// be served from the cache. Account field updates invalidate the entry
	// immediately; the embedded posts and their counters are only as fresh
	// as the TTL, since post and like writes do not touch this key.
	if !identity.Authenticated {
		var profile models.Profile
		err := cache.Aside(ctx, cache.ProfileKey(username), &profile, cache.ProfileTTL, func() error {
			p, err := fetch()
			if err != nil {
				return err
			}
			profile = *p
			return nil
		})
		if err != nil {
			return nil, err
		}
		return &profile, nil
	}

	return fetch()
}

// GetAccount returns the caller's own account record.
func (s *ProfileService) GetAccount(ctx context.Context, identity permissions.Identity) (*models.User, error) {
	if !identity.Authenticated {
		return nil, models.NewAuthenticationRequiredError("Authentication required")
	}
	return s.userRepo.GetByID(ctx, identity.UserID)
}

const (
	maxNameLen = 150
	maxBioLen  = 500
)

// UpdateAccount applies a partial update to the caller's own account.
// Omitted fields keep their stored value.
func (s *ProfileService) UpdateAccount(ctx context.Context, in UpdateAccountInput) (*models.User, error) {
	if !in.Identity.Authenticated {
		return nil, models.NewAuthenticationRequiredError("Authentication required")
	}

	user, err := s.userRepo.GetByID(ctx, in.Identity.UserID)
	if err != nil {
		return nil, err
	}

	if in.FirstName != "" {
		if len(in.FirstName) > maxNameLen {
			return nil, models.NewValidationError("First name too long (max 150 characters)")
		}
		user.FirstName = strings.TrimSpace(in.FirstName)
	}
	if in.LastName != "" {
		if len(in.LastName) > maxNameLen {
			return nil, models.NewValidationError("Last name too long (max 150 characters)")
		}
		user.LastName = strings.TrimSpace(in.LastName)
	}
	if in.Bio != "" {
		if len(in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = in.Bio
	}
	if in.ProfilePicture != "" {
		user.ProfilePicture = in.ProfilePicture
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
