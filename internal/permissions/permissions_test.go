package permissions

import (
	"errors"
	"testing"

	"ripple/internal/models"

	"github.com/stretchr/testify/assert"
)

func codeOf(t *testing.T, err error) string {
	t.Helper()
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *models.AppError, got %T", err)
	}
	return appErr.Code
}

func TestCheck_SafeActionsAllowAnonymous(t *testing.T) {
	for _, res := range []Resource{ResourcePost, ResourceComment, ResourceProfile} {
		for _, act := range []Action{ActionList, ActionRetrieve} {
			assert.NoError(t, Check(res, act, Anonymous, 0), "%s %s", res, act)
		}
	}
}

func TestCheck_CreateAndLike(t *testing.T) {
	authed := Identity{UserID: 7, Authenticated: true}

	tests := []struct {
		name     string
		res      Resource
		act      Action
		identity Identity
		wantCode string
	}{
		{"anonymous post create denied", ResourcePost, ActionCreate, Anonymous, models.CodeAuthenticationRequired},
		{"anonymous comment create denied", ResourceComment, ActionCreate, Anonymous, models.CodeAuthenticationRequired},
		{"anonymous like denied", ResourcePost, ActionLike, Anonymous, models.CodeAuthenticationRequired},
		{"authenticated post create allowed", ResourcePost, ActionCreate, authed, ""},
		{"authenticated comment create allowed", ResourceComment, ActionCreate, authed, ""},
		{"authenticated like allowed", ResourcePost, ActionLike, authed, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.res, tt.act, tt.identity, 0)
			if tt.wantCode == "" {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tt.wantCode, codeOf(t, err))
			}
		})
	}
}

func TestCheck_OwnerGatedWrites(t *testing.T) {
	owner := Identity{UserID: 1, Authenticated: true}
	stranger := Identity{UserID: 2, Authenticated: true}

	for _, res := range []Resource{ResourcePost, ResourceComment} {
		for _, act := range []Action{ActionUpdate, ActionPartialUpdate, ActionDelete} {
			assert.NoError(t, Check(res, act, owner, 1), "owner %s %s", res, act)
			assert.Equal(t, models.CodeForbidden, codeOf(t, Check(res, act, stranger, 1)),
				"non-owner %s %s", res, act)
			// Authentication is evaluated before ownership: the anonymous
			// identity gets 401-class, never 403-class.
			assert.Equal(t, models.CodeAuthenticationRequired, codeOf(t, Check(res, act, Anonymous, 1)),
				"anonymous %s %s", res, act)
		}
	}
}

func TestCheck_UnknownActionsDeny(t *testing.T) {
	authed := Identity{UserID: 1, Authenticated: true}

	// No AllowAny fall-through: actions missing from the table are closed,
	// even for authenticated callers.
	assert.Equal(t, models.CodeForbidden, codeOf(t, Check(ResourceComment, ActionLike, authed, 0)))
	assert.Equal(t, models.CodeForbidden, codeOf(t, Check(ResourceProfile, ActionDelete, authed, 1)))
	assert.Equal(t, models.CodeForbidden, codeOf(t, Check(ResourcePost, Action("publish"), authed, 1)))
	assert.Equal(t, models.CodeForbidden, codeOf(t, Check(Resource("unknown"), ActionRetrieve, authed, 0)))
}

func TestRequired(t *testing.T) {
	assert.Equal(t, RequireNone, Required(ResourcePost, ActionList))
	assert.Equal(t, RequireAuthenticated, Required(ResourcePost, ActionLike))
	assert.Equal(t, RequireOwner, Required(ResourceComment, ActionDelete))
	assert.Equal(t, RequireDenied, Required(ResourceProfile, ActionCreate))
}

func TestActionSafe(t *testing.T) {
	assert.True(t, ActionList.Safe())
	assert.True(t, ActionRetrieve.Safe())
	for _, act := range []Action{ActionCreate, ActionUpdate, ActionPartialUpdate, ActionDelete, ActionLike} {
		assert.False(t, act.Safe(), string(act))
	}
}
