// Package permissions decides whether an identity may perform an action on
// a resource. It is a pure decision table: no I/O, no side effects, the only
// object state it reads is the already-loaded owner of the target resource.
package permissions

import "ripple/internal/models"

// Action classifies an API operation on a resource.
type Action string

const (
	ActionList          Action = "list"
	ActionRetrieve      Action = "retrieve"
	ActionCreate        Action = "create"
	ActionUpdate        Action = "update"
	ActionPartialUpdate Action = "partial_update"
	ActionDelete        Action = "delete"
	ActionLike          Action = "like"
)

// Safe reports whether the action is read-only.
func (a Action) Safe() bool {
	return a == ActionList || a == ActionRetrieve
}

// Resource is the kind of object an action targets.
type Resource string

const (
	ResourcePost    Resource = "post"
	ResourceComment Resource = "comment"
	ResourceProfile Resource = "profile"
)

// Requirement is the capability an identity must hold for an action.
type Requirement int

const (
	// RequireDenied rejects the action outright. It is the default for any
	// (resource, action) pair missing from the table, so new write-style
	// actions stay closed until explicitly mapped.
	RequireDenied Requirement = iota
	// RequireNone allows any identity, anonymous included.
	RequireNone
	// RequireAuthenticated allows any authenticated identity. No ownership
	// check applies: either no owned object exists yet (create) or the
	// operation is inherently scoped to the caller (like).
	RequireAuthenticated
	// RequireOwner allows only the authenticated owner of the target.
	RequireOwner
)

// Identity is the acting identity resolved by the authentication layer.
// The zero value is the anonymous guest.
type Identity struct {
	UserID        uint
	Authenticated bool
}

// Anonymous is the guest identity.
var Anonymous = Identity{}

// table is the explicit (resource, action) -> requirement mapping. There is
// deliberately no fall-through to "allow": unmapped pairs deny.
var table = map[Resource]map[Action]Requirement{
	ResourcePost: {
		ActionList:          RequireNone,
		ActionRetrieve:      RequireNone,
		ActionCreate:        RequireAuthenticated,
		ActionLike:          RequireAuthenticated,
		ActionUpdate:        RequireOwner,
		ActionPartialUpdate: RequireOwner,
		ActionDelete:        RequireOwner,
	},
	ResourceComment: {
		ActionList:          RequireNone,
		ActionRetrieve:      RequireNone,
		ActionCreate:        RequireAuthenticated,
		ActionUpdate:        RequireOwner,
		ActionPartialUpdate: RequireOwner,
		ActionDelete:        RequireOwner,
	},
	ResourceProfile: {
		ActionList:     RequireNone,
		ActionRetrieve: RequireNone,
	},
}

// Required returns the capability needed for the given resource and action.
func Required(res Resource, act Action) Requirement {
	if actions, ok := table[res]; ok {
		if req, ok := actions[act]; ok {
			return req
		}
	}
	return RequireDenied
}

// Check evaluates whether identity may perform act on res. For owner-gated
// actions, ownerID is the recorded author of the target object; it is
// ignored otherwise. A nil return means allowed; otherwise the error is an
// *models.AppError carrying the denial class. The authentication check
// always runs before the object-level ownership check.
func Check(res Resource, act Action, identity Identity, ownerID uint) error {
	switch Required(res, act) {
	case RequireNone:
		return nil
	case RequireAuthenticated:
		if !identity.Authenticated {
			return models.NewAuthenticationRequiredError("Authentication required")
		}
		return nil
	case RequireOwner:
		if !identity.Authenticated {
			return models.NewAuthenticationRequiredError("Authentication required")
		}
		if identity.UserID != ownerID {
			return models.NewForbiddenError("You do not have permission to modify this " + string(res))
		}
		return nil
	default:
		return models.NewForbiddenError("Action not permitted on this " + string(res))
	}
}
