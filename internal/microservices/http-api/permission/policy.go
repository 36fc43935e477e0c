// Package permission decides whether a caller may perform an action on a
// resource. Policies are plain values chosen per route group; none of them
// derives from another.
package permission

import (
	"net/http"

	"yamdb/internal/microservices/http-api/models"
	"yamdb/pkg/apperror"
)

var (
	ErrUnauthenticated  = apperror.New(http.StatusUnauthorized, "authentication credentials were not provided", apperror.ErrUnauthenticated)
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "you do not have permission to perform this action", apperror.ErrPermissionDenied)
)

// Action is the method class of a request.
type Action int

const (
	ActionRead Action = iota
	ActionCreate
	ActionUpdate
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionRead:
		return "read"
	case ActionCreate:
		return "create"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	}
	return "unknown"
}

// ActionFor classifies an HTTP method. PUT and PATCH are both updates; any
// method that is not safe and not recognised is treated as an update.
func ActionFor(method string) Action {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return ActionRead
	case http.MethodPost:
		return ActionCreate
	case http.MethodDelete:
		return ActionDelete
	default:
		return ActionUpdate
	}
}

// Caller is the authenticated identity behind a request. A nil *Caller is anonymous.
type Caller struct {
	UserID      string
	Username    string
	Role        models.Role
	IsSuperuser bool
}

// CallerFromUser builds the caller identity for u.
func CallerFromUser(u *models.User) *Caller {
	return &Caller{
		UserID:      u.ID,
		Username:    u.Username,
		Role:        u.Role,
		IsSuperuser: u.IsSuperuser,
	}
}

func (c *Caller) hasAnyRole(roles []models.Role) bool {
	if c.IsSuperuser {
		return true
	}
	for _, r := range roles {
		if c.Role == r {
			return true
		}
	}
	return false
}

// Policy gates the restricted actions of a resource behind elevated roles and,
// optionally, authorship of the target object.
type Policy struct {
	Name string
	// AnonymousRead lets unauthenticated callers perform ActionRead.
	AnonymousRead bool
	Restricted    []Action
	Elevated      []models.Role
	// AuthorMayWrite lets the author of the target pass restricted actions.
	AuthorMayWrite bool
}

var (
	// Admin restricts every write to admins and superusers.
	Admin = Policy{
		Name:          "admin",
		AnonymousRead: true,
		Restricted:    []Action{ActionCreate, ActionUpdate, ActionDelete},
		Elevated:      []models.Role{models.RoleAdmin},
	}

	// ModeratorOrOwner lets any authenticated caller create, and restricts
	// updates and deletes to moderators, admins, superusers and the author.
	ModeratorOrOwner = Policy{
		Name:           "moderator-or-owner",
		AnonymousRead:  true,
		Restricted:     []Action{ActionUpdate, ActionDelete},
		Elevated:       []models.Role{models.RoleModerator, models.RoleAdmin},
		AuthorMayWrite: true,
	}

	// AdminOnly hides the resource, reads included, from everyone but admins.
	AdminOnly = Policy{
		Name:       "admin-only",
		Restricted: []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete},
		Elevated:   []models.Role{models.RoleAdmin},
	}

	// Authenticated only requires a logged in caller.
	Authenticated = Policy{Name: "authenticated"}
)

// Restricts reports whether a is gated by elevated roles under p.
func (p Policy) Restricts(a Action) bool {
	for _, r := range p.Restricted {
		if r == a {
			return true
		}
	}
	return false
}

// CheckAction is the first phase of authorization and needs no resource. For
// owner-aware policies a restricted action from a non-elevated caller passes
// here and must be confirmed by CheckObject once the target is loaded.
func (p Policy) CheckAction(a Action, c *Caller) error {
	if c == nil {
		if a == ActionRead && p.AnonymousRead {
			return nil
		}
		return ErrUnauthenticated
	}
	if !p.Restricts(a) || c.hasAnyRole(p.Elevated) || p.AuthorMayWrite {
		return nil
	}
	return ErrPermissionDenied
}

// CheckObject is the second phase: it re-runs CheckAction and then compares
// the caller against the author of the loaded resource.
func (p Policy) CheckObject(a Action, c *Caller, authorID string) error {
	if err := p.CheckAction(a, c); err != nil {
		return err
	}
	if c == nil || !p.Restricts(a) || c.hasAnyRole(p.Elevated) {
		return nil
	}
	if p.AuthorMayWrite && c.UserID == authorID {
		return nil
	}
	return ErrPermissionDenied
}
