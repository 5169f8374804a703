package kernel

import (
	"errors"
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Role is the authority an actor acts with.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleCourier Role = "COURIER"
	RoleSystem  Role = "SYSTEM"
)

var ErrActorIsNotConstructed = errs.NewValueIsRequiredError("actor must be created via NewActor constructor")

// ParseRole maps a role claim or column value onto the closed Role set.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleCourier, RoleSystem:
		return r, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", s))
	}
}

func (r Role) String() string {
	return string(r)
}

// Actor is who requests a mutation. It travels explicitly with every command.
type Actor struct {
	role  Role
	id    string
	guard guard.ConstructorGuard
}

// NewActor builds an actor. Courier actors must carry a courier UUID so that
// ownership checks can compare it with the order's assignment.
func NewActor(role Role, id string) (Actor, error) {
	if _, err := ParseRole(string(role)); err != nil {
		return Actor{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Actor{}, errs.NewValueIsRequiredError("actor id")
	}
	if role == RoleCourier {
		if _, err := UUIDFromString(id); err != nil {
			return Actor{}, errors.Join(errs.NewValueIsInvalidError("courier actor id"), err)
		}
	}
	return Actor{role: role, id: id, guard: guard.NewConstructorGuard()}, nil
}

// SystemActor is the identity used by jobs and message consumers.
func SystemActor(component string) Actor {
	return Actor{role: RoleSystem, id: component, guard: guard.NewConstructorGuard()}
}

func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}

func (a Actor) Role() Role {
	return a.role
}

func (a Actor) ID() string {
	return a.id
}

func (a Actor) IsAdmin() bool {
	return a.role == RoleAdmin
}

func (a Actor) IsCourier() bool {
	return a.role == RoleCourier
}

func (a Actor) IsSystem() bool {
	return a.role == RoleSystem
}

// IsCourierWithID reports whether the actor is the courier identified by id.
func (a Actor) IsCourierWithID(id UUID) bool {
	return a.role == RoleCourier && a.id == id.String()
}
