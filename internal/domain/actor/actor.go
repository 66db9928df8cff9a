package actor

import (
	"errors"

	"github.com/google/uuid"
)

var ErrUnknownRole = errors.New("unknown actor role")

// Role is the opaque role the authentication collaborator attaches to a
// request. Credentials themselves are never handled here.
type Role string

const (
	// RoleCustomer sells cardboard.
	RoleCustomer Role = "customer"
	// RoleCollector buys, picks up and settles cardboard.
	RoleCollector Role = "collector"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCustomer, RoleCollector:
		return Role(s), nil
	default:
		return "", ErrUnknownRole
	}
}

func (r Role) String() string {
	return string(r)
}

// Actor identifies who is performing an operation.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

func (a Actor) IsCustomer() bool  { return a.Role == RoleCustomer }
func (a Actor) IsCollector() bool { return a.Role == RoleCollector }
