package model

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleMember    Role = "member"
	RoleLibrarian Role = "librarian"
	RoleAdmin     Role = "admin"
)

var roleRank = map[Role]int{
	RoleMember:    1,
	RoleLibrarian: 2,
	RoleAdmin:     3,
}

// ParseRole accepts the legacy "user" value as a member.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleMember, RoleLibrarian, RoleAdmin:
		return r, nil
	case "user":
		return RoleMember, nil
	default:
		return "", fmt.Errorf("invalid role %q", s)
	}
}

func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r grants everything min grants.
func (r Role) AtLeast(min Role) bool {
	return r.Valid() && roleRank[r] >= roleRank[min]
}

func (r Role) String() string { return string(r) }
