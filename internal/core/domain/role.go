package domain

import (
	"fmt"
	"strings"
)

const (
	RoleCustomer      = "customer"
	RoleRentalCompany = "rental-company"
	RoleAdmin         = "admin"
)

// DefaultRoles is the marketplace role enumeration used when none is configured.
var DefaultRoles = []string{RoleCustomer, RoleRentalCompany, RoleAdmin}

// RoleSet is the closed, configured enumeration of roles a user may hold.
type RoleSet struct {
	names       []string
	index       map[string]struct{}
	defaultRole string
}

// ParseRoleSet validates a configured role list and its default member.
func ParseRoleSet(names []string, defaultRole string) (RoleSet, error) {
	rs := RoleSet{index: make(map[string]struct{}, len(names))}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			return RoleSet{}, fmt.Errorf("%w: blank role name", ErrConfiguration)
		}
		if _, dup := rs.index[n]; dup {
			return RoleSet{}, fmt.Errorf("%w: duplicate role %q", ErrConfiguration, n)
		}
		rs.index[n] = struct{}{}
		rs.names = append(rs.names, n)
	}
	if len(rs.names) == 0 {
		return RoleSet{}, fmt.Errorf("%w: role set is empty", ErrConfiguration)
	}

	defaultRole = strings.TrimSpace(defaultRole)
	if _, ok := rs.index[defaultRole]; !ok {
		return RoleSet{}, fmt.Errorf("%w: default role %q is not a configured role", ErrConfiguration, defaultRole)
	}
	rs.defaultRole = defaultRole
	return rs, nil
}

// Contains reports whether role is a member of the set.
func (rs RoleSet) Contains(role string) bool {
	_, ok := rs.index[role]
	return ok
}

// Default is the role assigned when registration does not name one.
func (rs RoleSet) Default() string { return rs.defaultRole }

// Names returns the roles in configuration order.
func (rs RoleSet) Names() []string {
	out := make([]string, len(rs.names))
	copy(out, rs.names)
	return out
}

// Require checks that every role in roles belongs to the set.
func (rs RoleSet) Require(roles []string) error {
	for _, r := range roles {
		if !rs.Contains(r) {
			return fmt.Errorf("%w: role %q is not a configured role", ErrConfiguration, r)
		}
	}
	return nil
}
