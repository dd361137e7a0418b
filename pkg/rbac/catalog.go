package rbac

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicateRole is returned when a catalog lists the same role id twice
var ErrDuplicateRole = errors.New("duplicate role id")

// Catalog is the read-only set of role definitions for a project
type Catalog struct {
	roles []Role
	byID  map[string]Role
}

// NewCatalog builds a catalog, keeping the given order for listings
func NewCatalog(roles []Role) (*Catalog, error) {
	c := &Catalog{
		roles: make([]Role, 0, len(roles)),
		byID:  make(map[string]Role, len(roles)),
	}
	for _, role := range roles {
		if strings.TrimSpace(role.ID) == "" {
			return nil, fmt.Errorf("role %q has no id", role.Name)
		}
		if _, ok := c.byID[role.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRole, role.ID)
		}
		c.byID[role.ID] = role
		c.roles = append(c.roles, role)
	}
	return c, nil
}

// Lookup resolves a role id. A miss is a normal condition: stored bindings
// may reference roles that no longer exist.
func (c *Catalog) Lookup(roleID string) (Role, bool) {
	role, ok := c.byID[roleID]
	return role, ok
}

// Roles returns every role in catalog order
func (c *Catalog) Roles() []Role {
	out := make([]Role, len(c.roles))
	copy(out, c.roles)
	return out
}

// IsAssignable reports whether roleID can be granted through the workflow
func (c *Catalog) IsAssignable(roleID string) bool {
	if roleID == CustomRoleID {
		return false
	}
	_, ok := c.byID[roleID]
	return ok
}

// Assignable returns the roles offered by the add-principal role picker
func (c *Catalog) Assignable() []Role {
	out := make([]Role, 0, len(c.roles))
	for _, role := range c.roles {
		if c.IsAssignable(role.ID) {
			out = append(out, role)
		}
	}
	return out
}

// PrimaryRoleName returns the display name of the first binding's role, or
// "" when there are no bindings or the role is unknown.
func (c *Catalog) PrimaryRoleName(bindings []RoleBinding) string {
	if len(bindings) == 0 {
		return ""
	}
	role, ok := c.Lookup(bindings[0].RoleID)
	if !ok {
		return ""
	}
	return role.Name
}

// ResolveBindings pairs each binding with its role, skipping unknown ids
func (c *Catalog) ResolveBindings(bindings []RoleBinding) []ResolvedBinding {
	out := make([]ResolvedBinding, 0, len(bindings))
	for _, b := range bindings {
		role, ok := c.Lookup(b.RoleID)
		if !ok {
			continue
		}
		out = append(out, ResolvedBinding{Role: role, DateAdded: b.DateAdded})
	}
	return out
}

// ResolvedBinding is a binding whose role was found in the catalog
type ResolvedBinding struct {
	Role      Role   `json:"role"`
	DateAdded string `json:"date_added"`
}
