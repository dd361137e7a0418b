package rbac

import (
	"fmt"
	"sync"
)

// RoleMenuVariant selects how the role picker renders its options
type RoleMenuVariant string

const (
	MenuVariantCurrent RoleMenuVariant = "current"
	MenuVariantAlt     RoleMenuVariant = "alt"
)

// Preferences holds display toggles shared by every role picker in the
// process. Readers take a Snapshot rather than holding the live value.
type Preferences struct {
	mu       sync.RWMutex
	variant  RoleMenuVariant
	expanded *RoleSet
}

// PreferencesSnapshot is an immutable copy of Preferences
type PreferencesSnapshot struct {
	RoleMenuVariant RoleMenuVariant `json:"role_menu_variant"`
	ExpandedRoles   []string        `json:"expanded_roles"`

	expanded map[string]struct{}
}

// IsExpanded reports whether the role's rule summary is expanded
func (p PreferencesSnapshot) IsExpanded(roleID string) bool {
	_, ok := p.expanded[roleID]
	return ok
}

// NewPreferences returns the default preferences
func NewPreferences() *Preferences {
	return &Preferences{
		variant:  MenuVariantCurrent,
		expanded: NewRoleSet(),
	}
}

// Snapshot copies the current values
func (p *Preferences) Snapshot() PreferencesSnapshot {
	if p == nil {
		return PreferencesSnapshot{RoleMenuVariant: MenuVariantCurrent, ExpandedRoles: []string{}}
	}
	p.mu.RLock()
	defer p.mu.RUnlock()

	ids := p.expanded.IDs()
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return PreferencesSnapshot{
		RoleMenuVariant: p.variant,
		ExpandedRoles:   ids,
		expanded:        set,
	}
}

// SetRoleMenuVariant switches the picker rendering
func (p *Preferences) SetRoleMenuVariant(v RoleMenuVariant) error {
	if v != MenuVariantCurrent && v != MenuVariantAlt {
		return fmt.Errorf("invalid role menu variant %q", v)
	}
	p.mu.Lock()
	p.variant = v
	p.mu.Unlock()
	return nil
}

// ToggleExpanded flips the expansion of a role and returns the new state
func (p *Preferences) ToggleExpanded(roleID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.expanded.Toggle(roleID)
}
