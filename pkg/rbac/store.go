package rbac

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrUnknownKind is returned for a principal kind other than user or group
	ErrUnknownKind = errors.New("unknown principal kind")
	// ErrBlankName is returned when merging under an empty name
	ErrBlankName = errors.New("principal name is blank")
	// ErrNoRoles is returned when merging an empty role set
	ErrNoRoles = errors.New("no roles to grant")
	// ErrUnknownRole is returned when granting a role missing from the catalog
	ErrUnknownRole = errors.New("role not in catalog")
	// ErrDuplicatePrincipal is returned when seeding two entries with one name
	ErrDuplicatePrincipal = errors.New("duplicate principal name")
)

// collection holds one namespace of principals. byName is the identity
// index: a name maps to exactly one id.
type collection struct {
	order  []string
	byID   map[string]*PrincipalEntry
	byName map[string]string
}

func newCollection() *collection {
	return &collection{
		byID:   make(map[string]*PrincipalEntry),
		byName: make(map[string]string),
	}
}

func (c *collection) findByName(name string) (*PrincipalEntry, bool) {
	id, ok := c.byName[name]
	if !ok {
		return nil, false
	}
	entry, ok := c.byID[id]
	return entry, ok
}

func (c *collection) insert(entry *PrincipalEntry) {
	c.order = append(c.order, entry.ID)
	c.byID[entry.ID] = entry
	c.byName[entry.Name] = entry.ID
}

// Store owns the mutable principal collections of one project
type Store struct {
	mu          sync.RWMutex
	catalog     *Catalog
	collections map[PrincipalKind]*collection
	newID       func(kind PrincipalKind) string
}

// StoreOption customizes a Store
type StoreOption func(*Store)

// WithIDGenerator replaces the id generator used for new principals
func WithIDGenerator(fn func(kind PrincipalKind) string) StoreOption {
	return func(s *Store) {
		s.newID = fn
	}
}

// NewStore creates an empty store that validates grants against catalog
func NewStore(catalog *Catalog, opts ...StoreOption) *Store {
	s := &Store{
		catalog: catalog,
		collections: map[PrincipalKind]*collection{
			KindUser:  newCollection(),
			KindGroup: newCollection(),
		},
		newID: func(kind PrincipalKind) string {
			return fmt.Sprintf("%s-%s", kind, uuid.NewString())
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) collection(kind PrincipalKind) (*collection, error) {
	c, ok := s.collections[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return c, nil
}

// Seed loads fixture entries. Role ids are not checked against the catalog
// because seed data may reference stale roles.
func (s *Store) Seed(kind PrincipalKind, entries []PrincipalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.collection(kind)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if strings.TrimSpace(e.Name) == "" {
			return ErrBlankName
		}
		if _, exists := c.byName[e.Name]; exists {
			return fmt.Errorf("%w: %s %q", ErrDuplicatePrincipal, kind, e.Name)
		}
		entry := e.clone()
		entry.Kind = kind
		if entry.ID == "" {
			entry.ID = s.newID(kind)
		}
		c.insert(&entry)
	}
	return nil
}

// ListPrincipals returns a snapshot of the collection in creation order
func (s *Store) ListPrincipals(kind PrincipalKind) []PrincipalEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[kind]
	if !ok {
		return []PrincipalEntry{}
	}
	out := make([]PrincipalEntry, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id].clone())
	}
	return out
}

// Names returns principal names in creation order
func (s *Store) Names(kind PrincipalKind) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[kind]
	if !ok {
		return []string{}
	}
	names := make([]string, 0, len(c.order))
	for _, id := range c.order {
		names = append(names, c.byID[id].Name)
	}
	return names
}

// FindByName looks a principal up by its exact name
func (s *Store) FindByName(kind PrincipalKind, name string) (PrincipalEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[kind]
	if !ok {
		return PrincipalEntry{}, false
	}
	entry, ok := c.findByName(name)
	if !ok {
		return PrincipalEntry{}, false
	}
	return entry.clone(), true
}

// Exists reports whether a principal with name is present
func (s *Store) Exists(kind PrincipalKind, name string) bool {
	_, ok := s.FindByName(kind, name)
	return ok
}

// ExistingRoleIDs returns the roles already granted to name, or an empty
// set when no such principal exists.
func (s *Store) ExistingRoleIDs(kind PrincipalKind, name string) *RoleSet {
	entry, ok := s.FindByName(kind, name)
	if !ok {
		return NewRoleSet()
	}
	return entry.RoleIDs()
}

// MergeOrCreate grants roleIDs to the principal called name. An existing
// principal gets one new binding per role appended, duplicates included; an
// unknown name creates a new entry. Bindings are stamped grantedOn.
func (s *Store) MergeOrCreate(kind PrincipalKind, name string, roleIDs *RoleSet, grantedOn string) (MergeResult, error) {
	if strings.TrimSpace(name) == "" {
		return MergeResult{}, ErrBlankName
	}
	if roleIDs.Len() == 0 {
		return MergeResult{}, ErrNoRoles
	}
	ids := roleIDs.IDs()
	if s.catalog != nil {
		for _, id := range ids {
			if _, ok := s.catalog.Lookup(id); !ok {
				return MergeResult{}, fmt.Errorf("%w: %s", ErrUnknownRole, id)
			}
		}
	}

	added := make([]RoleBinding, 0, len(ids))
	for _, id := range ids {
		added = append(added, RoleBinding{RoleID: id, DateAdded: grantedOn})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.collection(kind)
	if err != nil {
		return MergeResult{}, err
	}

	if entry, ok := c.findByName(name); ok {
		entry.Roles = append(entry.Roles, added...)
		return MergeResult{Entry: entry.clone(), Added: added}, nil
	}

	entry := &PrincipalEntry{
		ID:        s.newID(kind),
		Name:      name,
		Kind:      kind,
		Roles:     append([]RoleBinding(nil), added...),
		DateAdded: grantedOn,
	}
	c.insert(entry)
	return MergeResult{Entry: entry.clone(), Created: true, Added: added}, nil
}
