package rbac

import "encoding/json"

// RoleSet is a set of role ids that remembers insertion order, so merges
// append bindings in the order roles were staged.
type RoleSet struct {
	ids   []string
	index map[string]struct{}
}

// NewRoleSet builds a set from ids, dropping duplicates
func NewRoleSet(ids ...string) *RoleSet {
	s := &RoleSet{index: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id and reports whether it was absent
func (s *RoleSet) Add(id string) bool {
	if _, ok := s.index[id]; ok {
		return false
	}
	s.index[id] = struct{}{}
	s.ids = append(s.ids, id)
	return true
}

// Remove deletes id and reports whether it was present
func (s *RoleSet) Remove(id string) bool {
	if _, ok := s.index[id]; !ok {
		return false
	}
	delete(s.index, id)
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
	return true
}

// Toggle adds id when absent and removes it otherwise. It returns true when
// id is in the set afterwards.
func (s *RoleSet) Toggle(id string) bool {
	if s.Remove(id) {
		return false
	}
	s.Add(id)
	return true
}

// Has reports membership
func (s *RoleSet) Has(id string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[id]
	return ok
}

// Len returns the number of ids
func (s *RoleSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

// IDs returns the ids in insertion order
func (s *RoleSet) IDs() []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Clone returns an independent copy
func (s *RoleSet) Clone() *RoleSet {
	return NewRoleSet(s.IDs()...)
}

// MarshalJSON encodes the set as an ordered array
func (s *RoleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.IDs())
}
