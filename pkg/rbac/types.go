package rbac

// PrincipalKind identifies which collection a principal lives in
type PrincipalKind string

const (
	KindUser  PrincipalKind = "user"
	KindGroup PrincipalKind = "group"
)

// Kinds lists every principal kind in display order
var Kinds = []PrincipalKind{KindUser, KindGroup}

// Valid reports whether k is a known principal kind
func (k PrincipalKind) Valid() bool {
	return k == KindUser || k == KindGroup
}

// SubjectType returns the subject type shown for bindings of this kind
func (k PrincipalKind) SubjectType() SubjectType {
	if k == KindGroup {
		return SubjectGroup
	}
	return SubjectUser
}

// ParseKind accepts both the singular and plural collection names
func ParseKind(s string) (PrincipalKind, bool) {
	switch s {
	case "user", "users":
		return KindUser, true
	case "group", "groups":
		return KindGroup, true
	}
	return "", false
}

// SubjectType is the subject column of a role assignee row
type SubjectType string

const (
	SubjectUser  SubjectType = "User"
	SubjectGroup SubjectType = "Group"
)

// RoleCategory tells which platform defines a role
type RoleCategory string

const (
	CategoryRHOAI      RoleCategory = "RHOAI"
	CategoryKubernetes RoleCategory = "Kubernetes"
)

// CustomRoleID is the opaque platform-defined role. It can be viewed but
// never granted through the add workflow.
const CustomRoleID = "role-custom"

// RuleDescriptor summarizes the access rules of a role as display strings
type RuleDescriptor struct {
	Actions       string `json:"actions" yaml:"actions"`
	Resources     string `json:"resources" yaml:"resources"`
	ResourceNames string `json:"resource_names" yaml:"resourceNames"`
}

// Role is a catalog entry. Roles are immutable for the lifetime of a session.
type Role struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Label       string         `json:"label"`
	Description string         `json:"description"`
	RealName    string         `json:"real_name,omitempty"`
	Category    RoleCategory   `json:"category,omitempty"`
	Rule        RuleDescriptor `json:"rule"`

	// Assignees is the default roster used when no explicit one is recorded
	Assignees []string `json:"assignees"`

	// AssigneeDetails is the explicit roster; nil means none was recorded
	AssigneeDetails []RoleAssignee `json:"assignee_details,omitempty"`
}

// DisplayCategory returns the category, defaulting to RHOAI
func (r Role) DisplayCategory() RoleCategory {
	if r.Category == "" {
		return CategoryRHOAI
	}
	return r.Category
}

// ShowLabel reports whether the short label tag is rendered next to the name
func (r Role) ShowLabel() bool {
	return r.ID != CustomRoleID && r.Label != ""
}

// RoleBinding records that a role was granted on a given date
type RoleBinding struct {
	RoleID    string `json:"role_id"`
	DateAdded string `json:"date_added"`
}

// PrincipalEntry is a user or group together with its role bindings.
// Name is the identity used for merging; ID is stable once created.
type PrincipalEntry struct {
	ID   string        `json:"id"`
	Name string        `json:"name"`
	Kind PrincipalKind `json:"kind"`

	// Roles is in grant order and may repeat a role id
	Roles []RoleBinding `json:"roles"`

	// DateAdded is the legacy per-entry date. Sorting uses it; display uses
	// the per-binding dates.
	DateAdded string `json:"date_added"`
}

// RoleIDs returns the set of role ids held by the entry
func (p PrincipalEntry) RoleIDs() *RoleSet {
	set := NewRoleSet()
	for _, b := range p.Roles {
		set.Add(b.RoleID)
	}
	return set
}

// HasRole reports whether any binding grants roleID
func (p PrincipalEntry) HasRole(roleID string) bool {
	for _, b := range p.Roles {
		if b.RoleID == roleID {
			return true
		}
	}
	return false
}

func (p PrincipalEntry) clone() PrincipalEntry {
	out := p
	out.Roles = make([]RoleBinding, len(p.Roles))
	copy(out.Roles, p.Roles)
	return out
}

// RoleAssignee is one row of the role detail assignees table
type RoleAssignee struct {
	RoleBinding string      `json:"role_binding"`
	Subject     string      `json:"subject"`
	SubjectType SubjectType `json:"subject_type"`
	DateAdded   string      `json:"date_added"`
}

// MergeResult describes the outcome of Store.MergeOrCreate
type MergeResult struct {
	Entry   PrincipalEntry `json:"entry"`
	Created bool           `json:"created"`
	Added   []RoleBinding  `json:"added"`
}
