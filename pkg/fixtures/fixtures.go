package fixtures

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/xianli123/rhoai-project-permission/pkg/project"
	"github.com/xianli123/rhoai-project-permission/pkg/rbac"
)

//go:embed default.yaml
var defaultData []byte

// ErrDuplicateProject is returned when two projects share an id
var ErrDuplicateProject = errors.New("duplicate project id")

var validate = validator.New()

// Document is the on-disk layout of a fixture file
type Document struct {
	Projects []ProjectDoc   `yaml:"projects" validate:"required,min=1,dive"`
	Roles    []RoleDoc      `yaml:"roles" validate:"required,min=1,dive"`
	Users    []PrincipalDoc `yaml:"users" validate:"dive"`
	Groups   []PrincipalDoc `yaml:"groups" validate:"dive"`
}

// ProjectDoc is a project overview record
type ProjectDoc struct {
	ID               string `yaml:"id" validate:"required"`
	Name             string `yaml:"name" validate:"required"`
	Owner            string `yaml:"owner"`
	Description      string `yaml:"description"`
	CreatedAt        string `yaml:"createdAt"`
	WorkbenchRunning int    `yaml:"workbenchRunning" validate:"gte=0"`
	WorkbenchStopped int    `yaml:"workbenchStopped" validate:"gte=0"`
}

// RoleDoc is a role catalog entry
type RoleDoc struct {
	ID              string              `yaml:"id" validate:"required"`
	Name            string              `yaml:"name" validate:"required"`
	Label           string              `yaml:"label"`
	Description     string              `yaml:"description"`
	RealName        string              `yaml:"realName"`
	Category        string              `yaml:"category" validate:"omitempty,oneof=RHOAI Kubernetes"`
	Rule            rbac.RuleDescriptor `yaml:"rule"`
	Assignees       []string            `yaml:"assignees"`
	AssigneeDetails []AssigneeDoc       `yaml:"assigneeDetails" validate:"omitempty,dive"`
}

// AssigneeDoc is one row of an explicit assignee roster
type AssigneeDoc struct {
	RoleBinding string `yaml:"roleBinding" validate:"required"`
	Subject     string `yaml:"subject" validate:"required"`
	SubjectType string `yaml:"subjectType" validate:"required,oneof=User Group"`
	DateAdded   string `yaml:"dateAdded"`
}

// PrincipalDoc is a seeded user or group
type PrincipalDoc struct {
	ID        string       `yaml:"id"`
	Name      string       `yaml:"name" validate:"required"`
	DateAdded string       `yaml:"dateAdded"`
	Roles     []BindingDoc `yaml:"roles" validate:"dive"`
}

// BindingDoc is a seeded role binding
type BindingDoc struct {
	RoleID    string `yaml:"roleId" validate:"required"`
	DateAdded string `yaml:"dateAdded"`
}

// Set is a validated fixture document. It is read-only once loaded.
type Set struct {
	projects []project.Project
	byID     map[string]project.Project
	catalog  *rbac.Catalog
	users    []rbac.PrincipalEntry
	groups   []rbac.PrincipalEntry
}

var _ project.Source = (*Set)(nil)

// Default returns the embedded seed data
func Default() (*Set, error) {
	return Parse(defaultData)
}

// Load reads a fixture file; an empty path loads the embedded default
func Load(path string) (*Set, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}
	set, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// Parse decodes and validates a fixture document
func Parse(data []byte) (*Set, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	if err := validate.Struct(&doc); err != nil {
		return nil, fmt.Errorf("invalid fixtures: %w", err)
	}
	return newSet(&doc)
}

func newSet(doc *Document) (*Set, error) {
	s := &Set{
		projects: make([]project.Project, 0, len(doc.Projects)),
		byID:     make(map[string]project.Project, len(doc.Projects)),
	}
	for _, p := range doc.Projects {
		if _, ok := s.byID[p.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateProject, p.ID)
		}
		rec := project.Project{
			ID:               p.ID,
			Name:             p.Name,
			Owner:            p.Owner,
			Description:      p.Description,
			CreatedAt:        p.CreatedAt,
			WorkbenchRunning: p.WorkbenchRunning,
			WorkbenchStopped: p.WorkbenchStopped,
		}
		s.byID[p.ID] = rec
		s.projects = append(s.projects, rec)
	}

	roles := make([]rbac.Role, 0, len(doc.Roles))
	for _, r := range doc.Roles {
		roles = append(roles, r.role())
	}
	catalog, err := rbac.NewCatalog(roles)
	if err != nil {
		return nil, fmt.Errorf("invalid role catalog: %w", err)
	}
	s.catalog = catalog

	s.users = principals(doc.Users, rbac.KindUser)
	s.groups = principals(doc.Groups, rbac.KindGroup)

	// seeding a throwaway store catches blank and duplicate names up front
	if _, err := s.NewStore(catalog); err != nil {
		return nil, err
	}
	return s, nil
}

func (r RoleDoc) role() rbac.Role {
	role := rbac.Role{
		ID:          r.ID,
		Name:        r.Name,
		Label:       r.Label,
		Description: r.Description,
		RealName:    r.RealName,
		Category:    rbac.RoleCategory(r.Category),
		Rule:        r.Rule,
		Assignees:   append([]string(nil), r.Assignees...),
	}
	// a present but empty roster is still explicit
	if r.AssigneeDetails != nil {
		role.AssigneeDetails = make([]rbac.RoleAssignee, 0, len(r.AssigneeDetails))
		for _, a := range r.AssigneeDetails {
			role.AssigneeDetails = append(role.AssigneeDetails, rbac.RoleAssignee{
				RoleBinding: a.RoleBinding,
				Subject:     a.Subject,
				SubjectType: rbac.SubjectType(a.SubjectType),
				DateAdded:   a.DateAdded,
			})
		}
	}
	return role
}

func principals(docs []PrincipalDoc, kind rbac.PrincipalKind) []rbac.PrincipalEntry {
	out := make([]rbac.PrincipalEntry, 0, len(docs))
	for _, d := range docs {
		entry := rbac.PrincipalEntry{
			ID:        d.ID,
			Name:      d.Name,
			Kind:      kind,
			DateAdded: d.DateAdded,
			Roles:     make([]rbac.RoleBinding, 0, len(d.Roles)),
		}
		for _, b := range d.Roles {
			entry.Roles = append(entry.Roles, rbac.RoleBinding{RoleID: b.RoleID, DateAdded: b.DateAdded})
		}
		out = append(out, entry)
	}
	return out
}

// Projects returns the projects in file order
func (s *Set) Projects() []project.Project {
	out := make([]project.Project, len(s.projects))
	copy(out, s.projects)
	return out
}

// Project looks up a project by id
func (s *Set) Project(id string) (project.Project, bool) {
	p, ok := s.byID[id]
	return p, ok
}

// Catalog returns the role catalog
func (s *Set) Catalog() *rbac.Catalog {
	return s.catalog
}

// NewStore returns a fresh store seeded with the fixture principals
func (s *Set) NewStore(catalog *rbac.Catalog) (*rbac.Store, error) {
	store := rbac.NewStore(catalog)
	if err := store.Seed(rbac.KindUser, s.users); err != nil {
		return nil, fmt.Errorf("seeding users: %w", err)
	}
	if err := store.Seed(rbac.KindGroup, s.groups); err != nil {
		return nil, fmt.Errorf("seeding groups: %w", err)
	}
	return store, nil
}
