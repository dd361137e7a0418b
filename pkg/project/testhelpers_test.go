package project

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/xianli123/rhoai-project-permission/pkg/observability"
	"github.com/xianli123/rhoai-project-permission/pkg/rbac"
)

var fixedNow = func() time.Time {
	return time.Date(2025, time.November, 25, 10, 0, 0, 0, time.UTC)
}

// fakeSource serves a fixed project list and seeds each store with the
// same two users and one group
type fakeSource struct {
	projects []Project
	catalog  *rbac.Catalog
	stores   int
}

func newFakeSource(t *testing.T, projects ...Project) *fakeSource {
	t.Helper()
	catalog, err := rbac.NewCatalog([]rbac.Role{
		{ID: "role-project-admin", Name: "Project admin", Label: "AI", Assignees: []string{"Maude"}},
		{ID: "role-project-access", Name: "Project access", Label: "AI", Assignees: []string{"Deena"}},
		{
			ID:   "role-workbench-maintainer",
			Name: "Workbench maintainer",
			AssigneeDetails: []rbac.RoleAssignee{
				{RoleBinding: "rb-b", Subject: "Zed", SubjectType: rbac.SubjectUser, DateAdded: "1 Jan 2024"},
				{RoleBinding: "rb-a", Subject: "Amy", SubjectType: rbac.SubjectUser, DateAdded: "2 Jan 2024"},
			},
		},
		{ID: rbac.CustomRoleID, Name: "this-is-the-k8s-role-name", Label: "AI"},
	})
	require.NoError(t, err)
	if len(projects) == 0 {
		projects = []Project{{ID: "project-1", Name: "Demo"}}
	}
	return &fakeSource{projects: projects, catalog: catalog}
}

func (f *fakeSource) Projects() []Project { return f.projects }

func (f *fakeSource) Project(id string) (Project, bool) {
	for _, p := range f.projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}

func (f *fakeSource) Catalog() *rbac.Catalog { return f.catalog }

func (f *fakeSource) NewStore(catalog *rbac.Catalog) (*rbac.Store, error) {
	f.stores++
	store := rbac.NewStore(catalog)
	if err := store.Seed(rbac.KindUser, []rbac.PrincipalEntry{
		{ID: "user-1", Name: "Maude", DateAdded: "30 Oct 2024", Roles: []rbac.RoleBinding{{RoleID: "role-project-admin", DateAdded: "30 Oct 2024"}}},
		{ID: "user-2", Name: "Deena", DateAdded: "15 Jan 2023", Roles: []rbac.RoleBinding{{RoleID: "role-project-access", DateAdded: "15 Jan 2023"}}},
	}); err != nil {
		return nil, err
	}
	if err := store.Seed(rbac.KindGroup, []rbac.PrincipalEntry{
		{ID: "group-1", Name: "dedicated-admins", DateAdded: "30 Oct 2024", Roles: []rbac.RoleBinding{{RoleID: rbac.CustomRoleID, DateAdded: "30 Oct 2024"}}},
	}); err != nil {
		return nil, err
	}
	return store, nil
}

func testRegistry(t *testing.T, source Source, opts ...Option) (*Registry, *observability.Metrics) {
	t.Helper()
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	logger, _ := test.NewNullLogger()
	opts = append([]Option{WithMetrics(metrics), WithLogger(logger), WithClock(fixedNow)}, opts...)
	return NewRegistry(source, opts...), metrics
}

func testSession(t *testing.T) (*Session, *observability.Metrics) {
	t.Helper()
	r, metrics := testRegistry(t, newFakeSource(t))
	s, err := r.Session("project-1")
	require.NoError(t, err)
	return s, metrics
}
