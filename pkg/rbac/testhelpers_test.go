package rbac

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fixedNow is the clock used by workflow tests
var fixedNow = time.Date(2025, time.November, 25, 10, 30, 0, 0, time.UTC)

func testRoles() []Role {
	return []Role{
		{
			ID:          "role-project-admin",
			Name:        "Project admin",
			Label:       "AI",
			Description: "Full project administration access.",
			RealName:    "project-admin",
			Rule:        RuleDescriptor{Actions: "create, delete, get, list, patch, update, watch", Resources: "project resources", ResourceNames: "—"},
			Assignees:   []string{"Maude"},
		},
		{
			ID:          "role-project-contributor",
			Name:        "Project contributor",
			Label:       "AI",
			Description: "Contribute to project workloads.",
			RealName:    "project-contributor",
			Rule:        RuleDescriptor{Actions: "get, list, patch, update, watch", Resources: "project resources", ResourceNames: "—"},
			Assignees:   []string{"John"},
		},
		{
			ID:          "role-project-access",
			Name:        "Project access",
			Label:       "AI",
			Description: "View access to project.",
			RealName:    "project-access",
			Rule:        RuleDescriptor{Actions: "get, list, watch", Resources: "project resources", ResourceNames: "—"},
			Assignees:   []string{"Deena", "Diana", "Jeff"},
		},
		{
			ID:          "role-workbench-maintainer",
			Name:        "Workbench maintainer",
			Label:       "AI",
			Description: "Manage and maintain workbenches.",
			RealName:    "workbench-maintainer",
			Category:    CategoryRHOAI,
			Rule:        RuleDescriptor{Actions: "create, delete, get, list, patch, update, watch", Resources: "workbenches", ResourceNames: "—"},
			Assignees:   []string{"Deena", "Diana", "Jeff"},
			AssigneeDetails: []RoleAssignee{
				{RoleBinding: "rb-wb-updater-deena", Subject: "Deena", SubjectType: SubjectUser, DateAdded: "30 Oct 2024"},
				{RoleBinding: "rb-wb-updater-diana", Subject: "Diana", SubjectType: SubjectUser, DateAdded: "30 Oct 2024"},
				{RoleBinding: "rb-wb-updater-jeff", Subject: "Jeff", SubjectType: SubjectUser, DateAdded: "30 Oct 2024"},
				{RoleBinding: "rb-wb-updater-workbench team", Subject: "workbench team", SubjectType: SubjectGroup, DateAdded: "30 Oct 2024"},
			},
		},
		{
			ID:          "role-pipeline-reader",
			Name:        "Pipeline reader",
			Label:       "AI",
			Description: "Read access to pipelines.",
			RealName:    "pipeline-reader",
			Rule:        RuleDescriptor{Actions: "get, list, watch", Resources: "pipelines", ResourceNames: "—"},
			Assignees:   []string{"Deena"},
		},
		{
			ID:          CustomRoleID,
			Name:        "this-is-the-k8s-role-name",
			Label:       "AI",
			Description: "Custom cluster role",
			RealName:    "custom-role",
			Category:    CategoryKubernetes,
			Rule:        RuleDescriptor{Actions: "create, delete, get, list, patch, update, watch", Resources: "workbenches", ResourceNames: "—"},
			Assignees:   []string{"Gary"},
		},
	}
}

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	catalog, err := NewCatalog(testRoles())
	require.NoError(t, err)
	return catalog
}

func sequentialIDs() StoreOption {
	n := 0
	return WithIDGenerator(func(kind PrincipalKind) string {
		n++
		return fmt.Sprintf("%s-new-%d", kind, n)
	})
}

// testStore returns a store seeded with a subset of the default users and
// groups.
func testStore(t *testing.T, catalog *Catalog) *Store {
	t.Helper()
	store := NewStore(catalog, sequentialIDs())
	require.NoError(t, store.Seed(KindUser, []PrincipalEntry{
		{ID: "user-1", Name: "Maude", DateAdded: "30 Oct 2024", Roles: []RoleBinding{{RoleID: "role-project-admin", DateAdded: "30 Oct 2024"}}},
		{ID: "user-2", Name: "John", DateAdded: "30 Oct 2024", Roles: []RoleBinding{{RoleID: "role-project-contributor", DateAdded: "30 Oct 2024"}}},
		{ID: "user-3", Name: "Deena", DateAdded: "30 Oct 2024", Roles: []RoleBinding{
			{RoleID: "role-project-access", DateAdded: "30 Oct 2024"},
			{RoleID: "role-workbench-maintainer", DateAdded: "25 Nov 2025"},
			{RoleID: "role-pipeline-reader", DateAdded: "15 Jan 2023"},
		}},
		{ID: "user-4", Name: "Diana", DateAdded: "30 Oct 2024", Roles: []RoleBinding{
			{RoleID: "role-project-access", DateAdded: "30 Oct 2024"},
			{RoleID: "role-workbench-maintainer", DateAdded: "30 Oct 2024"},
		}},
		{ID: "user-6", Name: "Gary", DateAdded: "30 Oct 2024", Roles: []RoleBinding{{RoleID: CustomRoleID, DateAdded: "30 Oct 2024"}}},
	}))
	require.NoError(t, store.Seed(KindGroup, []PrincipalEntry{
		{ID: "group-1", Name: "dedicated-admins", DateAdded: "30 Oct 2024", Roles: []RoleBinding{{RoleID: CustomRoleID, DateAdded: "30 Oct 2024"}}},
	}))
	return store
}

func names(entries []PrincipalEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}
