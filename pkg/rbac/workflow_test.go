package rbac

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorkflow(t *testing.T, kind PrincipalKind) (*Workflow, *Store) {
	t.Helper()
	catalog := testCatalog(t)
	store := testStore(t, catalog)
	wf := NewWorkflow(kind, store, catalog,
		WithClock(func() time.Time { return fixedNow }),
		WithPreferences(NewPreferences()),
	)
	return wf, store
}

func TestWorkflow_AddNewUserEndToEnd(t *testing.T) {
	wf, store := newTestWorkflow(t, KindUser)

	wf.Begin()
	candidates := wf.SetInput("NewPerson")
	require.Len(t, candidates, 1)
	require.True(t, candidates[0].Create)

	require.True(t, wf.Select(candidates[0]))
	require.True(t, wf.ToggleRole("role-project-contributor"))
	assert.True(t, wf.CanSave())

	result, saved, err := wf.Save()
	require.NoError(t, err)
	require.True(t, saved)

	assert.True(t, result.Created)
	assert.Equal(t, StateIdle, wf.State())

	entry, ok := store.FindByName(KindUser, "NewPerson")
	require.True(t, ok)
	assert.Equal(t, []RoleBinding{{RoleID: "role-project-contributor", DateAdded: "25 Nov 2025"}}, entry.Roles)

	// reopening for the same name shows the role as already granted
	wf.Begin()
	require.True(t, wf.SelectExisting("NewPerson"))
	for _, opt := range wf.RoleOptions() {
		if opt.Role.ID == "role-project-contributor" {
			assert.True(t, opt.Disabled)
			assert.False(t, opt.Selected)
		}
	}
	assert.False(t, wf.ToggleRole("role-project-contributor"))
}

func TestWorkflow_SelectExistingDropsGrantedRoles(t *testing.T) {
	wf, _ := newTestWorkflow(t, KindUser)

	wf.Begin()
	require.True(t, wf.ToggleRole("role-project-access"))
	require.True(t, wf.ToggleRole("role-project-admin"))

	require.True(t, wf.SelectExisting("Deena"))

	snap := wf.Snapshot()
	assert.Equal(t, []string{"role-project-admin"}, snap.SelectedRoleIDs)
	require.NotNil(t, snap.SelectedName)
	assert.Equal(t, "Deena", *snap.SelectedName)
	assert.Equal(t, "Deena", snap.NameInput)
	assert.True(t, snap.Existing)
}

func TestWorkflow_SaveMergesIntoExistingPrincipal(t *testing.T) {
	wf, store := newTestWorkflow(t, KindUser)

	wf.Begin()
	wf.SetInput("Jo")
	require.True(t, wf.SelectExisting("John"))
	require.True(t, wf.ToggleRole("role-pipeline-reader"))

	result, saved, err := wf.Save()
	require.NoError(t, err)
	require.True(t, saved)
	assert.False(t, result.Created)
	assert.Equal(t, "user-2", result.Entry.ID)

	assert.Len(t, store.ListPrincipals(KindUser), 5)
	assert.True(t, store.ExistingRoleIDs(KindUser, "John").Has("role-pipeline-reader"))
}

func TestWorkflow_SaveWithTypedNameMatchingExisting(t *testing.T) {
	wf, store := newTestWorkflow(t, KindUser)

	wf.Begin()
	wf.SetInput("  Maude ")
	require.True(t, wf.ToggleRole("role-project-access"))

	result, saved, err := wf.Save()
	require.NoError(t, err)
	require.True(t, saved)
	assert.False(t, result.Created)
	assert.Len(t, store.ListPrincipals(KindUser), 5)
}

func TestWorkflow_InertSave(t *testing.T) {
	t.Run("no roles staged", func(t *testing.T) {
		wf, store := newTestWorkflow(t, KindUser)
		before := store.ListPrincipals(KindUser)

		wf.Begin()
		wf.SetInput("Someone")
		require.True(t, wf.SelectCreate())

		_, saved, err := wf.Save()
		require.NoError(t, err)
		assert.False(t, saved)
		assert.Equal(t, StateComposing, wf.State())
		assert.Equal(t, before, store.ListPrincipals(KindUser))
	})

	t.Run("blank name", func(t *testing.T) {
		wf, store := newTestWorkflow(t, KindUser)
		before := store.ListPrincipals(KindUser)

		wf.Begin()
		wf.SetInput("   ")
		require.True(t, wf.ToggleRole("role-project-admin"))

		_, saved, err := wf.Save()
		require.NoError(t, err)
		assert.False(t, saved)
		assert.Equal(t, before, store.ListPrincipals(KindUser))
	})

	t.Run("idle", func(t *testing.T) {
		wf, _ := newTestWorkflow(t, KindUser)

		_, saved, err := wf.Save()
		require.NoError(t, err)
		assert.False(t, saved)
	})
}

func TestWorkflow_IdleTransitionsAreInert(t *testing.T) {
	wf, _ := newTestWorkflow(t, KindGroup)

	assert.Empty(t, wf.SetInput("x"))
	assert.False(t, wf.SelectCreate())
	assert.False(t, wf.SelectExisting("dedicated-admins"))
	assert.False(t, wf.ClearSelection())
	assert.False(t, wf.ToggleRole("role-project-admin"))

	snap := wf.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Equal(t, "", snap.NameInput)
	assert.Empty(t, snap.SelectedRoleIDs)
	assert.Empty(t, snap.RoleOptions)
}

func TestWorkflow_ToggleRoleRules(t *testing.T) {
	wf, _ := newTestWorkflow(t, KindUser)
	wf.Begin()

	assert.False(t, wf.ToggleRole(CustomRoleID))
	assert.False(t, wf.ToggleRole("role-gone"))

	assert.True(t, wf.ToggleRole("role-project-admin"))
	assert.True(t, wf.ToggleRole("role-project-admin"))
	assert.Empty(t, wf.Snapshot().SelectedRoleIDs)
}

func TestWorkflow_SelectCreateTrimsAndRejectsBlank(t *testing.T) {
	wf, _ := newTestWorkflow(t, KindUser)
	wf.Begin()

	wf.SetInput("   ")
	assert.False(t, wf.SelectCreate())
	assert.Nil(t, wf.Snapshot().SelectedName)

	wf.SetInput("  Fresh Face ")
	require.True(t, wf.SelectCreate())
	snap := wf.Snapshot()
	require.NotNil(t, snap.SelectedName)
	assert.Equal(t, "Fresh Face", *snap.SelectedName)
	assert.False(t, snap.Existing)
}

func TestWorkflow_ClearSelectionKeepsRoles(t *testing.T) {
	wf, _ := newTestWorkflow(t, KindUser)
	wf.Begin()

	wf.SetInput("Fresh")
	wf.SelectCreate()
	wf.ToggleRole("role-project-access")

	require.True(t, wf.ClearSelection())
	snap := wf.Snapshot()
	assert.Nil(t, snap.SelectedName)
	assert.Equal(t, "", snap.NameInput)
	assert.Equal(t, []string{"role-project-access"}, snap.SelectedRoleIDs)
	assert.False(t, snap.CanSave)
}

func TestWorkflow_CancelDiscardsEverything(t *testing.T) {
	wf, store := newTestWorkflow(t, KindUser)
	before := store.ListPrincipals(KindUser)

	wf.Begin()
	wf.SetInput("Temp")
	wf.SelectCreate()
	wf.ToggleRole("role-project-admin")
	wf.Cancel()

	assert.Equal(t, StateIdle, wf.State())
	assert.Equal(t, before, store.ListPrincipals(KindUser))

	wf.Begin()
	snap := wf.Snapshot()
	assert.Equal(t, "", snap.NameInput)
	assert.Empty(t, snap.SelectedRoleIDs)
}

func TestWorkflow_RoleOptions(t *testing.T) {
	catalog := testCatalog(t)
	store := testStore(t, catalog)
	prefs := NewPreferences()
	prefs.ToggleExpanded("role-project-access")

	wf := NewWorkflow(KindUser, store, catalog, WithPreferences(prefs))
	wf.Begin()
	wf.SelectExisting("Diana")
	wf.ToggleRole("role-project-admin")

	options := wf.RoleOptions()
	require.Len(t, options, len(catalog.Assignable()))

	byID := make(map[string]RoleOption)
	for _, opt := range options {
		byID[opt.Role.ID] = opt
	}
	assert.NotContains(t, byID, CustomRoleID)
	assert.True(t, byID["role-project-admin"].Selected)
	assert.True(t, byID["role-project-access"].Disabled)
	assert.True(t, byID["role-project-access"].Expanded)
	assert.False(t, byID["role-pipeline-reader"].Disabled)
}

func TestWorkflow_InstancesAreIndependent(t *testing.T) {
	catalog := testCatalog(t)
	store := testStore(t, catalog)
	users := NewWorkflow(KindUser, store, catalog)
	groups := NewWorkflow(KindGroup, store, catalog)

	users.Begin()
	users.SetInput("Maude")
	groups.Begin()

	assert.Equal(t, "Maude", users.Snapshot().NameInput)
	assert.Equal(t, "", groups.Snapshot().NameInput)
	assert.Equal(t, []Candidate{{Name: "dedicated-admins", Label: "dedicated-admins"}}, groups.Candidates())
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "30 Oct 2024", FormatDate(time.Date(2024, time.October, 30, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, "5 Jan 2025", FormatDate(time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC)))
}
