// Package rbac models the permissions of a single data science project: the
// catalog of roles that can be granted, the users and groups holding them,
// and the interactions used to grant more.
//
// # Overview
//
// The package is organized around five pieces:
//
//	Catalog     - read-only role definitions, looked up by id
//	Store       - user and group collections with their role bindings
//	Workflow    - the "add user" / "add group" state machine
//	RoleViewer  - the role detail view with its assignee roster
//	SortPrincipals, FilterCandidates - pure table and typeahead projections
//
// # Roles
//
// A Role carries a display name, an optional short label, a description and
// a single RuleDescriptor summarizing what it allows. The role with id
// CustomRoleID is a platform role: it can be viewed and may appear on
// seeded principals but is never offered by the workflow.
//
// # Principals
//
// Users and groups live in separate collections. Within a collection a name
// identifies exactly one entry, and saving a workflow for a known name
// appends bindings to that entry instead of creating another:
//
//	store := rbac.NewStore(catalog)
//	result, err := store.MergeOrCreate(rbac.KindUser, "Deena",
//		rbac.NewRoleSet("role-project-admin"), "30 Oct 2024")
//
// Bindings are append-only. Granting a role twice records two bindings.
//
// # Workflow
//
// A Workflow is Idle until Begin. While Composing it tracks the typeahead
// text, the chosen name and the staged roles:
//
//	wf := rbac.NewWorkflow(rbac.KindUser, store, catalog)
//	wf.Begin()
//	wf.SetInput("New Person")
//	wf.SelectCreate()
//	wf.ToggleRole("role-project-admin")
//	result, saved, err := wf.Save()
//
// Actions that do not apply in the current state return false and leave
// the workflow unchanged.
//
// # Role viewer
//
// RoleViewer shows one role at a time. Its assignees tab uses the explicit
// roster when the role records one and otherwise synthesizes rows from the
// default assignee names.
package rbac
