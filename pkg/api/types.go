package api

import (
	"github.com/xianli123/rhoai-project-permission/pkg/project"
	"github.com/xianli123/rhoai-project-permission/pkg/rbac"
)

// Display states of a project page
const (
	StateReady    = "ready"
	StateNotFound = "not_found"
)

// ProjectSummary is one row of the project list
type ProjectSummary struct {
	project.Project
	DisplayName string `json:"display_name"`
}

// ProjectListResponse lists all projects
type ProjectListResponse struct {
	Projects []ProjectSummary `json:"projects"`
}

// ProjectResponse is the project page. Overview is absent when the
// project does not exist.
type ProjectResponse struct {
	State     string            `json:"state"`
	ProjectID string            `json:"project_id"`
	Overview  *project.Overview `json:"overview,omitempty"`
}

// RoleView is a catalog entry with its display flags
type RoleView struct {
	rbac.Role
	DisplayCategory rbac.RoleCategory `json:"display_category"`
	ShowLabel       bool              `json:"show_label"`
	Assignable      bool              `json:"assignable"`
}

// RoleListResponse lists the role catalog
type RoleListResponse struct {
	Roles []RoleView `json:"roles"`
}

// InputRequest sets the typeahead text
type InputRequest struct {
	Text string `json:"text"`
}

// SelectionRequest picks an existing principal by name, or confirms the
// typed text as a new one when Create is set
type SelectionRequest struct {
	Name   string `json:"name" validate:"required_unless=Create true"`
	Create bool   `json:"create"`
}

// OpenRoleRequest opens a role in the viewer
type OpenRoleRequest struct {
	RoleID string `json:"role_id" validate:"required"`
}

// TabRequest switches the viewer pane
type TabRequest struct {
	Tab rbac.RoleTab `json:"tab" validate:"required,oneof=details assignees"`
}

// RoleSortRequest sorts one of the viewer tables
type RoleSortRequest struct {
	Table     project.RoleTable  `json:"table" validate:"required,oneof=rules assignees"`
	Index     int                `json:"index" validate:"gte=0,lte=2"`
	Direction rbac.SortDirection `json:"direction" validate:"required,oneof=asc desc"`
}

// PreferencesRequest updates the display preferences
type PreferencesRequest struct {
	RoleMenuVariant rbac.RoleMenuVariant `json:"role_menu_variant" validate:"required,oneof=current alt"`
}
