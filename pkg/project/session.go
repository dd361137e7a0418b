package project

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xianli123/rhoai-project-permission/pkg/audit"
	"github.com/xianli123/rhoai-project-permission/pkg/observability"
	"github.com/xianli123/rhoai-project-permission/pkg/rbac"
)

// RoleTable names a sortable table of the role viewer
type RoleTable string

const (
	TableRules     RoleTable = "rules"
	TableAssignees RoleTable = "assignees"
)

// Overview is the project header with principal counts
type Overview struct {
	Project     Project `json:"project"`
	DisplayName string  `json:"display_name"`
	Users       int     `json:"users"`
	Groups      int     `json:"groups"`
}

// PrincipalView is a principal row with its roles resolved
type PrincipalView struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Kind      rbac.PrincipalKind     `json:"kind"`
	DateAdded string                 `json:"date_added"`
	Roles     []rbac.ResolvedBinding `json:"roles"`
}

// PrincipalList is the users or groups table
type PrincipalList struct {
	Kind       rbac.PrincipalKind `json:"kind"`
	Sort       *rbac.SortBy       `json:"sort"`
	Principals []PrincipalView    `json:"principals"`
}

// WorkflowResult reports whether a workflow action applied
type WorkflowResult struct {
	Applied  bool                  `json:"applied"`
	Workflow rbac.WorkflowSnapshot `json:"workflow"`
}

// SaveResult is a WorkflowResult carrying the merge outcome of a save
type SaveResult struct {
	WorkflowResult
	Result *rbac.MergeResult `json:"result,omitempty"`
}

// ViewerResult reports whether a role viewer action applied
type ViewerResult struct {
	Applied bool                  `json:"applied"`
	Viewer  rbac.RoleViewSnapshot `json:"viewer"`
}

// Session is the live access-control state of one project. Every method
// takes the session lock, so each user action runs to completion before
// the next one starts.
type Session struct {
	mu        sync.Mutex
	project   Project
	catalog   *rbac.Catalog
	store     *rbac.Store
	workflows map[rbac.PrincipalKind]*rbac.Workflow
	viewer    *rbac.RoleViewer
	sorts     map[rbac.PrincipalKind]*rbac.SortBy
	metrics   *observability.Metrics
	logger    logrus.FieldLogger
}

func newSession(p Project, catalog *rbac.Catalog, store *rbac.Store, prefs *rbac.Preferences, clock func() time.Time, metrics *observability.Metrics, logger logrus.FieldLogger) *Session {
	s := &Session{
		project:   p,
		catalog:   catalog,
		store:     store,
		workflows: make(map[rbac.PrincipalKind]*rbac.Workflow, len(rbac.Kinds)),
		viewer:    rbac.NewRoleViewer(catalog),
		sorts:     make(map[rbac.PrincipalKind]*rbac.SortBy, len(rbac.Kinds)),
		metrics:   metrics,
		logger:    logger.WithField("project_id", p.ID),
	}
	for _, kind := range rbac.Kinds {
		s.workflows[kind] = rbac.NewWorkflow(kind, store, catalog,
			rbac.WithClock(clock),
			rbac.WithPreferences(prefs),
		)
	}
	return s
}

func checkKind(kind rbac.PrincipalKind) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", rbac.ErrUnknownKind, kind)
	}
	return nil
}

func (s *Session) inert(action string, applied bool) {
	if !applied {
		s.metrics.InertActionsTotal.WithLabelValues(action).Inc()
		s.logger.WithField("action", action).Debug("action had no effect")
	}
}

// Project returns the project record
func (s *Session) Project() Project {
	return s.project
}

// Overview returns the project header
func (s *Session) Overview() Overview {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Overview{
		Project:     s.project,
		DisplayName: s.project.DisplayName(),
		Users:       len(s.store.Names(rbac.KindUser)),
		Groups:      len(s.store.Names(rbac.KindGroup)),
	}
}

// Roles returns the role catalog in display order
func (s *Session) Roles() []rbac.Role {
	return s.catalog.Roles()
}

// Catalog returns the role catalog the session started with
func (s *Session) Catalog() *rbac.Catalog {
	return s.catalog
}

// Principals returns the sorted users or groups table
func (s *Session) Principals(kind rbac.PrincipalKind) (PrincipalList, error) {
	if err := checkKind(kind); err != nil {
		return PrincipalList{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sortBy := s.sorts[kind]
	entries := rbac.SortPrincipals(s.store.ListPrincipals(kind), s.catalog, sortBy)
	views := make([]PrincipalView, 0, len(entries))
	for _, e := range entries {
		views = append(views, PrincipalView{
			ID:        e.ID,
			Name:      e.Name,
			Kind:      e.Kind,
			DateAdded: e.DateAdded,
			Roles:     s.catalog.ResolveBindings(e.Roles),
		})
	}
	return PrincipalList{Kind: kind, Sort: sortBy, Principals: views}, nil
}

// SetSort sets the sort selector of a list; nil restores store order
func (s *Session) SetSort(kind rbac.PrincipalKind, by *rbac.SortBy) error {
	if err := checkKind(kind); err != nil {
		return err
	}
	if by != nil {
		if err := by.Validate(); err != nil {
			return err
		}
		copied := *by
		by = &copied
	}
	s.mu.Lock()
	s.sorts[kind] = by
	s.mu.Unlock()
	return nil
}

// withWorkflow runs fn on the workflow of kind under the session lock
func (s *Session) withWorkflow(kind rbac.PrincipalKind, action string, fn func(wf *rbac.Workflow) bool) (WorkflowResult, error) {
	if err := checkKind(kind); err != nil {
		return WorkflowResult{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	wf := s.workflows[kind]
	applied := fn(wf)
	s.inert(action, applied)
	return WorkflowResult{Applied: applied, Workflow: wf.Snapshot()}, nil
}

// Workflow returns the workflow snapshot of kind
func (s *Session) Workflow(kind rbac.PrincipalKind) (WorkflowResult, error) {
	return s.withWorkflow(kind, "snapshot", func(*rbac.Workflow) bool { return true })
}

// BeginWorkflow opens the add form for kind
func (s *Session) BeginWorkflow(kind rbac.PrincipalKind) (WorkflowResult, error) {
	return s.withWorkflow(kind, "begin", func(wf *rbac.Workflow) bool {
		wf.Begin()
		return true
	})
}

// CancelWorkflow discards the add form for kind
func (s *Session) CancelWorkflow(kind rbac.PrincipalKind) (WorkflowResult, error) {
	return s.withWorkflow(kind, "cancel", func(wf *rbac.Workflow) bool {
		wf.Cancel()
		return true
	})
}

// SetInput updates the typeahead text
func (s *Session) SetInput(kind rbac.PrincipalKind, text string) (WorkflowResult, error) {
	return s.withWorkflow(kind, "input", func(wf *rbac.Workflow) bool {
		if wf.State() != rbac.StateComposing {
			return false
		}
		wf.SetInput(text)
		return true
	})
}

// Select picks an existing principal, or confirms the typed name when
// create is set
func (s *Session) Select(kind rbac.PrincipalKind, name string, create bool) (WorkflowResult, error) {
	return s.withWorkflow(kind, "select", func(wf *rbac.Workflow) bool {
		if create {
			return wf.SelectCreate()
		}
		return wf.SelectExisting(name)
	})
}

// ClearSelection blanks the chosen name
func (s *Session) ClearSelection(kind rbac.PrincipalKind) (WorkflowResult, error) {
	return s.withWorkflow(kind, "clear_selection", func(wf *rbac.Workflow) bool {
		return wf.ClearSelection()
	})
}

// ToggleRole stages or unstages a role
func (s *Session) ToggleRole(kind rbac.PrincipalKind, roleID string) (WorkflowResult, error) {
	return s.withWorkflow(kind, "toggle_role", func(wf *rbac.Workflow) bool {
		return wf.ToggleRole(roleID)
	})
}

// Save grants the staged roles. Grants are counted and audited.
func (s *Session) Save(ctx context.Context, kind rbac.PrincipalKind) (SaveResult, error) {
	if err := checkKind(kind); err != nil {
		return SaveResult{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	wf := s.workflows[kind]
	pending := wf.Snapshot()
	result, applied, err := wf.Save()
	if err != nil {
		details := audit.GrantDetails{
			ProjectID:     s.project.ID,
			PrincipalKind: string(kind),
			RoleIDs:       pending.SelectedRoleIDs,
		}
		if pending.SelectedName != nil {
			details.PrincipalName = *pending.SelectedName
		}
		if auditErr := audit.LogGrant(ctx, details, err); auditErr != nil {
			s.logger.WithError(auditErr).Warn("failed to write audit event")
		}
		return SaveResult{}, fmt.Errorf("saving %s workflow: %w", kind, err)
	}

	s.inert("save", applied)
	out := SaveResult{WorkflowResult: WorkflowResult{Applied: applied, Workflow: wf.Snapshot()}}
	if !applied {
		return out, nil
	}
	out.Result = &result

	outcome := "merged"
	if result.Created {
		outcome = "created"
	}
	s.metrics.GrantsTotal.WithLabelValues(string(kind), outcome).Inc()
	roleIDs := make([]string, 0, len(result.Added))
	for _, b := range result.Added {
		s.metrics.BindingsAddedTotal.WithLabelValues(string(kind), b.RoleID).Inc()
		roleIDs = append(roleIDs, b.RoleID)
	}

	s.logger.WithFields(logrus.Fields{
		"kind":      kind,
		"principal": result.Entry.Name,
		"created":   result.Created,
		"roles":     len(roleIDs),
	}).Info("roles granted")

	if err := audit.LogGrant(ctx, audit.GrantDetails{
		ProjectID:     s.project.ID,
		PrincipalKind: string(kind),
		PrincipalID:   result.Entry.ID,
		PrincipalName: result.Entry.Name,
		RoleIDs:       roleIDs,
		Created:       result.Created,
	}, nil); err != nil {
		s.logger.WithError(err).Warn("failed to write audit event")
	}
	return out, nil
}

// withViewer runs fn on the role viewer under the session lock
func (s *Session) withViewer(action string, fn func(v *rbac.RoleViewer) bool) ViewerResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	applied := fn(s.viewer)
	s.inert(action, applied)
	return ViewerResult{Applied: applied, Viewer: s.viewer.Snapshot()}
}

// RoleView returns the role viewer snapshot
func (s *Session) RoleView() ViewerResult {
	return s.withViewer("viewer_snapshot", func(*rbac.RoleViewer) bool { return true })
}

// OpenRole shows a role in the viewer
func (s *Session) OpenRole(roleID string) ViewerResult {
	return s.withViewer("open_role", func(v *rbac.RoleViewer) bool {
		return v.Open(roleID)
	})
}

// CloseRole hides the viewer
func (s *Session) CloseRole() ViewerResult {
	return s.withViewer("close_role", func(v *rbac.RoleViewer) bool {
		v.Close()
		return true
	})
}

// SelectRoleTab switches the viewer pane
func (s *Session) SelectRoleTab(tab rbac.RoleTab) ViewerResult {
	return s.withViewer("select_tab", func(v *rbac.RoleViewer) bool {
		return v.SelectTab(tab)
	})
}

// SortRoleTable sorts the rules or assignees table of the viewer
func (s *Session) SortRoleTable(table RoleTable, by rbac.SortBy) ViewerResult {
	return s.withViewer("sort_role_table", func(v *rbac.RoleViewer) bool {
		switch table {
		case TableRules:
			return v.SortRules(by)
		case TableAssignees:
			return v.SortAssignees(by)
		}
		return false
	})
}
