package rbac

import (
	"strings"
	"time"
)

// DateLayout is the short date stamped on new bindings, e.g. "30 Oct 2024"
const DateLayout = "2 Jan 2006"

// FormatDate renders t in DateLayout
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// WorkflowState is the state of an add-principal workflow
type WorkflowState string

const (
	StateIdle      WorkflowState = "idle"
	StateComposing WorkflowState = "composing"
)

// Workflow drives the "select or create a principal, pick roles, save"
// interaction for one principal kind. It is not safe for concurrent use;
// callers serialize access (see project.Session).
type Workflow struct {
	kind    PrincipalKind
	store   *Store
	catalog *Catalog
	prefs   *Preferences
	now     func() time.Time

	state         WorkflowState
	nameInput     string
	selectedName  string
	hasSelection  bool
	selectedRoles *RoleSet
}

// WorkflowOption customizes a Workflow
type WorkflowOption func(*Workflow)

// WithClock sets the clock used to stamp saved bindings
func WithClock(now func() time.Time) WorkflowOption {
	return func(w *Workflow) {
		w.now = now
	}
}

// WithPreferences attaches the shared display preferences
func WithPreferences(p *Preferences) WorkflowOption {
	return func(w *Workflow) {
		w.prefs = p
	}
}

// NewWorkflow creates an idle workflow for kind
func NewWorkflow(kind PrincipalKind, store *Store, catalog *Catalog, opts ...WorkflowOption) *Workflow {
	w := &Workflow{
		kind:          kind,
		store:         store,
		catalog:       catalog,
		now:           time.Now,
		state:         StateIdle,
		selectedRoles: NewRoleSet(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Kind returns the principal kind this workflow adds
func (w *Workflow) Kind() PrincipalKind { return w.kind }

// State returns the current state
func (w *Workflow) State() WorkflowState { return w.state }

func (w *Workflow) composing() bool { return w.state == StateComposing }

func (w *Workflow) reset() {
	w.nameInput = ""
	w.selectedName = ""
	w.hasSelection = false
	w.selectedRoles = NewRoleSet()
}

// Begin enters Composing with every field cleared
func (w *Workflow) Begin() {
	w.reset()
	w.state = StateComposing
}

// Cancel discards the composing fields and returns to Idle
func (w *Workflow) Cancel() {
	w.reset()
	w.state = StateIdle
}

// SetInput updates the typeahead text and returns the candidate list
func (w *Workflow) SetInput(text string) []Candidate {
	if !w.composing() {
		return []Candidate{}
	}
	w.nameInput = text
	return w.Candidates()
}

// Candidates returns the typeahead menu for the current input
func (w *Workflow) Candidates() []Candidate {
	if !w.composing() {
		return []Candidate{}
	}
	return FilterCandidates(w.store.Names(w.kind), w.nameInput)
}

// SelectExisting picks an existing principal. Roles the principal already
// holds are dropped from the staged selection.
func (w *Workflow) SelectExisting(name string) bool {
	if !w.composing() || name == "" {
		return false
	}
	w.selectedName = name
	w.hasSelection = true
	w.nameInput = name
	for _, id := range w.store.ExistingRoleIDs(w.kind, name).IDs() {
		w.selectedRoles.Remove(id)
	}
	return true
}

// SelectCreate confirms the typed text as a new principal name
func (w *Workflow) SelectCreate() bool {
	if !w.composing() {
		return false
	}
	trimmed := strings.TrimSpace(w.nameInput)
	if trimmed == "" {
		return false
	}
	w.selectedName = trimmed
	w.hasSelection = true
	w.nameInput = trimmed
	return true
}

// Select dispatches a typeahead candidate to SelectCreate or SelectExisting
func (w *Workflow) Select(c Candidate) bool {
	if c.Create {
		return w.SelectCreate()
	}
	return w.SelectExisting(c.Name)
}

// ClearSelection blanks the name fields, keeping staged roles
func (w *Workflow) ClearSelection() bool {
	if !w.composing() {
		return false
	}
	w.selectedName = ""
	w.hasSelection = false
	w.nameInput = ""
	return true
}

// grantedRoles returns the roles held by the selected principal
func (w *Workflow) grantedRoles() *RoleSet {
	if !w.hasSelection || w.selectedName == "" {
		return NewRoleSet()
	}
	return w.store.ExistingRoleIDs(w.kind, w.selectedName)
}

// ToggleRole stages or unstages a role. Unassignable roles and roles the
// selected principal already holds are left untouched.
func (w *Workflow) ToggleRole(roleID string) bool {
	if !w.composing() || !w.catalog.IsAssignable(roleID) {
		return false
	}
	if w.grantedRoles().Has(roleID) {
		return false
	}
	w.selectedRoles.Toggle(roleID)
	return true
}

// resolvedName is the name Save would use
func (w *Workflow) resolvedName() string {
	if w.hasSelection && w.selectedName != "" {
		return w.selectedName
	}
	return strings.TrimSpace(w.nameInput)
}

// CanSave reports whether Save would take effect
func (w *Workflow) CanSave() bool {
	return w.composing() && w.resolvedName() != "" && w.selectedRoles.Len() > 0
}

// Save grants the staged roles and returns to Idle. When the input is
// incomplete it does nothing and reports false.
func (w *Workflow) Save() (MergeResult, bool, error) {
	if !w.CanSave() {
		return MergeResult{}, false, nil
	}
	result, err := w.store.MergeOrCreate(w.kind, w.resolvedName(), w.selectedRoles, FormatDate(w.now()))
	if err != nil {
		return MergeResult{}, false, err
	}
	w.Cancel()
	return result, true, nil
}

// RoleOption is one row of the role picker
type RoleOption struct {
	Role     Role `json:"role"`
	Selected bool `json:"selected"`
	Disabled bool `json:"disabled"`
	Expanded bool `json:"expanded"`
}

// RoleOptions lists assignable roles with their picker flags
func (w *Workflow) RoleOptions() []RoleOption {
	granted := w.grantedRoles()
	prefs := w.prefs.Snapshot()
	roles := w.catalog.Assignable()
	out := make([]RoleOption, 0, len(roles))
	for _, role := range roles {
		out = append(out, RoleOption{
			Role:     role,
			Selected: w.selectedRoles.Has(role.ID),
			Disabled: granted.Has(role.ID),
			Expanded: prefs.IsExpanded(role.ID),
		})
	}
	return out
}

// WorkflowSnapshot is the state handed to the presentation layer
type WorkflowSnapshot struct {
	Kind            PrincipalKind   `json:"kind"`
	State           WorkflowState   `json:"state"`
	NameInput       string          `json:"name_input"`
	SelectedName    *string         `json:"selected_name"`
	SelectedRoleIDs []string        `json:"selected_role_ids"`
	Existing        bool            `json:"existing"`
	CanSave         bool            `json:"can_save"`
	Candidates      []Candidate     `json:"candidates"`
	RoleOptions     []RoleOption    `json:"role_options"`
	RoleMenuVariant RoleMenuVariant `json:"role_menu_variant"`
}

// Snapshot captures the workflow for rendering
func (w *Workflow) Snapshot() WorkflowSnapshot {
	snap := WorkflowSnapshot{
		Kind:            w.kind,
		State:           w.state,
		NameInput:       w.nameInput,
		SelectedRoleIDs: w.selectedRoles.IDs(),
		CanSave:         w.CanSave(),
		Candidates:      w.Candidates(),
		RoleOptions:     []RoleOption{},
		RoleMenuVariant: w.prefs.Snapshot().RoleMenuVariant,
	}
	if w.hasSelection {
		name := w.selectedName
		snap.SelectedName = &name
		snap.Existing = w.store.Exists(w.kind, name)
	}
	if w.composing() {
		snap.RoleOptions = w.RoleOptions()
	}
	return snap
}
