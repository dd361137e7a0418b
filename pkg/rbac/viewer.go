package rbac

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// PlaceholderAssigneeDate is the date shown on synthesized assignee rows
const PlaceholderAssigneeDate = "30 Oct 2024"

// RoleTab selects the pane of the role detail view
type RoleTab string

const (
	TabDetails   RoleTab = "details"
	TabAssignees RoleTab = "assignees"
)

// Assignee table columns
const (
	AssigneeColumnBinding = 0
	AssigneeColumnSubject = 1
	AssigneeColumnDate    = 2
)

// RosterKind tags an AssigneeRoster
type RosterKind string

const (
	RosterExplicit    RosterKind = "explicit"
	RosterSynthesized RosterKind = "synthesized"
)

// AssigneeRoster is either the explicit rows recorded for a role or the
// default names the rows are synthesized from. An explicit empty roster
// means nobody is assigned; a synthesized one means none was recorded.
type AssigneeRoster struct {
	Kind     RosterKind
	Explicit []RoleAssignee
	Names    []string
}

// ResolveRoster picks the roster variant for role
func ResolveRoster(role Role) AssigneeRoster {
	if role.AssigneeDetails != nil {
		rows := make([]RoleAssignee, len(role.AssigneeDetails))
		copy(rows, role.AssigneeDetails)
		return AssigneeRoster{Kind: RosterExplicit, Explicit: rows}
	}
	names := make([]string, len(role.Assignees))
	copy(names, role.Assignees)
	return AssigneeRoster{Kind: RosterSynthesized, Names: names}
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// SynthesizedBindingName builds the placeholder binding label for a name
func SynthesizedBindingName(roleID, subject string) string {
	return fmt.Sprintf("rb-%s-%s", roleID, whitespaceRun.ReplaceAllString(strings.ToLower(subject), "-"))
}

// Rows expands the roster into table rows
func (r AssigneeRoster) Rows(roleID string) []RoleAssignee {
	if r.Kind == RosterExplicit {
		rows := make([]RoleAssignee, len(r.Explicit))
		copy(rows, r.Explicit)
		return rows
	}
	rows := make([]RoleAssignee, 0, len(r.Names))
	for _, name := range r.Names {
		rows = append(rows, RoleAssignee{
			RoleBinding: SynthesizedBindingName(roleID, name),
			Subject:     name,
			SubjectType: SubjectUser,
			DateAdded:   PlaceholderAssigneeDate,
		})
	}
	return rows
}

// SortAssignees orders rows by binding label, subject or date. A nil
// selector keeps the roster order.
func SortAssignees(rows []RoleAssignee, by *SortBy) []RoleAssignee {
	out := make([]RoleAssignee, len(rows))
	copy(out, rows)
	if by == nil {
		return out
	}
	key := func(a RoleAssignee) string {
		switch by.Index {
		case AssigneeColumnBinding:
			return a.RoleBinding
		case AssigneeColumnSubject:
			return a.Subject
		default:
			return a.DateAdded
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return by.apply(strings.Compare(key(out[i]), key(out[j]))) < 0
	})
	return out
}

// RuleRow is the single aggregated rule line of a role
type RuleRow struct {
	Actions       string `json:"actions"`
	Resources     string `json:"resources"`
	ResourceNames string `json:"resource_names"`
}

// RoleDetails is the details pane of the role view
type RoleDetails struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Label       string       `json:"label,omitempty"`
	Description string       `json:"description"`
	RealName    string       `json:"real_name"`
	Category    RoleCategory `json:"category"`
	Rules       []RuleRow    `json:"rules"`
}

// DetailsFor projects a role into its details pane
func DetailsFor(role Role) RoleDetails {
	d := RoleDetails{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		RealName:    role.RealName,
		Category:    role.DisplayCategory(),
		Rules: []RuleRow{{
			Actions:       role.Rule.Actions,
			Resources:     role.Rule.Resources,
			ResourceNames: role.Rule.ResourceNames,
		}},
	}
	if role.ShowLabel() {
		d.Label = role.Label
	}
	return d
}

// RoleViewer is the role detail modal. Opening a role resets the tab to
// details and clears both sort selectors.
type RoleViewer struct {
	catalog       *Catalog
	open          bool
	role          Role
	tab           RoleTab
	rulesSort     *SortBy
	assigneesSort *SortBy
}

// NewRoleViewer creates a closed viewer over catalog
func NewRoleViewer(catalog *Catalog) *RoleViewer {
	return &RoleViewer{catalog: catalog, tab: TabDetails}
}

// Open shows roleID. Unknown roles leave the viewer unchanged.
func (v *RoleViewer) Open(roleID string) bool {
	role, ok := v.catalog.Lookup(roleID)
	if !ok {
		return false
	}
	v.open = true
	v.role = role
	v.tab = TabDetails
	v.rulesSort = nil
	v.assigneesSort = nil
	return true
}

// Close hides the viewer and clears its state
func (v *RoleViewer) Close() {
	v.open = false
	v.role = Role{}
	v.tab = TabDetails
	v.rulesSort = nil
	v.assigneesSort = nil
}

// IsOpen reports whether a role is shown
func (v *RoleViewer) IsOpen() bool { return v.open }

// Tab returns the active pane
func (v *RoleViewer) Tab() RoleTab { return v.tab }

// SelectTab switches panes
func (v *RoleViewer) SelectTab(tab RoleTab) bool {
	if !v.open || (tab != TabDetails && tab != TabAssignees) {
		return false
	}
	v.tab = tab
	return true
}

// SortRules records the rules table selector
func (v *RoleViewer) SortRules(by SortBy) bool {
	if !v.open || by.Validate() != nil {
		return false
	}
	v.rulesSort = &by
	return true
}

// SortAssignees records the assignees table selector
func (v *RoleViewer) SortAssignees(by SortBy) bool {
	if !v.open || by.Validate() != nil {
		return false
	}
	v.assigneesSort = &by
	return true
}

// Details returns the details pane of the open role
func (v *RoleViewer) Details() (RoleDetails, bool) {
	if !v.open {
		return RoleDetails{}, false
	}
	return DetailsFor(v.role), true
}

// Assignees returns the sorted assignee rows of the open role
func (v *RoleViewer) Assignees() []RoleAssignee {
	if !v.open {
		return []RoleAssignee{}
	}
	return SortAssignees(ResolveRoster(v.role).Rows(v.role.ID), v.assigneesSort)
}

// RoleViewSnapshot is the viewer state handed to the presentation layer
type RoleViewSnapshot struct {
	Open          bool           `json:"open"`
	Tab           RoleTab        `json:"tab"`
	Roster        RosterKind     `json:"roster,omitempty"`
	Details       *RoleDetails   `json:"details,omitempty"`
	Assignees     []RoleAssignee `json:"assignees"`
	RulesSort     *SortBy        `json:"rules_sort"`
	AssigneesSort *SortBy        `json:"assignees_sort"`
}

// Snapshot captures the viewer for rendering
func (v *RoleViewer) Snapshot() RoleViewSnapshot {
	snap := RoleViewSnapshot{
		Open:          v.open,
		Tab:           v.tab,
		Assignees:     v.Assignees(),
		RulesSort:     v.rulesSort,
		AssigneesSort: v.assigneesSort,
	}
	if d, ok := v.Details(); ok {
		snap.Details = &d
		snap.Roster = ResolveRoster(v.role).Kind
	}
	return snap
}
