package rbac

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// SortDirection orders a table column
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Principal table columns
const (
	ColumnName      = 0
	ColumnRole      = 1
	ColumnDateAdded = 2
)

// SortBy selects a column and direction for a table
type SortBy struct {
	Index     int           `json:"index" validate:"gte=0,lte=2"`
	Direction SortDirection `json:"direction" validate:"required,oneof=asc desc"`
}

// Validate checks the selector against the three sortable columns
func (s SortBy) Validate() error {
	if s.Index < 0 || s.Index > 2 {
		return fmt.Errorf("sort column %d out of range", s.Index)
	}
	if s.Direction != SortAsc && s.Direction != SortDesc {
		return fmt.Errorf("invalid sort direction %q", s.Direction)
	}
	return nil
}

func (s SortBy) apply(cmp int) int {
	if s.Direction == SortDesc {
		return -cmp
	}
	return cmp
}

// SortPrincipals orders a snapshot for the users or groups table. A nil
// selector keeps the store order. Equal keys keep their relative order.
func SortPrincipals(entries []PrincipalEntry, catalog *Catalog, by *SortBy) []PrincipalEntry {
	out := make([]PrincipalEntry, len(entries))
	copy(out, entries)
	if by == nil {
		return out
	}

	key := func(e PrincipalEntry) string {
		switch by.Index {
		case ColumnName:
			return e.Name
		case ColumnRole:
			if catalog == nil {
				return ""
			}
			return catalog.PrimaryRoleName(e.Roles)
		default:
			return e.DateAdded
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return by.apply(strings.Compare(key(out[i]), key(out[j]))) < 0
	})
	return out
}

// Candidate is one entry of the typeahead menu
type Candidate struct {
	Name   string `json:"name"`
	Create bool   `json:"create"`
	Label  string `json:"label"`
}

// FilterCandidates returns the names containing input (case-insensitive),
// followed by a "create" candidate when the trimmed input is non-blank and
// matches no name exactly.
func FilterCandidates(names []string, input string) []Candidate {
	fold := cases.Fold()
	needle := fold.String(input)
	trimmed := strings.TrimSpace(input)
	trimmedFolded := fold.String(trimmed)

	out := make([]Candidate, 0, len(names)+1)
	exact := false
	for _, name := range names {
		folded := fold.String(name)
		if folded == trimmedFolded {
			exact = true
		}
		if input == "" || strings.Contains(folded, needle) {
			out = append(out, Candidate{Name: name, Label: name})
		}
	}
	if trimmed != "" && !exact {
		out = append(out, Candidate{
			Name:   trimmed,
			Create: true,
			Label:  fmt.Sprintf("Create %q", trimmed),
		})
	}
	return out
}
