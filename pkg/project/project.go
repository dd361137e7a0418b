package project

import (
	"errors"

	"github.com/xianli123/rhoai-project-permission/pkg/rbac"
)

// ErrProjectNotFound is returned for a project id missing from the fixtures
var ErrProjectNotFound = errors.New("project not found")

// maxDisplayName is the breadcrumb length limit
const maxDisplayName = 50

// Project is the overview record of a data science project
type Project struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Owner            string `json:"owner"`
	Description      string `json:"description"`
	CreatedAt        string `json:"created_at"`
	WorkbenchRunning int    `json:"workbench_running"`
	WorkbenchStopped int    `json:"workbench_stopped"`
}

// DisplayName returns the name cut to 50 characters plus "..." when longer
func (p Project) DisplayName() string {
	runes := []rune(p.Name)
	if len(runes) <= maxDisplayName {
		return p.Name
	}
	return string(runes[:maxDisplayName]) + "..."
}

// Source supplies projects and the access data a new session is seeded from
type Source interface {
	Projects() []Project
	Project(id string) (Project, bool)
	Catalog() *rbac.Catalog
	NewStore(catalog *rbac.Catalog) (*rbac.Store, error)
}
