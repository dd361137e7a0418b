package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/xianli123/rhoai-project-permission/pkg/audit"
	"github.com/xianli123/rhoai-project-permission/pkg/httputil"
	"github.com/xianli123/rhoai-project-permission/pkg/observability"
	"github.com/xianli123/rhoai-project-permission/pkg/project"
	"github.com/xianli123/rhoai-project-permission/pkg/rbac"
)

// Server exposes project sessions over HTTP
type Server struct {
	registry *project.Registry
	router   *mux.Router
	audit    audit.Logger
	metrics  *observability.Metrics
	logger   logrus.FieldLogger
}

// ServerOption customizes a Server
type ServerOption func(*Server)

// WithAuditLogger sets the sink for grant events
func WithAuditLogger(l audit.Logger) ServerOption {
	return func(s *Server) {
		s.audit = l
	}
}

// WithMetrics records per-route request metrics
func WithMetrics(m *observability.Metrics) ServerOption {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithLogger sets the logger used outside request scope
func WithLogger(logger logrus.FieldLogger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new API server
func NewServer(registry *project.Registry, opts ...ServerOption) *Server {
	s := &Server{
		registry: registry,
		router:   mux.NewRouter(),
		audit:    audit.NoOp(),
		logger:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupRoutes()
	return s
}

// Router returns the route table
func (s *Server) Router() *mux.Router {
	return s.router
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	if s.metrics != nil {
		s.router.Use(observability.HTTPMetricsMiddleware(s.metrics))
	}
	s.router.Use(s.auditMiddleware)

	api := s.router.PathPrefix("/api/v1").Subrouter()

	// Projects
	api.HandleFunc("/projects", s.listProjects).Methods(http.MethodGet)
	api.HandleFunc("/projects/{projectId}", s.getProject).Methods(http.MethodGet)
	api.HandleFunc("/projects/{projectId}/roles", s.listRoles).Methods(http.MethodGet)

	// Role viewer
	api.HandleFunc("/projects/{projectId}/role-viewer", s.openRole).Methods(http.MethodPut)
	api.HandleFunc("/projects/{projectId}/role-viewer", s.getRoleViewer).Methods(http.MethodGet)
	api.HandleFunc("/projects/{projectId}/role-viewer", s.closeRole).Methods(http.MethodDelete)
	api.HandleFunc("/projects/{projectId}/role-viewer/tab", s.selectRoleTab).Methods(http.MethodPut)
	api.HandleFunc("/projects/{projectId}/role-viewer/sort", s.sortRoleTable).Methods(http.MethodPut)

	// Users and groups
	const base = "/projects/{projectId}/{kind:users|groups}"
	api.HandleFunc(base, s.listPrincipals).Methods(http.MethodGet)
	api.HandleFunc(base+"/sort", s.setSort).Methods(http.MethodPut)
	api.HandleFunc(base+"/sort", s.clearSort).Methods(http.MethodDelete)

	// Add-principal workflow
	api.HandleFunc(base+"/workflow", s.beginWorkflow).Methods(http.MethodPost)
	api.HandleFunc(base+"/workflow", s.getWorkflow).Methods(http.MethodGet)
	api.HandleFunc(base+"/workflow", s.cancelWorkflow).Methods(http.MethodDelete)
	api.HandleFunc(base+"/workflow/input", s.setInput).Methods(http.MethodPut)
	api.HandleFunc(base+"/workflow/selection", s.selectPrincipal).Methods(http.MethodPost)
	api.HandleFunc(base+"/workflow/selection", s.clearSelection).Methods(http.MethodDelete)
	api.HandleFunc(base+"/workflow/roles/{roleId}", s.toggleRole).Methods(http.MethodPost)
	api.HandleFunc(base+"/workflow/save", s.saveWorkflow).Methods(http.MethodPost)

	// Display preferences
	api.HandleFunc("/preferences", s.getPreferences).Methods(http.MethodGet)
	api.HandleFunc("/preferences", s.updatePreferences).Methods(http.MethodPut)
	api.HandleFunc("/preferences/expanded-roles/{roleId}", s.toggleExpandedRole).Methods(http.MethodPost)
}

// auditMiddleware makes the audit sink available to session saves
func (s *Server) auditMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(audit.WithLogger(r.Context(), s.audit)))
	})
}

// session resolves the projectId path variable. A missing project is
// written as the not_found page state.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*project.Session, bool) {
	projectID, ok := httputil.ParsePathStringOrError(w, r, "projectId")
	if !ok {
		return nil, false
	}
	sess, err := s.registry.Session(projectID)
	if err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			_ = httputil.WriteJSON(w, http.StatusNotFound, ProjectResponse{
				State:     StateNotFound,
				ProjectID: projectID,
			})
			return nil, false
		}
		observability.FromContext(r.Context()).WithError(err).Error("failed to open project session")
		httputil.WriteInternalError(w, err)
		return nil, false
	}
	return sess, true
}

// kind resolves the kind path variable
func kind(w http.ResponseWriter, r *http.Request) (rbac.PrincipalKind, bool) {
	k, ok := rbac.ParseKind(mux.Vars(r)["kind"])
	if !ok {
		httputil.WriteBadRequest(w, "kind must be users or groups")
		return "", false
	}
	return k, true
}

// sessionAndKind resolves both path variables of a principal route
func (s *Server) sessionAndKind(w http.ResponseWriter, r *http.Request) (*project.Session, rbac.PrincipalKind, bool) {
	k, ok := kind(w, r)
	if !ok {
		return nil, "", false
	}
	sess, ok := s.session(w, r)
	if !ok {
		return nil, "", false
	}
	return sess, k, true
}
