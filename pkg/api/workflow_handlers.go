package api

import (
	"net/http"

	"github.com/xianli123/rhoai-project-permission/pkg/httputil"
	"github.com/xianli123/rhoai-project-permission/pkg/observability"
	"github.com/xianli123/rhoai-project-permission/pkg/project"
	"github.com/xianli123/rhoai-project-permission/pkg/rbac"
)

func (s *Server) writePrincipals(w http.ResponseWriter, sess *project.Session, k rbac.PrincipalKind) {
	list, err := sess.Principals(k)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}
	_ = httputil.WriteSuccess(w, list)
}

// writeWorkflow renders the outcome of a workflow action. Inert actions
// are not errors; they answer with applied=false and the unchanged state.
func writeWorkflow(w http.ResponseWriter, res project.WorkflowResult, err error) {
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}
	_ = httputil.WriteSuccess(w, res)
}

// beginWorkflow handles POST /api/v1/projects/{projectId}/{kind}/workflow
func (s *Server) beginWorkflow(w http.ResponseWriter, r *http.Request) {
	sess, k, ok := s.sessionAndKind(w, r)
	if !ok {
		return
	}
	res, err := sess.BeginWorkflow(k)
	writeWorkflow(w, res, err)
}

// getWorkflow handles GET /api/v1/projects/{projectId}/{kind}/workflow
func (s *Server) getWorkflow(w http.ResponseWriter, r *http.Request) {
	sess, k, ok := s.sessionAndKind(w, r)
	if !ok {
		return
	}
	res, err := sess.Workflow(k)
	writeWorkflow(w, res, err)
}

// cancelWorkflow handles DELETE /api/v1/projects/{projectId}/{kind}/workflow
func (s *Server) cancelWorkflow(w http.ResponseWriter, r *http.Request) {
	sess, k, ok := s.sessionAndKind(w, r)
	if !ok {
		return
	}
	res, err := sess.CancelWorkflow(k)
	writeWorkflow(w, res, err)
}

// setInput handles PUT /api/v1/projects/{projectId}/{kind}/workflow/input
func (s *Server) setInput(w http.ResponseWriter, r *http.Request) {
	sess, k, ok := s.sessionAndKind(w, r)
	if !ok {
		return
	}
	var req InputRequest
	if !httputil.DecodeAndValidate(w, r, &req) {
		return
	}
	res, err := sess.SetInput(k, req.Text)
	writeWorkflow(w, res, err)
}

// selectPrincipal handles POST /api/v1/projects/{projectId}/{kind}/workflow/selection
func (s *Server) selectPrincipal(w http.ResponseWriter, r *http.Request) {
	sess, k, ok := s.sessionAndKind(w, r)
	if !ok {
		return
	}
	var req SelectionRequest
	if !httputil.DecodeAndValidate(w, r, &req) {
		return
	}
	res, err := sess.Select(k, req.Name, req.Create)
	writeWorkflow(w, res, err)
}

// clearSelection handles DELETE /api/v1/projects/{projectId}/{kind}/workflow/selection
func (s *Server) clearSelection(w http.ResponseWriter, r *http.Request) {
	sess, k, ok := s.sessionAndKind(w, r)
	if !ok {
		return
	}
	res, err := sess.ClearSelection(k)
	writeWorkflow(w, res, err)
}

// toggleRole handles POST /api/v1/projects/{projectId}/{kind}/workflow/roles/{roleId}
func (s *Server) toggleRole(w http.ResponseWriter, r *http.Request) {
	sess, k, ok := s.sessionAndKind(w, r)
	if !ok {
		return
	}
	roleID, ok := httputil.ParsePathStringOrError(w, r, "roleId")
	if !ok {
		return
	}
	res, err := sess.ToggleRole(k, roleID)
	writeWorkflow(w, res, err)
}

// saveWorkflow handles POST /api/v1/projects/{projectId}/{kind}/workflow/save
func (s *Server) saveWorkflow(w http.ResponseWriter, r *http.Request) {
	sess, k, ok := s.sessionAndKind(w, r)
	if !ok {
		return
	}
	res, err := sess.Save(r.Context(), k)
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("failed to save roles")
		httputil.WriteInternalError(w, err)
		return
	}
	_ = httputil.WriteSuccess(w, res)
}
