package api

import (
	"net/http"

	"github.com/xianli123/rhoai-project-permission/pkg/httputil"
	"github.com/xianli123/rhoai-project-permission/pkg/rbac"
)

// openRole handles PUT /api/v1/projects/{projectId}/role-viewer
func (s *Server) openRole(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req OpenRoleRequest
	if !httputil.DecodeAndValidate(w, r, &req) {
		return
	}
	_ = httputil.WriteSuccess(w, sess.OpenRole(req.RoleID))
}

// getRoleViewer handles GET /api/v1/projects/{projectId}/role-viewer
func (s *Server) getRoleViewer(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	_ = httputil.WriteSuccess(w, sess.RoleView())
}

// closeRole handles DELETE /api/v1/projects/{projectId}/role-viewer
func (s *Server) closeRole(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	_ = httputil.WriteSuccess(w, sess.CloseRole())
}

// selectRoleTab handles PUT /api/v1/projects/{projectId}/role-viewer/tab
func (s *Server) selectRoleTab(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req TabRequest
	if !httputil.DecodeAndValidate(w, r, &req) {
		return
	}
	_ = httputil.WriteSuccess(w, sess.SelectRoleTab(req.Tab))
}

// sortRoleTable handles PUT /api/v1/projects/{projectId}/role-viewer/sort
func (s *Server) sortRoleTable(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req RoleSortRequest
	if !httputil.DecodeAndValidate(w, r, &req) {
		return
	}
	by := rbac.SortBy{Index: req.Index, Direction: req.Direction}
	_ = httputil.WriteSuccess(w, sess.SortRoleTable(req.Table, by))
}
