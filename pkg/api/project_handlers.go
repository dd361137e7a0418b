package api

import (
	"net/http"

	"github.com/xianli123/rhoai-project-permission/pkg/httputil"
	"github.com/xianli123/rhoai-project-permission/pkg/rbac"
)

// listProjects handles GET /api/v1/projects
func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	projects := s.registry.Projects()
	resp := ProjectListResponse{Projects: make([]ProjectSummary, 0, len(projects))}
	for _, p := range projects {
		resp.Projects = append(resp.Projects, ProjectSummary{Project: p, DisplayName: p.DisplayName()})
	}
	_ = httputil.WriteSuccess(w, resp)
}

// getProject handles GET /api/v1/projects/{projectId}
func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	overview := sess.Overview()
	_ = httputil.WriteSuccess(w, ProjectResponse{
		State:     StateReady,
		ProjectID: overview.Project.ID,
		Overview:  &overview,
	})
}

// listRoles handles GET /api/v1/projects/{projectId}/roles
func (s *Server) listRoles(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	catalog := sess.Catalog()
	roles := catalog.Roles()
	resp := RoleListResponse{Roles: make([]RoleView, 0, len(roles))}
	for _, role := range roles {
		resp.Roles = append(resp.Roles, RoleView{
			Role:            role,
			DisplayCategory: role.DisplayCategory(),
			ShowLabel:       role.ShowLabel(),
			Assignable:      catalog.IsAssignable(role.ID),
		})
	}
	_ = httputil.WriteSuccess(w, resp)
}

// listPrincipals handles GET /api/v1/projects/{projectId}/{kind}
func (s *Server) listPrincipals(w http.ResponseWriter, r *http.Request) {
	sess, k, ok := s.sessionAndKind(w, r)
	if !ok {
		return
	}
	s.writePrincipals(w, sess, k)
}

// setSort handles PUT /api/v1/projects/{projectId}/{kind}/sort
func (s *Server) setSort(w http.ResponseWriter, r *http.Request) {
	sess, k, ok := s.sessionAndKind(w, r)
	if !ok {
		return
	}
	var req rbac.SortBy
	if !httputil.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := sess.SetSort(k, &req); err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}
	s.writePrincipals(w, sess, k)
}

// clearSort handles DELETE /api/v1/projects/{projectId}/{kind}/sort
func (s *Server) clearSort(w http.ResponseWriter, r *http.Request) {
	sess, k, ok := s.sessionAndKind(w, r)
	if !ok {
		return
	}
	if err := sess.SetSort(k, nil); err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}
	s.writePrincipals(w, sess, k)
}
