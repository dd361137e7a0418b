package api

import (
	"net/http"

	"github.com/xianli123/rhoai-project-permission/pkg/httputil"
)

// getPreferences handles GET /api/v1/preferences
func (s *Server) getPreferences(w http.ResponseWriter, r *http.Request) {
	_ = httputil.WriteSuccess(w, s.registry.Preferences().Snapshot())
}

// updatePreferences handles PUT /api/v1/preferences
func (s *Server) updatePreferences(w http.ResponseWriter, r *http.Request) {
	var req PreferencesRequest
	if !httputil.DecodeAndValidate(w, r, &req) {
		return
	}
	prefs := s.registry.Preferences()
	if err := prefs.SetRoleMenuVariant(req.RoleMenuVariant); err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}
	_ = httputil.WriteSuccess(w, prefs.Snapshot())
}

// toggleExpandedRole handles POST /api/v1/preferences/expanded-roles/{roleId}
func (s *Server) toggleExpandedRole(w http.ResponseWriter, r *http.Request) {
	roleID, ok := httputil.ParsePathStringOrError(w, r, "roleId")
	if !ok {
		return
	}
	prefs := s.registry.Preferences()
	prefs.ToggleExpanded(roleID)
	_ = httputil.WriteSuccess(w, prefs.Snapshot())
}
