// Package api serves the project permissions console over HTTP.
//
// Routes live under /api/v1 and map one to one onto project.Session
// operations: listing users and groups, the add-principal workflow, the
// role viewer and the shared display preferences. A project id that is
// not in the fixtures answers 404 with the not_found page state.
//
// Actions that have no effect in the current state (saving an incomplete
// form, toggling a held role, opening an unknown role) are not errors.
// They answer 200 with "applied": false and the unchanged state.
//
//	registry := project.NewRegistry(set)
//	server := api.NewServer(registry, api.WithAuditLogger(auditLogger))
//	http.ListenAndServe(":8080", server)
package api
