// Package audit records role grants made through the permissions console.
//
// A Logger is attached to the request context and looked up with
// FromContext; without one, events are discarded. LogGrant builds the event
// for a saved workflow:
//
//	ctx = audit.WithLogger(ctx, audit.NewLogrusLogger(logger))
//	audit.LogGrant(ctx, audit.GrantDetails{ProjectID: "project-1", ...}, nil)
//
// FileLogger writes the same events as newline-delimited JSON into a
// rotating file.
package audit
