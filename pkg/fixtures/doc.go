// Package fixtures loads the seed data for project sessions: projects,
// the role catalog and the initial users and groups.
//
// The embedded default.yaml is used unless a file path is configured.
// Watch reloads a configured file on change so new sessions pick up edits
// without a restart.
package fixtures
