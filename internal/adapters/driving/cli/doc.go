// Package cli implements the rootly-sync command line.
//
// Commands:
//   - rootly-sync [since] / rootly-sync sync [since]: one synchronisation run
//   - rootly-sync serve: periodic runs with settings reload
//   - rootly-sync datasource ensure: register the destination datasource
//   - rootly-sync history: recent serve-mode runs from the state store
//   - rootly-sync version
//
// Exit codes: 0 when no enabled data type failed entirely, 1 when one did,
// 2 for configuration errors detected before any network call.
package cli
