// Package app is the composition root of the librarian console.
//
// # Startup
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()        TOML file + LIBRARIAN_* env + flags
//	       ├─────> NewLogger()          slog text handler → rotating log file
//	       ├─────> prefs.Load()         theme, default borrowing tab
//	       ├─────> library.NewClient()  backend REST client
//	       ├─────> borrowing.New()      view-model over state.Store
//	       ├─────> vm.Refresh()         first borrowing snapshot
//	       └─────> ui.Run()             Bubble Tea program (blocks)
//
// There is no background poller. Backend data changes only when the user
// acts (a view is opened, a search is run, a record is created or returned);
// the UI's one-second tick merely re-derives statuses from data already held.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Invalid configuration file or values
//   - Unusable API base URL
//   - Bubble Tea program failure
//
// Everything after startup is recoverable: gateway failures are logged with
// their operation and status and shown as a notice while the previous data
// stays on screen.
//
// # Logging
//
// The UI owns the terminal, so logs go to <log_dir>/librarian.log through
// lumberjack (5 MB per file, three backups, two weeks). The Activity log view
// tails the same file.
package app
