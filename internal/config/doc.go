// Package config loads the librarian console configuration.
//
// # Resolution Order
//
// Values are resolved per field, highest priority first:
//
//  1. Command-line flags (applied by the caller, see cmd/librarian)
//  2. LIBRARIAN_* environment variables
//  3. The TOML config file (~/.config/librarian/config.toml by default)
//  4. Built-in defaults
//
// A missing config file is not an error; the console works out of the box
// against a backend on localhost.
//
// # TOML Format
//
//	api_base = "http://localhost:8082"
//	log_dir = "~/.local/share/librarian/logs"
//	log_level = "info"          # debug, info, warn, error
//	request_timeout = "10s"     # "0s" disables the timeout
//	page_size = 10              # rows shown on the books and members lists
//
// Every field is optional. Tilde expansion is applied to log_dir.
//
// # Environment
//
//	LIBRARIAN_API_BASE, LIBRARIAN_LOG_DIR, LIBRARIAN_LOG_LEVEL,
//	LIBRARIAN_REQUEST_TIMEOUT, LIBRARIAN_PAGE_SIZE
//
// # Error Handling
//
// Load returns errors for unreadable or malformed files, unknown log levels
// and unparseable timeouts. Empty values fall back to defaults.
package config
