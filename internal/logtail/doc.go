// Package logtail reads the tail of the console's own log file for the
// Activity log view.
//
// # Reading
//
// Read uses a ring buffer of maxLines entries, so the file is scanned once
// and memory stays O(maxLines) regardless of file size. A missing file is
// not an error: the console may not have logged anything yet.
//
//	lines, err := logtail.Read(cfg.LogPath(), 400)
//
// # Parsing
//
// The console logs through slog's text handler, one record per line:
//
//	time=2024-01-15T10:00:00.000+01:00 level=WARN msg="borrowing refresh failed" op=borrows.list status=500
//
// Parse decodes such a line with go-logfmt into time, level, message and
// the remaining attributes. Lines written by anything else are kept
// verbatim as the message with no level, and Filter never hides them.
//
// Rendering and colours belong to the UI.
package logtail
