package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID        = "run_id"
	KeyDocument     = "document"
	KeyRule         = "rule"
	KeySelector     = "selector"
	KeyField        = "field"
	KeyNodesCreated = "nodes_created"
	KeyDurationMS   = "duration_ms"
	KeyPath         = "path"
	KeyError        = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Document(path string) slog.Attr  { return slog.String(KeyDocument, path) }
func Rule(name string) slog.Attr      { return slog.String(KeyRule, name) }
func Selector(s string) slog.Attr     { return slog.String(KeySelector, s) }
func Field(name string) slog.Attr     { return slog.String(KeyField, name) }
func NodesCreated(n int) slog.Attr    { return slog.Int(KeyNodesCreated, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
