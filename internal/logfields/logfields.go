package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPackage    = "package"
	KeyModule     = "module"
	KeyFile       = "file"
	KeyPath       = "path"
	KeySession    = "session"
	KeyBuilder    = "builder"
	KeyFormat     = "format"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Package(name string) slog.Attr   { return slog.String(KeyPackage, name) }
func Module(name string) slog.Attr    { return slog.String(KeyModule, name) }
func File(path string) slog.Attr      { return slog.String(KeyFile, path) }
func Path(path string) slog.Attr      { return slog.String(KeyPath, path) }
func Session(name string) slog.Attr   { return slog.String(KeySession, name) }
func Builder(name string) slog.Attr   { return slog.String(KeyBuilder, name) }
func Format(name string) slog.Attr    { return slog.String(KeyFormat, name) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
