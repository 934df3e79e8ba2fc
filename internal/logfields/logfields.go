package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeySource     = "source"
	KeyPath       = "path"
	KeyLayout     = "layout"
	KeyCollection = "collection"
	KeyOutput     = "output"
	KeyURL        = "url"
	KeyCount      = "count"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Source(p string) slog.Attr        { return slog.String(KeySource, p) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Layout(name string) slog.Attr     { return slog.String(KeyLayout, name) }
func Collection(name string) slog.Attr { return slog.String(KeyCollection, name) }
func Output(dir string) slog.Attr      { return slog.String(KeyOutput, dir) }
func URL(u string) slog.Attr           { return slog.String(KeyURL, u) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
