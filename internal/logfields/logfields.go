package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyScope        = "scope"
	KeyStage        = "stage"
	KeyRunID        = "run_id"
	KeyExhibitionID = "exhibition_id"
	KeyArtworkID    = "artwork_id"
	KeyDriveFileID  = "drive_file_id"
	KeyWarningType  = "warning_type"
	KeyRow          = "row"
	KeyURL          = "url"
	KeyPath         = "path"
	KeyStatus       = "status"
	KeyDurationMS   = "duration_ms"
	KeySizeBytes    = "size_bytes"
	KeyCount        = "count"
	KeyError        = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Scope(s string) slog.Attr          { return slog.String(KeyScope, s) }
func Stage(name string) slog.Attr       { return slog.String(KeyStage, name) }
func RunID(id string) slog.Attr         { return slog.String(KeyRunID, id) }
func ExhibitionID(id string) slog.Attr  { return slog.String(KeyExhibitionID, id) }
func ArtworkID(id string) slog.Attr     { return slog.String(KeyArtworkID, id) }
func DriveFileID(id string) slog.Attr   { return slog.String(KeyDriveFileID, id) }
func WarningType(t string) slog.Attr    { return slog.String(KeyWarningType, t) }
func Row(n int) slog.Attr               { return slog.Int(KeyRow, n) }
func URL(u string) slog.Attr            { return slog.String(KeyURL, u) }
func Path(p string) slog.Attr           { return slog.String(KeyPath, p) }
func Status(s string) slog.Attr         { return slog.String(KeyStatus, s) }
func DurationMS(ms float64) slog.Attr   { return slog.Float64(KeyDurationMS, ms) }
func SizeBytes(n int64) slog.Attr       { return slog.Int64(KeySizeBytes, n) }
func Count(n int) slog.Attr             { return slog.Int(KeyCount, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
