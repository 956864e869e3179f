package hero

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/exhibitpal/internal/logfields"
)

// LogScope is the scope of every hero log entry.
const LogScope = "hero-image-cache"

// Log levels used in entries.
const (
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// LogDetails carries the measured facts of one resolution.
type LogDetails struct {
	ExhibitionID string `json:"exhibitionId"`
	DriveFileID  string `json:"driveFileId"`
	DurationMS   int64  `json:"durationMs"`
	SizeBytes    int64  `json:"sizeBytes"`
	Status       string `json:"status"`
}

// LogEntry is the structured notification emitted for each hero image.
type LogEntry struct {
	Level     string     `json:"level"`
	Scope     string     `json:"scope"`
	Message   string     `json:"message"`
	Details   LogDetails `json:"details"`
	Timestamp time.Time  `json:"timestamp"`
}

// NewLogEntry builds an entry, defaulting level to INFO and status to "unknown".
func NewLogEntry(level, message string, details LogDetails, now time.Time) LogEntry {
	if level == "" {
		level = LevelInfo
	}
	if details.Status == "" {
		details.Status = "unknown"
	}
	return LogEntry{Level: level, Scope: LogScope, Message: message, Details: details, Timestamp: now}
}

// LogSink receives hero log entries, e.g. a message bus publisher.
type LogSink interface {
	PublishHeroLog(ctx context.Context, entry LogEntry) error
}

func (e LogEntry) slogLevel() slog.Level {
	switch e.Level {
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Emit writes the entry to logger at its level.
func Emit(ctx context.Context, logger *slog.Logger, e LogEntry) {
	logger.LogAttrs(ctx, e.slogLevel(), e.Message,
		logfields.Scope(e.Scope),
		logfields.ExhibitionID(e.Details.ExhibitionID),
		logfields.DriveFileID(e.Details.DriveFileID),
		logfields.DurationMS(float64(e.Details.DurationMS)),
		logfields.SizeBytes(e.Details.SizeBytes),
		logfields.Status(e.Details.Status))
}
