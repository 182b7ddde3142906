// Package smflog provides the process-wide structured logger used by the
// render package and the smfinfo command, plus the track-lifecycle logging helpers the
// parallel renderer drives its per-track debug/warn lines through.
package smflog

import (
	"fmt"
	"log/slog"
	"os"
)

var globalLogger *slog.Logger

// Init configures the global logger for the given level ("debug", "info",
// "warn", "error").
func Init(level string) error {
	var slogLevel slog.Level

	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return fmt.Errorf("invalid log level: %s", level)
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slogLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)

	return nil
}

// Get returns the configured global logger, or slog.Default() if Init has
// not been called yet.
func Get() *slog.Logger {
	if globalLogger == nil {
		return slog.Default()
	}
	return globalLogger
}

// TrackLogger returns a logger scoped to one track of a render, carrying
// track_index on every record it emits.
func TrackLogger(trackIndex int) *slog.Logger {
	return Get().With("track_index", trackIndex)
}

// LogTrackStart emits the one debug line a track's render begins with.
func LogTrackStart(trackIndex int) {
	TrackLogger(trackIndex).Debug("track render started")
}

// LogTrackFinished emits the one debug line a track's render ends with on
// success, carrying the last tick seen in the track and the rendered
// duration in seconds alongside the sample count.
func LogTrackFinished(trackIndex int, tick int32, durationSeconds float64, samples int) {
	TrackLogger(trackIndex).Debug("track render finished",
		"tick", tick,
		"duration_seconds", durationSeconds,
		"samples", samples,
	)
}

// LogTrackFailed emits the one warn line a track's render ends with on
// failure.
func LogTrackFailed(trackIndex int, err error) {
	TrackLogger(trackIndex).Warn("track render failed", "error", err)
}
