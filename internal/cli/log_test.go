package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		level log.Level
		emit  func(*log.Logger)
		want  bool
	}{
		{log.InfoLevel, func(l *log.Logger) { l.Info("rooms split") }, true},
		{log.InfoLevel, func(l *log.Logger) { l.Debug("door placed") }, false},
		{log.DebugLevel, func(l *log.Logger) { l.Debug("door placed") }, true},
		{log.WarnLevel, func(l *log.Logger) { l.Info("rooms split") }, false},
		{log.WarnLevel, func(l *log.Logger) { l.Warn("pruning stopped early") }, true},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		tt.emit(newLogger(&buf, tt.level))
		require.Equal(t, tt.want, buf.Len() > 0, "level %s", tt.level)
	}
}

func TestNewLoggerTimestamps(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Info("generated")
	require.Regexp(t, `^\d{2}:\d{2}:\d{2}\.\d{2} `, buf.String())
	require.Contains(t, buf.String(), "generated")
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.done("generated dungeon", "rooms", 12)

	out := buf.String()
	for _, want := range []string{"generated dungeon", "rooms=12", "elapsed="} {
		require.Contains(t, out, want)
	}
}

func TestLoggerContext(t *testing.T) {
	logger := newLogger(&bytes.Buffer{}, log.DebugLevel)
	ctx := withLogger(context.Background(), logger)
	require.Same(t, logger, loggerFromContext(ctx))

	require.Same(t, log.Default(), loggerFromContext(context.Background()))
}
