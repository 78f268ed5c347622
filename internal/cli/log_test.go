package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name  string
		level log.Level
		log   func(*log.Logger)
		want  bool
	}{
		{"info at info", log.InfoLevel, func(l *log.Logger) { l.Info("built view tree") }, true},
		{"debug at info", log.InfoLevel, func(l *log.Logger) { l.Debug("arranged", "parent", "body") }, false},
		{"debug at debug", log.DebugLevel, func(l *log.Logger) { l.Debug("arranged", "parent", "body") }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.want {
				t.Errorf("wrote output = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewLoggerKeyValues(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Info("built view tree", "views", 12)
	if !strings.Contains(buf.String(), "views=12") {
		t.Errorf("missing key/value pair: %q", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("bare context should yield log.Default()")
	}

	c := New(&bytes.Buffer{}, LogInfo)
	ctx := withLogger(context.Background(), c.Logger)
	if loggerFromContext(ctx) != c.Logger {
		t.Error("loggerFromContext should return the attached CLI logger")
	}
}
