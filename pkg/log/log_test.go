package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseLevel(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, slog.LevelInfo)
	l.Debug("hidden")
	l.Debugf("hidden %d", 2)
	l.Info("shown", slog.Int("faces", 3))
	l.Warnf("careful %s", "now")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d records, want 2:\n%s", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatal(err)
	}
	if rec["msg"] != "shown" || rec["faces"] != float64(3) {
		t.Errorf("record = %v", rec)
	}
	if !strings.Contains(lines[1], "careful now") {
		t.Errorf("warn record = %s", lines[1])
	}
}

func TestWithKeepsAttributes(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, slog.LevelDebug).With(slog.String("model", "head.obj"))
	l.Debug("frame")
	if !strings.Contains(buf.String(), `"model":"head.obj"`) {
		t.Errorf("missing attribute in %s", buf.String())
	}
}

func TestNilLogger(t *testing.T) {
	var l *Logger
	l.Debug("dropped")
	l.Infof("dropped %d", 1)
	if l.With("k", "v") != nil {
		t.Error("With on nil logger should stay nil")
	}
}

func TestNewWritesFile(t *testing.T) {
	dir := t.TempDir()
	l, err := New("debug", dir)
	if err != nil {
		t.Fatal(err)
	}
	l.Info("rendered", slog.Int("drawn", 10))

	if l.LogFile != filepath.Join(dir, FileName) {
		t.Errorf("LogFile = %q", l.LogFile)
	}
	data, err := os.ReadFile(l.LogFile)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`"msg":"rendered"`)) {
		t.Errorf("log file lacks record:\n%s", data)
	}

	if _, err := New("loud", dir); err == nil {
		t.Error("expected error for invalid level")
	}
}
