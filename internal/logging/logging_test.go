// Package logging provides tests for logger setup and run logs.
package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{" error ", log.ErrorLevel},
		{"fatal", log.FatalLevel},
		{"", log.InfoLevel},
		{"loud", log.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q): got %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFormatter(t *testing.T) {
	tests := []struct {
		in   string
		want log.Formatter
	}{
		{"json", log.JSONFormatter},
		{"logfmt", log.LogfmtFormatter},
		{"text", log.TextFormatter},
		{"", log.TextFormatter},
	}
	for _, tt := range tests {
		if got := ParseFormatter(tt.in); got != tt.want {
			t.Errorf("ParseFormatter(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewFromConfig(t *testing.T) {
	var buf bytes.Buffer
	logger := NewFromConfig(&buf, "warn", "json", false, false)

	logger.Info("hidden")
	logger.Warn("shown", "id", "a1")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info logged at warn level: %q", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"id":"a1"`) {
		t.Errorf("expected JSON record, got %q", out)
	}
}

func TestNewRunLogger(t *testing.T) {
	t.Run("creates log file under project slug", func(t *testing.T) {
		baseDir := t.TempDir()
		workDir := t.TempDir()

		logger, err := NewRunLogger(baseDir, workDir)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer logger.Close()

		if logger.RunID == "" {
			t.Error("expected RunID to be set")
		}
		if filepath.Dir(logger.Dir) != baseDir {
			t.Errorf("Dir %q not under %q", logger.Dir, baseDir)
		}
		if !strings.HasSuffix(logger.LogPath, logger.RunID+".log") {
			t.Errorf("LogPath %q does not end with run id", logger.LogPath)
		}
		if _, err := os.Stat(logger.LogPath); err != nil {
			t.Errorf("log file not created: %v", err)
		}
	})

	t.Run("empty base dir returns error", func(t *testing.T) {
		_, err := NewRunLogger("", t.TempDir())
		if err == nil || !strings.Contains(err.Error(), "empty") {
			t.Fatalf("expected empty dir error, got %v", err)
		}
	})

	t.Run("relative base dir resolves against work dir", func(t *testing.T) {
		workDir := t.TempDir()
		logger, err := NewRunLogger("logs", workDir)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer logger.Close()
		if !strings.HasPrefix(logger.Dir, filepath.Join(workDir, "logs")) {
			t.Errorf("Dir %q not under work dir", logger.Dir)
		}
	})
}

func TestRunLoggerWriter(t *testing.T) {
	logger, err := NewRunLogger(t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatalf("NewRunLogger: %v", err)
	}

	l := New(logger.Writer(), DefaultOptions())
	l.Info("session started")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(logger.LogPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "session started") {
		t.Errorf("log file content: %q", data)
	}
}

func TestRunLoggerCloseNil(t *testing.T) {
	var r *RunLogger
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil: %v", err)
	}
	if err := (&RunLogger{}).Close(); err != nil {
		t.Errorf("Close with nil file: %v", err)
	}
}

func TestFindLogDirMatchesRunLogger(t *testing.T) {
	baseDir := t.TempDir()
	workDir := t.TempDir()

	dir, err := FindLogDir(baseDir, workDir)
	if err != nil {
		t.Fatalf("FindLogDir: %v", err)
	}
	logger, err := NewRunLogger(baseDir, workDir)
	if err != nil {
		t.Fatalf("NewRunLogger: %v", err)
	}
	defer logger.Close()

	if dir != logger.Dir {
		t.Errorf("FindLogDir: got %q, run logger uses %q", dir, logger.Dir)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"my-project", "my-project"},
		{"My Project!", "My_Project"},
		{"a//b", "a_b"},
		{"", "project"},
		{"***", "project"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := slugify(tt.input); got != tt.want {
				t.Errorf("slugify(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestHashPath(t *testing.T) {
	a := hashPath("/a")
	if len(a) != 8 {
		t.Errorf("hash length: got %d, want 8", len(a))
	}
	if a != hashPath("/a") {
		t.Error("hash not stable")
	}
	if a == hashPath("/b") {
		t.Error("distinct paths share a hash")
	}
}

func writeLog(t *testing.T, dir, name, content string, mod time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFindLogRuns(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)
	older := writeLog(t, dir, "20240101-000000-1.log", "old\n", base)
	newer := writeLog(t, dir, "20240102-000000-2.log", "new\n", base.Add(time.Minute))
	writeLog(t, dir, "notes.txt", "ignored", base.Add(2*time.Minute))

	runs, err := FindLogRuns(dir)
	if err != nil {
		t.Fatalf("FindLogRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs: got %d, want 2", len(runs))
	}
	if runs[0].Path != newer || runs[1].Path != older {
		t.Errorf("order: got %s, %s", runs[0].Path, runs[1].Path)
	}
	if runs[0].RunID != "20240102-000000-2" || runs[0].Size != 4 {
		t.Errorf("run: %+v", runs[0])
	}

	latest, err := FindLatestLog(dir)
	if err != nil || latest != newer {
		t.Errorf("FindLatestLog: got %q, %v", latest, err)
	}
}

func TestFindLatestLogMissingDir(t *testing.T) {
	latest, err := FindLatestLog(filepath.Join(t.TempDir(), "missing"))
	if err != nil || latest != "" {
		t.Errorf("got %q, %v; want empty, nil", latest, err)
	}
}

func TestTailLog(t *testing.T) {
	dir := t.TempDir()
	path := writeLog(t, dir, "run.log", "one\ntwo\nthree\n", time.Now())

	tests := []struct {
		n    int
		want string
	}{
		{0, "one\ntwo\nthree\n"},
		{2, "two\nthree\n"},
		{10, "one\ntwo\nthree\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := TailLog(&buf, path, tt.n); err != nil {
			t.Fatalf("TailLog(%d): %v", tt.n, err)
		}
		if buf.String() != tt.want {
			t.Errorf("TailLog(%d): got %q, want %q", tt.n, buf.String(), tt.want)
		}
	}

	if err := TailLog(&bytes.Buffer{}, filepath.Join(dir, "missing.log"), 1); err == nil {
		t.Error("expected error for missing file")
	}
}
