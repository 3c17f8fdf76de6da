package datadir

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestPaths(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"config", ConfigPath("/data"), filepath.Join("/data", "todo.toml")},
		{"logs", LogPath("/data"), filepath.Join("/data", "logs")},
		{"slot", SlotPath("/data", "todos"), filepath.Join("/data", "todos.json")},
		{"empty dir", SlotPath("", "work"), "work.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestHome(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	if got := Home(); !strings.HasSuffix(got, Dir) {
		t.Errorf("Home: got %q, want suffix %q", got, Dir)
	}
}
