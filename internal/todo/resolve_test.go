package todo

import (
	"errors"
	"testing"
)

func TestResolve(t *testing.T) {
	tasks := []Task{
		{ID: "abc123"},
		{ID: "abd456"},
		{ID: "1700000000000"},
		{ID: "17"},
	}

	tests := []struct {
		name    string
		ref     string
		wantID  ID
		wantErr error
	}{
		{"exact", "abc123", "abc123", nil},
		{"unique prefix", "abc", "abc123", nil},
		{"exact beats prefix", "17", "17", nil},
		{"long numeric prefix", "170", "1700000000000", nil},
		{"ambiguous", "ab", "", ErrAmbiguousRef},
		{"missing", "zzz", "", ErrTaskNotFound},
		{"empty", "  ", "", ErrRefRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tasks, tt.ref)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve(%q): got err %v, want %v", tt.ref, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q): unexpected error %v", tt.ref, err)
			}
			if got.ID != tt.wantID {
				t.Errorf("Resolve(%q): got %q, want %q", tt.ref, got.ID, tt.wantID)
			}
		})
	}
}

func TestShortID(t *testing.T) {
	tasks := []Task{
		{ID: "abc123"},
		{ID: "abd456"},
		{ID: "xyz"},
	}

	tests := []struct {
		id     ID
		minLen int
		want   string
	}{
		{"abc123", 1, "abc"},
		{"abd456", 1, "abd"},
		{"xyz", 1, "x"},
		{"xyz", 2, "xy"},
		{"xyz", 0, "x"},
		{"xyz", 10, "xyz"},
	}
	for _, tt := range tests {
		if got := ShortID(tasks, tt.id, tt.minLen); got != tt.want {
			t.Errorf("ShortID(%q, %d): got %q, want %q", tt.id, tt.minLen, got, tt.want)
		}
	}
}
