package filesystem

import (
	"path/filepath"
	"testing"
)

// TestExpandPath tests home expansion and cleaning
func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/crew")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/var/db/storage.db", "/var/db/storage.db"},
		{"~", "/home/crew"},
		{"~/.firewatch/storage.db", "/home/crew/.firewatch/storage.db"},
		{"data/../storage.db", "storage.db"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got, want := StateDir(), filepath.Join("/home/crew", ".firewatch"); got != want {
		t.Errorf("StateDir() = %q, want %q", got, want)
	}
}
