package utils

import (
	"strings"
	"testing"
)

func TestNormalizeUsername(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"simple", "alice", "alice", true},
		{"trims whitespace", "  alice  ", "alice", true},
		{"minimum length", "ab", "ab", true},
		{"maximum length", strings.Repeat("x", 20), strings.Repeat("x", 20), true},
		{"empty", "", "", false},
		{"whitespace only", "   ", "", false},
		{"too short", "a", "", false},
		{"too short after trim", " a ", "", false},
		{"too long", strings.Repeat("x", 21), "", false},
		{"multibyte counts runes", strings.Repeat("ü", 20), strings.Repeat("ü", 20), true},
		{"multibyte too long", strings.Repeat("ü", 21), "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeUsername(tc.input)
			if tc.ok {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got != tc.want {
					t.Fatalf("expected %q, got %q", tc.want, got)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error for %q", tc.input)
			}
		})
	}
}
