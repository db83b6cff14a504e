package textproc

import (
	"strings"
	"testing"
)

func TestClean(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"hello world", "hello world"},
		{"  hello \t\n  world  ", "hello world"},
		{"a\n\nb\r\nc", "a b c"},
	}
	for _, tt := range tests {
		if got := Clean(tt.in); got != tt.want {
			t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBreakIntoGroups(t *testing.T) {
	text := "one two three four five six seven"

	groups, err := BreakIntoGroups(text, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"one two three", "four five six", "seven"}
	if len(groups) != len(want) {
		t.Fatalf("expected %d groups, got %d", len(want), len(groups))
	}
	for i := range want {
		if groups[i] != want[i] {
			t.Errorf("group %d = %q, want %q", i, groups[i], want[i])
		}
	}
}

func TestBreakIntoGroups_ChunkCountAndRejoin(t *testing.T) {
	words := make([]string, 47)
	for i := range words {
		words[i] = "w"
	}
	text := strings.Join(words, "  \n ")

	for _, n := range []int{1, 5, 10, 47, 100} {
		groups, err := BreakIntoGroups(text, n)
		if err != nil {
			t.Fatalf("group size %d: %v", n, err)
		}

		wantCount := (47 + n - 1) / n
		if len(groups) != wantCount {
			t.Errorf("group size %d: expected %d chunks, got %d", n, wantCount, len(groups))
		}

		for i, g := range groups {
			if c := len(strings.Split(g, " ")); c > n {
				t.Errorf("group size %d: chunk %d has %d words", n, i, c)
			}
		}

		if rejoined := strings.Join(groups, " "); rejoined != Clean(text) {
			t.Errorf("group size %d: rejoined chunks do not reproduce token sequence", n)
		}
	}
}

func TestBreakIntoGroups_EmptyInput(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t "} {
		groups, err := BreakIntoGroups(in, 10)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", in, err)
		}
		if len(groups) != 0 {
			t.Errorf("expected no groups for %q, got %d", in, len(groups))
		}
	}
}

func TestBreakIntoGroups_InvalidGroupSize(t *testing.T) {
	for _, n := range []int{0, -1, -500} {
		if _, err := BreakIntoGroups("some text", n); err == nil {
			t.Errorf("expected error for group size %d", n)
		}
	}
}
