package clip

import (
	"context"
	"strings"
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWords int
		maxRunes int
		want     string
	}{
		{
			name:     "under both limits",
			input:    "a short sentence",
			maxWords: 10,
			maxRunes: 100,
			want:     "a short sentence",
		},
		{
			name:     "word limit bites",
			input:    "one two three four five",
			maxWords: 3,
			maxRunes: 100,
			want:     "one two three",
		},
		{
			name:     "rune limit bites on unspaced text",
			input:    strings.Repeat("字", 20),
			maxWords: 10,
			maxRunes: 5,
			want:     strings.Repeat("字", 5),
		},
		{
			name:     "empty input",
			input:    "",
			maxWords: 3,
			maxRunes: 10,
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.input, tt.maxWords, tt.maxRunes); got != tt.want {
				t.Errorf("truncate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFromURL_RejectsNonHTTP(t *testing.T) {
	tests := []string{
		"ftp://example.com/file",
		"file:///etc/passwd",
		"example.com/no-scheme",
		"",
	}

	for _, url := range tests {
		if _, err := fromURL(context.Background(), url); err == nil {
			t.Errorf("fromURL(%q) expected error", url)
		}
	}
}

func TestFromURLs_CollectsFailures(t *testing.T) {
	urls := []string{"not-a-url", "also not a url"}

	results, failures := FromURLs(context.Background(), urls)

	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
	if len(failures) != 2 {
		t.Fatalf("got %d failures, want 2", len(failures))
	}
	for _, f := range failures {
		if f.Error == "" {
			t.Errorf("failure for %q should carry an error message", f.URL)
		}
	}
}

func TestFromURLs_Empty(t *testing.T) {
	results, failures := FromURLs(context.Background(), nil)

	if len(results) != 0 || len(failures) != 0 {
		t.Errorf("got %d results and %d failures, want none", len(results), len(failures))
	}
}
