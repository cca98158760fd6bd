package slug

import (
	"strings"
	"testing"
)

func TestMake(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"  Intro to Go: Channels! ": "intro-to-go-channels",
		"":                         "untitled",
		"???":                      "untitled",
	}
	for in, want := range cases {
		if got := Make(in); got != want {
			t.Fatalf("Make(%q) = %q, want %q", in, got, want)
		}
	}
	if got := Make(strings.Repeat("ab ", 60)); len(got) > maxLen || strings.HasSuffix(got, "-") {
		t.Fatalf("long slug not trimmed: %q", got)
	}
}
