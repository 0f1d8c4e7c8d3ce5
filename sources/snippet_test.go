package sources

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestMakeSnippet_StripsHTML(t *testing.T) {
	got := MakeSnippet("<p>We are <b>hiring</b> a Go engineer.</p>")
	if got != "We are hiring a Go engineer." {
		t.Fatalf("unexpected snippet %q", got)
	}
}

func TestMakeSnippet_CollapsesWhitespace(t *testing.T) {
	got := MakeSnippet("Join   our\n\n team\ttoday")
	if got != "Join our team today" {
		t.Fatalf("unexpected snippet %q", got)
	}
}

func TestMakeSnippet_ShortTextUntouched(t *testing.T) {
	if got := MakeSnippet("Short description"); got != "Short description" {
		t.Fatalf("unexpected snippet %q", got)
	}
	if got := MakeSnippet(""); got != "" {
		t.Fatalf("expected empty snippet, got %q", got)
	}
}

func TestMakeSnippet_CutsAtWordBoundary(t *testing.T) {
	long := strings.Repeat("wordings ", 60)
	got := MakeSnippet(long)
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("long snippet should end with ellipsis: %q", got)
	}
	if strings.HasSuffix(got, " …") {
		t.Fatalf("ellipsis should follow a word, got %q", got)
	}
	body := strings.TrimSuffix(got, "…")
	if len(body) > snippetMaxLen {
		t.Fatalf("snippet body too long: %d", len(body))
	}
	for _, w := range strings.Fields(body) {
		if w != "wordings" {
			t.Fatalf("word was cut mid-way: %q", w)
		}
	}
}

func TestMakeSnippet_MultibyteCut(t *testing.T) {
	long := strings.Repeat("日", 100)
	got := MakeSnippet(long)
	if !utf8.ValidString(got) {
		t.Fatalf("snippet is not valid UTF-8: %q", got)
	}
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("long snippet should end with ellipsis: %q", got)
	}
	body := strings.TrimSuffix(got, "…")
	if len(body) > snippetMaxLen {
		t.Fatalf("snippet body too long: %d", len(body))
	}
	for _, r := range body {
		if r != '日' {
			t.Fatalf("rune was cut mid-way: %q", r)
		}
	}
}
