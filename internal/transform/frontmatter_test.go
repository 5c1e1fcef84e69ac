package transform

import "testing"

func TestStripFrontmatter_Basic(t *testing.T) {
	input := "---\ntitle: Hello\ntags:\n  - a\n---\n# Hello\nBody.\n"
	got := StripFrontmatter(input)
	want := "# Hello\nBody.\n"
	if got != want {
		t.Errorf("StripFrontmatter = %q, want %q", got, want)
	}
}

func TestStripFrontmatter_NoBlock(t *testing.T) {
	input := "# Heading\nJust text.\n"
	if got := StripFrontmatter(input); got != input {
		t.Errorf("text without frontmatter changed: %q", got)
	}
}

func TestStripFrontmatter_MidTextBlockUntouched(t *testing.T) {
	input := "Intro paragraph.\n---\nkey: value\n---\nMore text.\n"
	if got := StripFrontmatter(input); got != input {
		t.Errorf("mid-text --- block was removed: %q", got)
	}
}

func TestStripFrontmatter_Idempotent(t *testing.T) {
	input := "---\ntitle: X\n---\nBody text.\n"
	once := StripFrontmatter(input)
	twice := StripFrontmatter(once)
	if once != twice {
		t.Errorf("strip not idempotent: once=%q twice=%q", once, twice)
	}
}

func TestStripFrontmatter_UnterminatedBlockUntouched(t *testing.T) {
	input := "---\ntitle: X\nno closing fence\n"
	if got := StripFrontmatter(input); got != input {
		t.Errorf("unterminated block was stripped: %q", got)
	}
}

func TestStripFrontmatter_TrailingSpacesOnFences(t *testing.T) {
	input := "--- \ntitle: X\n---\t\nBody.\n"
	if got := StripFrontmatter(input); got != "Body.\n" {
		t.Errorf("got %q, want %q", got, "Body.\n")
	}
}
