package transform

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// imageAttrs holds the recognized display attributes of an image reference.
// First match per category wins; unrecognized tokens are ignored.
type imageAttrs struct {
	width string // purely numeric token
	float string // "left" or "right"
}

func parseImageAttrs(tokens []string) imageAttrs {
	var a imageAttrs
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		switch {
		case a.width == "" && isNumeric(tok):
			a.width = tok
		case a.float == "" && isFloatDirection(tok):
			a.float = strings.ToLower(tok)
		}
	}
	return a
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isFloatDirection(s string) bool {
	l := strings.ToLower(s)
	return l == "left" || l == "right"
}

// embedImage resolves an image reference, copies the asset into the output
// images directory, and returns the inline construct referencing the copy.
// ok is false when the image cannot be resolved or copied; callers must then
// preserve the original source text.
func (t *Transformer) embedImage(ref string, attrTokens []string) (string, bool) {
	src, ok := t.vault.ResolveAsset(ref)
	if !ok {
		t.logger.Debug("image not found, keeping original syntax", slog.String("ref", ref))
		return "", false
	}

	base := filepath.Base(src)
	if prev, dup := t.seenAssets[base]; dup && prev != src {
		t.logger.Warn("duplicate asset basename, last writer wins",
			slog.String("basename", base),
			slog.String("previous", prev),
			slog.String("current", src))
	}

	imagesDir := filepath.Join(t.outputDir, "images")
	if err := os.MkdirAll(imagesDir, 0o755); err != nil {
		t.logger.Warn("create images dir failed",
			slog.String("dir", imagesDir), slog.String("error", err.Error()))
		return "", false
	}
	dst := filepath.Join(imagesDir, base)
	if err := copyFile(src, dst); err != nil {
		t.logger.Warn("copy asset failed",
			slog.String("src", src), slog.String("error", err.Error()))
		return "", false
	}
	t.seenAssets[base] = src

	attrs := parseImageAttrs(attrTokens)
	rel := "images/" + base
	if attrs.width == "" && attrs.float == "" {
		return fmt.Sprintf("![%s](%s)", base, rel), true
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<img src="%s" alt="%s"`, rel, base)
	if attrs.width != "" {
		fmt.Fprintf(&b, ` width="%s"`, attrs.width)
	}
	if attrs.float != "" {
		fmt.Fprintf(&b, ` style="float: %s;"`, attrs.float)
	}
	b.WriteString(" />")
	return b.String(), true
}

// copyFile copies src to dst, overwriting any existing file and carrying the
// source modification time over to the copy.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
