// Package transform implements the content pipeline that turns wiki-dialect
// Markdown into plain Markdown/HTML ready for rendering: note embeds are
// inlined, wiki-links become hyperlinks or plain text, and image references
// are relocated into the output directory.
package transform

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/starford/dagaz/internal/vault"
)

// MaxEmbedDepth bounds recursive note embedding. Circular embeds survive as
// literal bracket syntax once the ceiling is reached.
const MaxEmbedDepth = 10

var (
	embedRe = regexp.MustCompile(`!\[\[(.*?)\]\]`)
	// linkRe also matches embed syntax so that embeds surviving the first
	// pass (missing targets, depth ceiling) are not mangled by link
	// resolution; the handler passes them through untouched.
	linkRe  = regexp.MustCompile(`!?\[\[(.*?)\]\]`)
	imageRe = regexp.MustCompile(`!\[(.*?)\]\((.*?)\)`)
)

// imageExts are the extensions that classify an embed as an image embed.
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// Transformer applies the pipeline to one page's body text. All fields are
// fixed for the duration of a run except seenAssets, which tracks copied
// basenames to surface duplicate-basename collisions.
type Transformer struct {
	vault     *vault.Vault
	outputDir string
	pages     map[string]struct{} // known page filenames, with .md extension
	logger    *slog.Logger

	seenAssets map[string]string // output basename -> source path
}

// New creates a Transformer for a single generation run.
func New(v *vault.Vault, outputDir string, pages []string, logger *slog.Logger) *Transformer {
	known := make(map[string]struct{}, len(pages))
	for _, p := range pages {
		known[p] = struct{}{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Transformer{
		vault:      v,
		outputDir:  outputDir,
		pages:      known,
		logger:     logger,
		seenAssets: make(map[string]string),
	}
}

// Transform runs the full pipeline over content.
func (t *Transformer) Transform(content string) string {
	return t.transform(content, 0)
}

// transform applies the three passes in fixed order: embeds, then links,
// then bare Markdown images. Embeds must come first so that an embedded
// note's links are resolved against the enclosing page's known-pages set.
func (t *Transformer) transform(content string, depth int) string {
	if depth > MaxEmbedDepth {
		t.logger.Warn("embed depth ceiling reached, leaving content unexpanded",
			slog.Int("depth", depth))
		return content
	}
	if content == "" {
		return ""
	}

	content = embedRe.ReplaceAllStringFunc(content, func(m string) string {
		ref := m[len("![[") : len(m)-len("]]")]
		return t.expandEmbed(m, ref, depth)
	})

	content = linkRe.ReplaceAllStringFunc(content, func(m string) string {
		if strings.HasPrefix(m, "!") {
			return m
		}
		ref := m[len("[[") : len(m)-len("]]")]
		return t.resolveLink(ref)
	})

	content = imageRe.ReplaceAllStringFunc(content, func(m string) string {
		sub := imageRe.FindStringSubmatch(m)
		return t.rewriteInlineImage(m, sub[2])
	})

	return content
}

// expandEmbed handles one `![[ref]]` construct. Image extensions delegate to
// the image embedder; anything else is a note embed that recursively re-runs
// the pipeline on the referenced note's body. On any miss the original
// source text is returned verbatim.
func (t *Transformer) expandEmbed(original, ref string, depth int) string {
	segments := strings.Split(ref, "|")
	target := strings.TrimSpace(segments[0])
	attrs := segments[1:]

	if target == "" {
		return original
	}

	if imageExts[strings.ToLower(filepath.Ext(target))] {
		out, ok := t.embedImage(target, attrs)
		if !ok {
			return original
		}
		return out
	}

	noteFile := target + ".md"
	data, err := t.vault.Read(noteFile)
	if err != nil {
		t.logger.Debug("embed target not found, keeping original syntax",
			slog.String("target", noteFile))
		return original
	}
	body := StripFrontmatter(string(data))
	return t.transform(body, depth+1)
}

// resolveLink handles one `[[ref]]` construct. Targets listed among the known
// pages become relative hyperlinks; everything else degrades to plain text.
func (t *Transformer) resolveLink(ref string) string {
	segments := strings.Split(ref, "|")
	target := segments[0]
	display := segments[len(segments)-1]

	if _, ok := t.pages[target+".md"]; ok {
		return fmt.Sprintf("[%s](%s.html)", display, target)
	}
	return display
}

// rewriteInlineImage handles pass three: bare Markdown image syntax whose
// destination may carry pipe-separated attributes. Unresolvable images keep
// their original syntax.
func (t *Transformer) rewriteInlineImage(original, ref string) string {
	segments := strings.Split(ref, "|")
	path := strings.TrimSpace(segments[0])
	attrs := segments[1:]

	out, ok := t.embedImage(path, attrs)
	if !ok {
		return original
	}
	return out
}
