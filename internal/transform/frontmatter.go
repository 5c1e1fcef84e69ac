package transform

import "regexp"

// frontmatterRe matches a metadata block only at the very start of the text:
// a `---` line, any content, a closing `---` line followed by a newline.
var frontmatterRe = regexp.MustCompile(`(?s)\A---[ \t]*\n(.*?\n)?---[ \t]*\n`)

// StripFrontmatter removes a leading frontmatter block. Text without a block
// at position zero is returned unchanged; a `---` block anywhere else is
// never touched.
func StripFrontmatter(text string) string {
	loc := frontmatterRe.FindStringIndex(text)
	if loc == nil {
		return text
	}
	return text[loc[1]:]
}
