// Package models defines the domain types for Dagaz.
package models

import "time"

// Note represents a parsed Markdown file in the vault. It is produced by the
// parser for the serve-mode index; the build pipeline works on raw text.
type Note struct {
	Path        string                 `json:"path"`
	Body        string                 `json:"body"`
	Frontmatter map[string]interface{} `json:"frontmatter,omitempty"`
	Title       string                 `json:"title,omitempty"`
	Links       []string               `json:"links,omitempty"`
	Tags        []string               `json:"tags,omitempty"`
	Checksum    string                 `json:"checksum"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// NoteMetadata is a lightweight representation returned by list operations.
type NoteMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SiteMeta carries the site and feed metadata from configuration into the
// assembler and feed builders.
type SiteMeta struct {
	Title       string
	Description string
	URL         string
	Logo        string
	AuthorName  string
	AuthorEmail string
}

// ProcessedPage is the output of building one source page. It feeds the index
// page and the RSS/Atom builders; nothing is persisted across runs.
type ProcessedPage struct {
	// Title is the filename stem of the source page.
	Title string
	// Link is the page-relative output path, e.g. "Note.html".
	Link string
	// HTML is the rendered body fragment (before page templating).
	HTML string
	// ModTime is the modification time of the source file.
	ModTime time.Time
}
