// Package feeds writes RSS and Atom feeds for the generated site.
package feeds

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	gfeeds "github.com/gorilla/feeds"

	"github.com/starford/dagaz/internal/models"
)

// Write serializes rss.xml and atom.xml into outputDir. Page links are
// page-relative and are joined onto the configured site URL here.
func Write(outputDir string, meta models.SiteMeta, pages []models.ProcessedPage, now time.Time) error {
	feed := &gfeeds.Feed{
		Title:       meta.Title,
		Link:        &gfeeds.Link{Href: meta.URL},
		Description: meta.Description,
		Created:     now,
	}
	if meta.AuthorName != "" || meta.AuthorEmail != "" {
		feed.Author = &gfeeds.Author{Name: meta.AuthorName, Email: meta.AuthorEmail}
	}
	if meta.Logo != "" {
		feed.Image = &gfeeds.Image{Url: absoluteURL(meta.URL, meta.Logo), Title: meta.Title, Link: meta.URL}
	}

	for _, p := range pages {
		feed.Items = append(feed.Items, &gfeeds.Item{
			Title:   p.Title,
			Link:    &gfeeds.Link{Href: absoluteURL(meta.URL, p.Link)},
			Content: p.HTML,
			Created: p.ModTime,
		})
	}

	rss, err := feed.ToRss()
	if err != nil {
		return fmt.Errorf("feeds: build rss: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outputDir, "rss.xml"), []byte(rss), 0o644); err != nil {
		return fmt.Errorf("feeds: write rss: %w", err)
	}

	atom, err := feed.ToAtom()
	if err != nil {
		return fmt.Errorf("feeds: build atom: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outputDir, "atom.xml"), []byte(atom), 0o644); err != nil {
		return fmt.Errorf("feeds: write atom: %w", err)
	}

	return nil
}

func absoluteURL(base, rel string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(rel, "/")
}
