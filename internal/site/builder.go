// Package site assembles the static site: it runs the content pipeline per
// page, renders Markdown, applies the HTML templates, and writes the output
// directory including the index page and syndication feeds.
package site

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/starford/dagaz/internal/feeds"
	"github.com/starford/dagaz/internal/models"
	"github.com/starford/dagaz/internal/render"
	"github.com/starford/dagaz/internal/transform"
	"github.com/starford/dagaz/internal/vault"
)

//go:embed templates/page.html templates/index.html templates/style.css
var templatesFS embed.FS

// Builder generates one site from a vault. It is created per run and holds
// only run-scoped state.
type Builder struct {
	vault     *vault.Vault
	outputDir string
	pages     []string
	meta      models.SiteMeta
	clean     bool

	renderer *render.Renderer
	pageTpl  *template.Template
	indexTpl *template.Template
	logger   *slog.Logger
}

// NewBuilder prepares a Builder; template parse errors are programmer errors
// surfaced immediately.
func NewBuilder(v *vault.Vault, outputDir string, pages []string, meta models.SiteMeta, clean bool, logger *slog.Logger) (*Builder, error) {
	pageTpl, err := template.ParseFS(templatesFS, "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("site: parse page template: %w", err)
	}
	indexTpl, err := template.ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("site: parse index template: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		vault:     v,
		outputDir: outputDir,
		pages:     pages,
		meta:      meta,
		clean:     clean,
		renderer:  render.New(),
		pageTpl:   pageTpl,
		indexTpl:  indexTpl,
		logger:    logger,
	}, nil
}

type pageData struct {
	Site    models.SiteMeta
	Title   string
	Content template.HTML
}

type indexData struct {
	Site  models.SiteMeta
	Pages []models.ProcessedPage
}

// Build generates the whole site and returns the pages that processed
// successfully, in configured order. A page failure is logged and skipped;
// only run-level failures (output directory, index, feeds) return an error.
func (b *Builder) Build() ([]models.ProcessedPage, error) {
	if b.clean {
		if err := os.RemoveAll(b.outputDir); err != nil {
			return nil, fmt.Errorf("site: clean output dir: %w", err)
		}
	}
	if err := os.MkdirAll(b.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("site: create output dir: %w", err)
	}
	if err := b.writeStylesheet(); err != nil {
		return nil, err
	}

	tr := transform.New(b.vault, b.outputDir, b.pages, b.logger)

	processed := make([]models.ProcessedPage, 0, len(b.pages))
	for _, page := range b.pages {
		p, err := b.buildPage(tr, page)
		if err != nil {
			b.logger.Error("page failed, skipping",
				slog.String("page", page),
				slog.String("error", err.Error()))
			continue
		}
		processed = append(processed, p)
		b.logger.Info("page generated", slog.String("page", page), slog.String("output", p.Link))
	}

	if err := b.writeIndex(processed); err != nil {
		return nil, err
	}
	if err := feeds.Write(b.outputDir, b.meta, processed, time.Now()); err != nil {
		return nil, err
	}

	b.logger.Info("site generated",
		slog.Int("pages", len(processed)),
		slog.Int("skipped", len(b.pages)-len(processed)),
		slog.String("output", b.outputDir))
	return processed, nil
}

// buildPage runs the pipeline for a single source page and writes its HTML file.
func (b *Builder) buildPage(tr *transform.Transformer, page string) (models.ProcessedPage, error) {
	raw, err := b.vault.Read(page)
	if err != nil {
		return models.ProcessedPage{}, err
	}
	info, err := b.vault.Stat(page)
	if err != nil {
		return models.ProcessedPage{}, err
	}

	body := transform.StripFrontmatter(string(raw))
	body = tr.Transform(body)

	html, err := b.renderer.Render(body)
	if err != nil {
		return models.ProcessedPage{}, err
	}

	title := strings.TrimSuffix(filepath.Base(page), ".md")
	outName := title + ".html"

	out, err := os.Create(filepath.Join(b.outputDir, outName))
	if err != nil {
		return models.ProcessedPage{}, fmt.Errorf("site: create %s: %w", outName, err)
	}
	defer out.Close()

	data := pageData{Site: b.meta, Title: title, Content: template.HTML(html)}
	if err := b.pageTpl.Execute(out, data); err != nil {
		return models.ProcessedPage{}, fmt.Errorf("site: render %s: %w", outName, err)
	}

	return models.ProcessedPage{
		Title:   title,
		Link:    outName,
		HTML:    html,
		ModTime: info.ModTime(),
	}, nil
}

func (b *Builder) writeIndex(pages []models.ProcessedPage) error {
	out, err := os.Create(filepath.Join(b.outputDir, "index.html"))
	if err != nil {
		return fmt.Errorf("site: create index.html: %w", err)
	}
	defer out.Close()
	if err := b.indexTpl.Execute(out, indexData{Site: b.meta, Pages: pages}); err != nil {
		return fmt.Errorf("site: render index.html: %w", err)
	}
	return nil
}

func (b *Builder) writeStylesheet() error {
	css, err := templatesFS.ReadFile("templates/style.css")
	if err != nil {
		return fmt.Errorf("site: read embedded stylesheet: %w", err)
	}
	if err := os.WriteFile(filepath.Join(b.outputDir, "style.css"), css, 0o644); err != nil {
		return fmt.Errorf("site: write style.css: %w", err)
	}
	return nil
}
