package site

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/dagaz/internal/models"
	"github.com/starford/dagaz/internal/testutil"
)

var testMeta = models.SiteMeta{
	Title:       "Test Site",
	Description: "A test site",
	URL:         "https://example.com",
	AuthorName:  "Tester",
	AuthorEmail: "tester@example.com",
}

func discard() *slog.Logger { return slog.New(slog.DiscardHandler) }

func TestBuild_FullSite(t *testing.T) {
	vaultDir, v := testutil.TestVault(t)
	outDir := filepath.Join(t.TempDir(), "public")

	testutil.WriteFile(t, vaultDir, "A.md", []byte("---\ntitle: A\n---\nSee [[B]] and ![[B]]."))
	testutil.WriteFile(t, vaultDir, "B.md", []byte("Hello world"))

	b, err := NewBuilder(v, outDir, []string{"A.md", "B.md"}, testMeta, false, discard())
	if err != nil {
		t.Fatal(err)
	}
	pages, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 2 {
		t.Fatalf("processed %d pages, want 2", len(pages))
	}
	if pages[0].Title != "A" || pages[0].Link != "A.html" {
		t.Errorf("first page = %+v", pages[0])
	}

	for _, name := range []string{"A.html", "B.html", "index.html", "style.css", "rss.xml", "atom.xml"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing output file %s: %v", name, err)
		}
	}

	html, err := os.ReadFile(filepath.Join(outDir, "A.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(html), `<a href="B.html">B</a>`) {
		t.Errorf("A.html missing resolved link: %s", html)
	}
	if !strings.Contains(string(html), "Hello world") {
		t.Errorf("A.html missing embedded note content: %s", html)
	}

	idx, err := os.ReadFile(filepath.Join(outDir, "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`<a href="A.html">A</a>`, `<a href="B.html">B</a>`, "Test Site"} {
		if !strings.Contains(string(idx), want) {
			t.Errorf("index.html missing %q", want)
		}
	}
}

func TestBuild_ImageEndToEnd(t *testing.T) {
	vaultDir, v := testutil.TestVault(t)
	outDir := filepath.Join(t.TempDir(), "public")

	testutil.WriteFile(t, vaultDir, "Pic.md", []byte("![[photo.png|300|left]]"))
	testutil.WriteFile(t, vaultDir, "attachments/photo.png", []byte("pngbytes"))

	b, err := NewBuilder(v, outDir, []string{"Pic.md"}, testMeta, false, discard())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.Build(); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(outDir, "images", "photo.png")); err != nil {
		t.Errorf("asset not relocated: %v", err)
	}
	html, err := os.ReadFile(filepath.Join(outDir, "Pic.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(html), `width="300"`) || !strings.Contains(string(html), "float: left") {
		t.Errorf("image attributes missing from output: %s", html)
	}
}

func TestBuild_MissingPageSkipped(t *testing.T) {
	vaultDir, v := testutil.TestVault(t)
	outDir := filepath.Join(t.TempDir(), "public")

	testutil.WriteFile(t, vaultDir, "Good.md", []byte("fine"))

	b, err := NewBuilder(v, outDir, []string{"Gone.md", "Good.md"}, testMeta, false, discard())
	if err != nil {
		t.Fatal(err)
	}
	pages, err := b.Build()
	if err != nil {
		t.Fatalf("run must survive a failed page: %v", err)
	}
	if len(pages) != 1 || pages[0].Title != "Good" {
		t.Fatalf("pages = %+v, want only Good", pages)
	}

	idx, err := os.ReadFile(filepath.Join(outDir, "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(idx), "Gone.html") {
		t.Errorf("skipped page listed in index")
	}
}

func TestBuild_CleanRecreatesOutput(t *testing.T) {
	vaultDir, v := testutil.TestVault(t)
	outDir := filepath.Join(t.TempDir(), "public")
	testutil.WriteFile(t, vaultDir, "A.md", []byte("a"))
	testutil.WriteFile(t, outDir, "stale.html", []byte("old"))

	b, err := NewBuilder(v, outDir, []string{"A.md"}, testMeta, true, discard())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.Build(); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(outDir, "stale.html")); !os.IsNotExist(err) {
		t.Error("stale file survived clean build")
	}
	if _, err := os.Stat(filepath.Join(outDir, "A.html")); err != nil {
		t.Errorf("A.html missing after clean build: %v", err)
	}
}

func TestBuild_FeedContents(t *testing.T) {
	vaultDir, v := testutil.TestVault(t)
	outDir := filepath.Join(t.TempDir(), "public")
	testutil.WriteFile(t, vaultDir, "Post.md", []byte("# Post\ncontent here"))

	b, err := NewBuilder(v, outDir, []string{"Post.md"}, testMeta, false, discard())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.Build(); err != nil {
		t.Fatal(err)
	}

	rss, err := os.ReadFile(filepath.Join(outDir, "rss.xml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(rss), "https://example.com/Post.html") {
		t.Errorf("rss.xml missing absolute page link: %s", rss)
	}
	if !strings.Contains(string(rss), "Test Site") {
		t.Errorf("rss.xml missing site title")
	}

	atom, err := os.ReadFile(filepath.Join(outDir, "atom.xml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(atom), "Post") {
		t.Errorf("atom.xml missing entry title")
	}
}
