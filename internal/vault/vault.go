// Package vault provides read-only access to the source Markdown vault,
// including asset resolution with an attachments-directory fallback.
package vault

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/checksum"
	"github.com/starford/dagaz/internal/models"
)

// Provider is the read-side interface consumed by the index and MCP server.
type Provider interface {
	// List returns metadata for every .md file under dir (relative to vault root).
	List(dir string) ([]models.NoteMetadata, error)
	// Read returns the raw bytes of the file at path (relative to vault root).
	Read(path string) ([]byte, error)
}

// Vault is a Provider backed by the local file system.
type Vault struct {
	root           string // absolute path to the vault directory
	attachmentsDir string // subdirectory tried first by ResolveAsset
}

// New opens a vault rooted at the given directory. The directory must exist.
func New(root, attachmentsDir string) (*Vault, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("vault: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("vault: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vault: root is not a directory: %s", abs)
	}
	if attachmentsDir == "" {
		attachmentsDir = "attachments"
	}
	return &Vault{root: abs, attachmentsDir: attachmentsDir}, nil
}

// Root returns the absolute vault root.
func (v *Vault) Root() string { return v.root }

// safePath resolves a relative path against the vault root and rejects
// any result that escapes it (directory traversal).
func (v *Vault) safePath(rel string) (string, error) {
	if rel == "" {
		return v.root, nil
	}
	cleaned := filepath.Clean(rel)
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("vault: absolute paths not allowed: %s", rel)
	}
	joined := filepath.Join(v.root, cleaned)
	abs, err := filepath.Abs(joined)
	if err != nil {
		return "", fmt.Errorf("vault: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, v.root+string(os.PathSeparator)) && abs != v.root {
		return "", fmt.Errorf("vault: path escapes vault root: %s", rel)
	}
	return abs, nil
}

// Read returns the raw bytes of a vault file.
func (v *Vault) Read(path string) ([]byte, error) {
	abs, err := v.safePath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("vault: read %s: %w", path, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("vault: read %s: %w", path, err)
	}
	return data, nil
}

// Stat returns file info for a vault file.
func (v *Vault) Stat(path string) (os.FileInfo, error) {
	abs, err := v.safePath(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("vault: stat %s: %w", path, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("vault: stat %s: %w", path, err)
	}
	return info, nil
}

// NoteExists reports whether path names a regular file under the vault root.
func (v *Vault) NoteExists(path string) bool {
	info, err := v.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// ResolveAsset maps a referenced asset to a filesystem path.
//
// An absolute reference is returned as-is (existence not guaranteed).
// Otherwise the attachments subdirectory is tried first, then the vault
// root. The second return value is false when neither exists.
func (v *Vault) ResolveAsset(ref string) (string, bool) {
	if ref == "" {
		return "", false
	}
	if filepath.IsAbs(ref) {
		return ref, true
	}
	candidate := filepath.Join(v.root, v.attachmentsDir, ref)
	if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
		return candidate, true
	}
	candidate = filepath.Join(v.root, ref)
	if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
		return candidate, true
	}
	return "", false
}

// List walks dir (relative to root) and returns metadata for every .md file.
func (v *Vault) List(dir string) ([]models.NoteMetadata, error) {
	base, err := v.safePath(dir)
	if err != nil {
		return nil, err
	}
	var out []models.NoteMetadata
	err = filepath.WalkDir(base, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(v.root, p)
		out = append(out, models.NoteMetadata{
			Path:      rel,
			Checksum:  checksum.Sum(data),
			UpdatedAt: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("vault: list: %w", err)
	}
	return out, nil
}
