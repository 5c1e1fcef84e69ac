package index

import (
	"log/slog"
	"time"

	"github.com/starford/dagaz/internal/checksum"
	"github.com/starford/dagaz/internal/parser"
	"github.com/starford/dagaz/internal/vault"
)

// Sync walks the vault and brings the index up to date: new or changed notes
// are parsed and upserted, notes removed from disk are deleted.
func Sync(db *DB, v vault.Provider, logger *slog.Logger) error {
	metas, err := v.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := v.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := IndexNote(db, m.Path, data); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed",
				slog.String("path", m.Path),
				slog.String("checksum", checksum.Short(data)))
		}
	}

	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.Delete(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// IndexNote parses raw note bytes and upserts the result.
func IndexNote(db *DB, path string, data []byte) error {
	note := parser.Parse(data)
	return db.Upsert(Entry{
		Path:      path,
		Title:     note.Title,
		Checksum:  checksum.Sum(data),
		UpdatedAt: time.Now(),
	}, note.Body, note.Links)
}
