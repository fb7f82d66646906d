package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"slices"
	"strings"

	"github.com/tartampluch/go-lifestory/internal/config"
)

// ImportStats tracks import statistics.
type ImportStats struct {
	Imported int
	Skipped  int
	Failed   int
}

// Importer copies a file content tree into a writable store, normalizing
// every document to JSON on the way.
type Importer struct {
	dst Writer
}

// NewImporter creates an Importer writing into dst.
func NewImporter(dst Writer) *Importer {
	return &Importer{dst: dst}
}

// Import walks <kind>/ directories of src. A document that fails to
// decode or store is counted and logged; the walk continues. Missing
// kind directories are not an error. When a key has several files, only
// the one FileSource prefers is imported and the rest count as skipped.
func (i *Importer) Import(ctx context.Context, src fs.FS) (ImportStats, error) {
	var stats ImportStats

	for _, kind := range Kinds() {
		entries, err := fs.ReadDir(src, string(kind))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return stats, fmt.Errorf("%s: %w", config.ErrImportWalk, err)
		}

		preferred := preferredFiles(entries)

		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				return stats, err
			}

			name := entry.Name()
			ext := path.Ext(name)
			format, ok := FormatForExt(ext)
			if entry.IsDir() || !ok || preferred[strings.TrimSuffix(name, ext)] != name {
				slog.Debug(config.MsgImportSkipped,
					config.LogKeyComponent, config.CompImporter,
					config.LogKeyFile, path.Join(string(kind), name),
				)
				stats.Skipped++
				continue
			}

			key := strings.TrimSuffix(name, ext)
			if err := i.importOne(ctx, src, kind, key, path.Join(string(kind), name), format); err != nil {
				slog.Error(config.MsgImportFailed,
					config.LogKeyComponent, config.CompImporter,
					config.LogKeyKind, string(kind),
					config.LogKeyKey, key,
					config.LogKeyError, err,
				)
				stats.Failed++
				continue
			}

			slog.Info(config.MsgImportDocument,
				config.LogKeyComponent, config.CompImporter,
				config.LogKeyKind, string(kind),
				config.LogKeyKey, key,
			)
			stats.Imported++
		}
	}

	return stats, nil
}

// preferredFiles maps each document key to the file FileSource would serve
// for it, so every backend resolves a content tree the same way.
func preferredFiles(entries []fs.DirEntry) map[string]string {
	preferred := map[string]string{}
	rank := map[string]int{}
	for _, entry := range entries {
		name := entry.Name()
		ext := path.Ext(name)
		r := slices.Index(fileExts, ext)
		if entry.IsDir() || r < 0 {
			continue
		}
		key := strings.TrimSuffix(name, ext)
		if best, seen := rank[key]; !seen || r < best {
			rank[key] = r
			preferred[key] = name
		}
	}
	return preferred
}

func (i *Importer) importOne(ctx context.Context, src fs.FS, kind Kind, key, name string, format Format) error {
	raw, err := fs.ReadFile(src, name)
	if err != nil {
		return err
	}

	body, err := normalize(kind, raw, format)
	if err != nil {
		return fmt.Errorf("%s %s: %w", config.ErrContentDecode, name, err)
	}

	return i.dst.Put(ctx, kind, key, body)
}

// normalize decodes raw into the typed document of kind, which rejects
// malformed documents, and re-encodes it as JSON.
func normalize(kind Kind, raw []byte, format Format) ([]byte, error) {
	var doc any
	switch kind {
	case KindYear:
		doc = &YearDocument{}
	case KindGeneration:
		doc = &GenerationDocument{}
	case KindBirthday:
		doc = &BirthdayDocument{}
	default:
		return nil, fmt.Errorf("unknown kind %q", kind)
	}

	if err := Decode(raw, format, doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}
