package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/tartampluch/go-lifestory/internal/config"
)

var fileExts = []string{config.ExtJSON, config.ExtYAML, config.ExtYML}

// FileSource reads documents laid out as <kind>/<key>.{json,yaml,yml}.
type FileSource struct {
	fsys fs.FS
}

// NewFileSource serves documents from fsys, typically os.DirFS(dir).
func NewFileSource(fsys fs.FS) *FileSource {
	return &FileSource{fsys: fsys}
}

// Fetch implements Source. JSON wins when several extensions exist.
func (s *FileSource) Fetch(ctx context.Context, kind Kind, key string) ([]byte, Format, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	if !validKey(key) {
		return nil, 0, fmt.Errorf("%w: %s/%q", ErrNotFound, kind, key)
	}

	for _, ext := range fileExts {
		name := path.Join(string(kind), key+ext)

		body, err := fs.ReadFile(s.fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, 0, fmt.Errorf("%s %s: %w", config.ErrContentFetch, name, err)
		}

		format, _ := FormatForExt(ext)
		return body, format, nil
	}

	return nil, 0, fmt.Errorf("%w: %s/%s", ErrNotFound, kind, key)
}

// validKey rejects keys that could escape their kind's directory or URL segment.
func validKey(key string) bool {
	return key != "" && key != "." && key != ".." && !strings.ContainsAny(key, `/\?#%`)
}
