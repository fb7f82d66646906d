package content

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tartampluch/go-lifestory/internal/config"
	"gopkg.in/yaml.v3"
)

// Format is the serialization of a stored document.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// Source fetches raw documents. Implementations return an error wrapping
// ErrNotFound when the key does not exist.
type Source interface {
	Fetch(ctx context.Context, kind Kind, key string) ([]byte, Format, error)
}

// Writer stores normalized JSON documents; used by the importer.
type Writer interface {
	Put(ctx context.Context, kind Kind, key string, body []byte) error
}

// YearLoader loads the document of a birth year.
type YearLoader interface {
	LoadYear(ctx context.Context, year int) (YearDocument, error)
}

// GenerationLoader loads the document of a generation.
type GenerationLoader interface {
	LoadGeneration(ctx context.Context, id string) (GenerationDocument, error)
}

// BirthdayLoader loads the document of a calendar day.
type BirthdayLoader interface {
	LoadBirthday(ctx context.Context, month, day int) (BirthdayDocument, error)
}

// Loader decodes documents from a Source. It implements all three loader
// interfaces and holds no state besides the source, so it is safe for
// concurrent use when the source is.
type Loader struct {
	Source Source
}

// NewLoader creates a Loader over src.
func NewLoader(src Source) *Loader {
	return &Loader{Source: src}
}

// LoadYear implements YearLoader.
func (l *Loader) LoadYear(ctx context.Context, year int) (YearDocument, error) {
	return load[YearDocument](ctx, l.Source, KindYear, YearKey(year))
}

// LoadGeneration implements GenerationLoader.
func (l *Loader) LoadGeneration(ctx context.Context, id string) (GenerationDocument, error) {
	return load[GenerationDocument](ctx, l.Source, KindGeneration, id)
}

// LoadBirthday implements BirthdayLoader.
func (l *Loader) LoadBirthday(ctx context.Context, month, day int) (BirthdayDocument, error) {
	return load[BirthdayDocument](ctx, l.Source, KindBirthday, BirthdayKey(month, day))
}

func load[T any](ctx context.Context, src Source, kind Kind, key string) (T, error) {
	var doc T

	slog.Debug(config.MsgFetchStart,
		config.LogKeyComponent, config.CompContent,
		config.LogKeyKind, string(kind),
		config.LogKeyKey, key,
	)

	body, format, err := src.Fetch(ctx, kind, key)
	if err != nil {
		return doc, err
	}

	if err := Decode(body, format, &doc); err != nil {
		return doc, fmt.Errorf("%s %s/%s: %w", config.ErrContentDecode, kind, key, err)
	}
	return doc, nil
}

// Decode unmarshals body into v according to format.
func Decode(body []byte, format Format, v any) error {
	if format == FormatYAML {
		return yaml.Unmarshal(body, v)
	}
	return json.Unmarshal(body, v)
}

// FormatForExt maps a file extension to a Format.
func FormatForExt(ext string) (Format, bool) {
	switch ext {
	case config.ExtJSON:
		return FormatJSON, true
	case config.ExtYAML, config.ExtYML:
		return FormatYAML, true
	default:
		return 0, false
	}
}
