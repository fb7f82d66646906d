// Package locale translates age phrases and month names through go-i18n message catalogs
// embedded in the binary.
package locale

import (
	"embed"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-lifestory/internal/config"
	"github.com/tartampluch/go-lifestory/internal/placeholder"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

const (
	localeDir    = "locales"
	localePrefix = "active."
	localeSuffix = ".json"
	ageDataKey   = "Age"
)

// Catalog is a loaded translation bundle bound to one language.
// It implements placeholder.Localizer.
type Catalog struct {
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
	tag       language.Tag
	languages []string
}

// NewCatalog loads every embedded locale file and selects lang.
// Unknown languages fall back to English.
func NewCatalog(lang string) *Catalog {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	c := &Catalog{bundle: bundle}

	entries, err := localeFS.ReadDir(localeDir)
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, localePrefix) || !strings.HasSuffix(name, localeSuffix) {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, localePrefix), localeSuffix)
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, localeDir+"/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}

		c.languages = append(c.languages, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
			config.LogKeyFile, name,
		)
	}

	c.Use(lang)
	return c
}

// Use switches the active language.
func (c *Catalog) Use(lang string) {
	if lang == "" {
		lang = config.DefaultLanguage
	}

	tag, err := language.Parse(lang)
	if err != nil || !c.supports(tag) {
		tag = language.English
	}

	c.tag = tag
	c.localizer = i18n.NewLocalizer(c.bundle, tag.String())
}

// Tag is the active language; it drives number formatting.
func (c *Catalog) Tag() language.Tag {
	return c.tag
}

// Languages lists the codes of the loaded locale files.
func (c *Catalog) Languages() []string {
	out := make([]string, len(c.languages))
	copy(out, c.languages)
	return out
}

// Localize renders p in the active language. It returns "" when the
// message cannot be rendered, which callers treat as "use English".
func (c *Catalog) Localize(p placeholder.Phrase) string {
	data := map[string]any{ageDataKey: p.Age}
	for k, v := range p.Args {
		data[k] = v
	}

	msg, err := c.localizer.Localize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{ID: p.ID, Other: p.Template()},
		TemplateData:   data,
	})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, p.ID,
			config.LogKeyError, err,
		)
		return ""
	}
	return msg
}

// Builder returns a placeholder builder rendering in the active language.
func (c *Catalog) Builder() placeholder.Builder {
	return placeholder.Builder{Localizer: c, Language: c.tag}
}

func (c *Catalog) supports(tag language.Tag) bool {
	base, _ := tag.Base()
	for _, code := range c.languages {
		if code == base.String() {
			return true
		}
	}
	return false
}
