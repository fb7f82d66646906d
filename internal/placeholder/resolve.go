package placeholder

import (
	"log/slog"
	"regexp"

	"github.com/tartampluch/go-lifestory/internal/config"
	"github.com/tartampluch/go-lifestory/internal/content"
)

// tokenPattern is the whole grammar: word characters between double braces,
// no whitespace, no escaping, no nesting.
var tokenPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Resolver substitutes tokens from Map. Tokens missing from Map stay in the
// text verbatim and are reported to Unknown, or logged when Unknown is nil.
type Resolver struct {
	Map     Map
	Unknown func(token string)
}

// Text resolves every token occurrence in s.
func (r Resolver) Text(s string) string {
	return tokenPattern.ReplaceAllStringFunc(s, func(match string) string {
		token := match[2 : len(match)-2]
		if v, ok := r.Map.Lookup(token); ok {
			return v
		}
		r.report(token)
		return match
	})
}

// Object returns a resolved deep copy of m.
func (r Resolver) Object(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = r.Document(v)
	}
	return out
}

// Section returns a resolved deep copy of s.
func (r Resolver) Section(s content.Section) content.Section {
	return content.Section(r.Object(s))
}

// Sections resolves every section into a new map.
func (r Resolver) Sections(in map[string]content.Section) map[string]content.Section {
	if in == nil {
		return nil
	}
	out := make(map[string]content.Section, len(in))
	for k, s := range in {
		out[k] = r.Section(s)
	}
	return out
}

// Document returns a resolved deep copy of a decoded JSON/YAML value.
// Strings at any depth are resolved; other scalars are returned as is.
func (r Resolver) Document(v any) any {
	switch t := v.(type) {
	case string:
		return r.Text(t)
	case map[string]any:
		return r.Object(t)
	case content.Section:
		return r.Section(t)
	case map[string]content.Section:
		return r.Sections(t)
	case map[string]string:
		out := make(map[string]string, len(t))
		for k, s := range t {
			out[k] = r.Text(s)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = r.Document(e)
		}
		return out
	case []string:
		return r.Strings(t)
	default:
		return v
	}
}

// Strings resolves each element into a new slice.
func (r Resolver) Strings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = r.Text(s)
	}
	return out
}

func (r Resolver) report(token string) {
	if r.Unknown != nil {
		r.Unknown(token)
		return
	}
	slog.Warn(config.MsgUnknownToken,
		config.LogKeyComponent, config.CompAssembler,
		config.LogKeyToken, token,
	)
}

// ResolveTokens resolves text against m, logging unknown tokens.
func ResolveTokens(text string, m Map) string {
	return Resolver{Map: m}.Text(text)
}

// ResolveDocument resolves a decoded document against m without mutating it.
func ResolveDocument(v any, m Map) any {
	return Resolver{Map: m}.Document(v)
}
