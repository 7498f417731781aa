package autoxliff

import (
	"context"
	"strings"

	"golang.org/x/text/language"
)

// DefaultSource is the catalog name used when a request names none.
const DefaultSource = "Main"

// LookupRequest describes one translation lookup. At least one of ID and
// Label must be set.
type LookupRequest struct {
	ID        string // Explicit unit id
	Label     string // Original (untranslated) text
	Arguments []any  // Placeholder values, resolved only on a hit
	Quantity  *int   // Selects the plural form when set
	Locale    string // Explicit locale; empty means "resolve from context"
	Package   string // Package the request originates from
	Source    string // Catalog name (default "Main")
	Packages  []string
}

// Lookup is the host's translation routine. It returns a *NotFoundError or a
// *MissingCatalogError when the requested unit is not translated yet.
type Lookup interface {
	Lookup(ctx context.Context, req LookupRequest) (string, error)
}

// LookupFunc adapts a plain function to the Lookup interface.
type LookupFunc func(ctx context.Context, req LookupRequest) (string, error)

// Lookup calls f.
func (f LookupFunc) Lookup(ctx context.Context, req LookupRequest) (string, error) {
	return f(ctx, req)
}

// Flusher is implemented by lookups that cache catalog contents and must
// re-read them after a unit was appended.
type Flusher interface {
	Flush()
}

// LocaleResolver returns the locale of the current request.
type LocaleResolver func(ctx context.Context) language.Tag

// Label is a translatable text found in a template.
type Label struct {
	ID      string // Explicit id, empty when the text itself is the key
	Text    string // Trimmed label text
	Context string // Surrounding element, for disambiguation
}

// LabelExtractor finds labels in template content.
type LabelExtractor interface {
	Extract(content string) ([]Label, error)
	ContentType() string
}

// SuggestRequest asks a Suggester to translate a batch of source texts.
type SuggestRequest struct {
	Texts      []string
	IDs        []string // Unit ids, parallel to Texts
	SourceLang string
	TargetLang string
	Context    string
}

// Suggester proposes target texts for untranslated units.
type Suggester interface {
	Suggest(ctx context.Context, req SuggestRequest) ([]string, error)
}

// ParseLocale parses a locale identifier such as "de", "de_CH" or "pt-BR".
func ParseLocale(s string) (language.Tag, error) {
	tag, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(s), "_", "-"))
	if err != nil {
		return language.Und, &InvalidLocaleError{Locale: s, Cause: err}
	}
	return tag, nil
}

// LocaleDir returns the catalog folder name of tag ("de", "de_CH").
func LocaleDir(tag language.Tag) string {
	return strings.ReplaceAll(tag.String(), "-", "_")
}
