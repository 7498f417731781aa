package autoxliff

import (
	"context"
	"errors"

	"github.com/ZaguanLabs/autoxliff/catalog"
)

// CatalogLoader loads existing catalogs without creating them.
type CatalogLoader interface {
	Load(pkg, source, lang string) (*catalog.Catalog, error)
	Path(pkg, source, lang string) string
	Flush()
}

// CatalogLookup is a Lookup over XLIFF catalogs. It walks req.Packages (or
// req.Package) in order and returns the first matching unit, with plural
// forms selected by req.Quantity and placeholders resolved from
// req.Arguments.
type CatalogLookup struct {
	store CatalogLoader
}

// NewCatalogLookup creates a lookup reading from store.
func NewCatalogLookup(store CatalogLoader) *CatalogLookup {
	return &CatalogLookup{store: store}
}

// Lookup implements Lookup.
func (l *CatalogLookup) Lookup(ctx context.Context, req LookupRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	source := req.Source
	if source == "" {
		source = DefaultSource
	}
	packages := req.Packages
	if len(packages) == 0 && req.Package != "" {
		packages = []string{req.Package}
	}

	var missing *MissingCatalogError
	loaded := 0
	for _, pkg := range packages {
		cat, err := l.store.Load(pkg, source, req.Locale)
		if errors.Is(err, catalog.ErrNotExist) {
			if missing == nil {
				missing = &MissingCatalogError{
					Path:    l.store.Path(pkg, source, req.Locale),
					Package: pkg,
					Source:  source,
					Locale:  req.Locale,
				}
			}
			continue
		}
		if err != nil {
			return "", wrapIO(err)
		}
		loaded++

		unit, ok := find(cat, req)
		if !ok {
			continue
		}
		text := l.selectText(unit, req)
		return ResolvePlaceholders(text, req.Arguments), nil
	}

	if loaded == 0 && missing != nil {
		return "", missing
	}
	return "", &NotFoundError{
		ID:      req.ID,
		Label:   req.Label,
		Package: req.Package,
		Source:  source,
		Locale:  req.Locale,
	}
}

// Flush drops cached catalogs so appended units become visible.
func (l *CatalogLookup) Flush() {
	l.store.Flush()
}

func find(cat *catalog.Catalog, req LookupRequest) (catalog.Unit, bool) {
	if req.ID != "" {
		return cat.Unit(req.ID)
	}
	if req.Label != "" {
		return cat.FindBySource(req.Label)
	}
	return catalog.Unit{}, false
}

// selectText picks the text to return: the plural form for req.Quantity when
// the unit has forms, otherwise the target, falling back to the source when
// the target is empty.
func (l *CatalogLookup) selectText(u catalog.Unit, req LookupRequest) string {
	form := catalog.Form{Source: u.Source, Target: u.Target}
	if req.Quantity != nil && u.IsPlural() {
		idx := 0
		if tag, err := ParseLocale(req.Locale); err == nil {
			idx = PluralFormIndex(tag, *req.Quantity)
		}
		if idx >= len(u.Plurals) {
			idx = len(u.Plurals) - 1
		}
		form = u.Plurals[idx]
	}
	if form.Target == "" {
		return form.Source
	}
	return form.Target
}

var (
	_ Lookup  = (*CatalogLookup)(nil)
	_ Flusher = (*CatalogLookup)(nil)
)
