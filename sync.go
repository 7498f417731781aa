package autoxliff

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ZaguanLabs/autoxliff/catalog"
)

// SyncResult reports what Sync changed.
type SyncResult struct {
	Languages []string
	Units     int            // Distinct unit ids across all languages
	Added     map[string]int // Units appended, by language
}

// Sync makes every language of pkg/source contain the same unit ids. Units
// are merged across languages; when an id exists in several catalogs the one
// from the most recently modified file wins. Units missing from a language
// are appended with the winning source text as placeholder target.
func Sync(ctx context.Context, store *catalog.Store, pkg, source string) (*SyncResult, error) {
	langs, err := store.Languages(pkg)
	if err != nil {
		return nil, wrapIO(err)
	}

	catalogs := make([]*catalog.Catalog, len(langs))
	g, gctx := errgroup.WithContext(ctx)
	for i, lang := range langs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cat, _, err := catalog.Open(store.Path(pkg, source, lang), lang)
			if err != nil {
				return wrapIO(err)
			}
			catalogs[i] = cat
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// The store may hold handles that are now stale.
	defer store.Flush()

	merged := mergeUnits(catalogs)

	result := &SyncResult{
		Languages: langs,
		Units:     len(merged),
		Added:     make(map[string]int, len(langs)),
	}
	for i, cat := range catalogs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		var missing []catalog.Unit
		for _, u := range merged {
			if !cat.Has(u.ID) {
				missing = append(missing, placeholderUnit(u))
			}
		}
		n, err := cat.AppendUnits(missing)
		if err != nil {
			return result, wrapIO(err)
		}
		result.Added[langs[i]] = n
	}

	return result, nil
}

// mergeUnits collects every unit id in order of first appearance. An id seen
// again in a catalog that is not older replaces the earlier unit.
func mergeUnits(catalogs []*catalog.Catalog) []catalog.Unit {
	type entry struct {
		unit catalog.Unit
		cat  *catalog.Catalog
	}

	var order []string
	byID := make(map[string]entry)
	for _, cat := range catalogs {
		for _, u := range cat.Units() {
			prev, ok := byID[u.ID]
			if !ok {
				order = append(order, u.ID)
			} else if prev.cat.ModTime().After(cat.ModTime()) {
				continue
			}
			byID[u.ID] = entry{unit: u, cat: cat}
		}
	}

	units := make([]catalog.Unit, len(order))
	for i, id := range order {
		units[i] = byID[id].unit
	}
	return units
}

// placeholderUnit copies u with every target replaced by its source.
func placeholderUnit(u catalog.Unit) catalog.Unit {
	out := catalog.Unit{ID: u.ID, Source: u.Source, Target: u.Source}
	for _, f := range u.Plurals {
		out.Plurals = append(out.Plurals, catalog.Form{Source: f.Source, Target: f.Source})
	}
	return out
}
