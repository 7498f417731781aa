package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/ZaguanLabs/autoxliff"
	"github.com/ZaguanLabs/autoxliff/catalog"
)

// listItem is the JSON form of a unit.
type listItem struct {
	ID      string     `json:"id"`
	Source  string     `json:"source"`
	Target  string     `json:"target"`
	Plurals []listForm `json:"plurals,omitempty"`
}

type listForm struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

func runList(ctx context.Context, a *app, args []string) error {
	fs := newCommandFlags("list", a)
	cf := addCatalogFlags(fs, true)
	jsonOut := fs.Bool("json", false, "Output units as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cf.check(); err != nil {
		return err
	}

	cat, err := a.store.Load(*cf.pkg, *cf.source, *cf.lang)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	units := cat.Units()

	if *jsonOut {
		items := make([]listItem, len(units))
		for i, u := range units {
			items[i] = listItem{ID: u.ID, Source: u.Source, Target: u.Target}
			for _, f := range u.Plurals {
				items[i].Plurals = append(items[i].Plurals, listForm(f))
			}
		}
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	fmt.Fprintf(a.stdout, "%s (%d units)\n", cat.Path(), len(units))
	for _, u := range units {
		marker := " "
		if u.Target == u.Source {
			marker = "*"
		}
		fmt.Fprintf(a.stdout, "%s %-32s %q -> %q\n", marker, truncate(u.ID, 32), truncate(u.Source, 40), truncate(u.Target, 40))
		for i, f := range u.Plurals {
			if i == 0 {
				continue
			}
			fmt.Fprintf(a.stdout, "  %-32s %q -> %q\n", fmt.Sprintf("[%d]", i), truncate(f.Source, 40), truncate(f.Target, 40))
		}
	}
	return nil
}

func runAdd(ctx context.Context, a *app, args []string) error {
	fs := newCommandFlags("add", a)
	cf := addCatalogFlags(fs, true)
	id := fs.String("id", "", "Unit id (default: derived from the text)")
	text := fs.String("text", "", "Source text")
	target := fs.String("target", "", "Target text (default: the source text)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cf.check(); err != nil {
		return err
	}
	if *text == "" {
		return errors.New("-text is required")
	}

	unitID := *id
	if unitID == "" {
		unitID = autoxliff.DeriveKey(*text)
	}

	cat, created, err := a.store.Open(*cf.pkg, *cf.source, *cf.lang)
	if err != nil {
		return fmt.Errorf("opening catalog: %w", err)
	}
	if created {
		a.logger.Info().Str("path", cat.Path()).Msg("Created catalog")
	}

	var targets []string
	if *target != "" {
		targets = append(targets, *target)
	}
	added, err := cat.Append(unitID, *text, targets...)
	if err != nil {
		return fmt.Errorf("appending unit: %w", err)
	}
	if !added {
		fmt.Fprintf(a.stdout, "%s already exists in %s\n", unitID, cat.Path())
		return nil
	}
	fmt.Fprintf(a.stdout, "added %s to %s\n", unitID, cat.Path())
	return nil
}

func runUpdate(ctx context.Context, a *app, args []string) error {
	fs := newCommandFlags("update", a)
	cf := addCatalogFlags(fs, true)
	id := fs.String("id", "", "Unit id")
	text := fs.String("text", "", "Source text")
	target := fs.String("target", "", "Target text")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cf.check(); err != nil {
		return err
	}
	if *id == "" || *target == "" {
		return errors.New("-id and -target are required")
	}

	cat, err := a.store.Load(*cf.pkg, *cf.source, *cf.lang)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	source := *text
	if source == "" {
		u, ok := cat.Unit(*id)
		if !ok {
			return fmt.Errorf("updating unit: %w", catalog.ErrUnitNotFound)
		}
		source = u.Source
	}
	if err := cat.Update(*id, source, *target); err != nil {
		return fmt.Errorf("updating unit: %w", err)
	}
	fmt.Fprintf(a.stdout, "updated %s in %s\n", *id, cat.Path())
	return nil
}

func runSync(ctx context.Context, a *app, args []string) error {
	fs := newCommandFlags("sync", a)
	cf := addCatalogFlags(fs, false)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cf.check(); err != nil {
		return err
	}

	result, err := autoxliff.Sync(ctx, a.store, *cf.pkg, *cf.source)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	fmt.Fprintf(a.stdout, "%s/%s: %d units across %d languages\n", *cf.pkg, *cf.source, result.Units, len(result.Languages))
	for _, lang := range result.Languages {
		fmt.Fprintf(a.stdout, "  %-8s +%d\n", lang, result.Added[lang])
	}
	return nil
}

func runLanguages(ctx context.Context, a *app, args []string) error {
	fs := newCommandFlags("languages", a)
	cf := addCatalogFlags(fs, false)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cf.check(); err != nil {
		return err
	}

	langs, err := a.store.Languages(*cf.pkg)
	if err != nil {
		return err
	}
	if len(langs) == 0 {
		fmt.Fprintf(a.stdout, "%s has no languages\n", *cf.pkg)
		return nil
	}
	for _, lang := range langs {
		fmt.Fprintf(a.stdout, "%-8s %-28s %s\n", lang, autoxliff.LanguageName(lang), autoxliff.Direction(lang))
	}
	return nil
}

func runCreateLanguage(ctx context.Context, a *app, args []string) error {
	fs := newCommandFlags("create-language", a)
	cf := addCatalogFlags(fs, true)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cf.check(); err != nil {
		return err
	}
	if _, err := autoxliff.ParseLocale(*cf.lang); err != nil {
		return err
	}

	if err := a.store.CreateLanguage(*cf.pkg, *cf.lang); err != nil {
		return fmt.Errorf("creating language: %w", err)
	}
	a.logger.Info().Str("package", *cf.pkg).Str("locale", *cf.lang).Msg("Created language")
	return nil
}

func runCreateSource(ctx context.Context, a *app, args []string) error {
	fs := newCommandFlags("create-source", a)
	cf := addCatalogFlags(fs, false)
	langs := fs.String("langs", "", "Comma-separated languages (default: all existing)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cf.check(); err != nil {
		return err
	}

	if err := a.store.CreateSource(*cf.pkg, *cf.source, splitList(*langs)...); err != nil {
		return fmt.Errorf("creating source: %w", err)
	}
	a.logger.Info().Str("package", *cf.pkg).Str("source", *cf.source).Msg("Created source")
	return nil
}

func runDiff(ctx context.Context, a *app, args []string) error {
	fs := newCommandFlags("diff", a)
	jsonOut := fs.Bool("json", false, "Output result as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errors.New("diff needs OLD and NEW catalog paths")
	}

	oldCat, err := catalog.Load(fs.Arg(0), "")
	if err != nil {
		return fmt.Errorf("reading previous version: %w", err)
	}
	newCat, err := catalog.Load(fs.Arg(1), "")
	if err != nil {
		return fmt.Errorf("reading new version: %w", err)
	}

	diff := autoxliff.DiffUnits(oldCat.Units(), newCat.Units())
	stats := diff.Stats()

	if *jsonOut {
		type modified struct {
			ID  string `json:"id"`
			Old string `json:"old"`
			New string `json:"new"`
		}
		type diffOutput struct {
			Previous    string     `json:"previous"`
			Current     string     `json:"current"`
			Stats       any        `json:"stats"`
			NeedsReview []string   `json:"needs_review"`
			Added       []string   `json:"added,omitempty"`
			Removed     []string   `json:"removed,omitempty"`
			Modified    []modified `json:"modified,omitempty"`
		}

		out := diffOutput{
			Previous: filepath.Base(fs.Arg(0)),
			Current:  filepath.Base(fs.Arg(1)),
			Stats: map[string]int{
				"added":     stats.Added,
				"removed":   stats.Removed,
				"modified":  stats.Modified,
				"unchanged": stats.Unchanged,
			},
			NeedsReview: []string{},
		}
		for _, u := range diff.NeedsReview() {
			out.NeedsReview = append(out.NeedsReview, u.ID)
		}
		for _, u := range diff.Added {
			out.Added = append(out.Added, u.ID)
		}
		for _, u := range diff.Removed {
			out.Removed = append(out.Removed, u.ID)
		}
		for _, m := range diff.Modified {
			out.Modified = append(out.Modified, modified{ID: m.New.ID, Old: m.Old.Target, New: m.New.Target})
		}

		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintf(a.stdout, "Diff: %s vs %s\n\n", filepath.Base(fs.Arg(1)), filepath.Base(fs.Arg(0)))
	fmt.Fprintf(a.stdout, "Summary:\n")
	fmt.Fprintf(a.stdout, "  Unchanged: %d\n", stats.Unchanged)
	fmt.Fprintf(a.stdout, "  Added:     %d\n", stats.Added)
	fmt.Fprintf(a.stdout, "  Removed:   %d\n", stats.Removed)
	fmt.Fprintf(a.stdout, "  Modified:  %d\n\n", stats.Modified)

	if !diff.HasChanges() {
		fmt.Fprintf(a.stdout, "No changes detected.\n")
		return nil
	}

	for _, u := range diff.Added {
		fmt.Fprintf(a.stdout, "  + %s %q\n", u.ID, truncate(u.Source, 50))
	}
	for _, m := range diff.Modified {
		fmt.Fprintf(a.stdout, "  ~ %s %q -> %q\n", m.New.ID, truncate(m.Old.Target, 30), truncate(m.New.Target, 30))
	}
	for _, u := range diff.Removed {
		fmt.Fprintf(a.stdout, "  - %s %q\n", u.ID, truncate(u.Source, 50))
	}
	return nil
}

func runSuggest(ctx context.Context, a *app, args []string) error {
	fs := newCommandFlags("suggest", a)
	cf := addCatalogFlags(fs, true)
	dryRun := fs.Bool("dry-run", false, "Print suggestions without writing them")
	batch := fs.Int("batch", 0, "Texts per provider request (default 50)")
	appContext := fs.String("context", "", "Description of the application (e.g. 'online shop')")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cf.check(); err != nil {
		return err
	}
	if a.cfg.OpenAI.APIKey == "" {
		return errors.New("OpenAI API key required (OPENAI_API_KEY env)")
	}

	cat, err := a.store.Load(*cf.pkg, *cf.source, *cf.lang)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	result, err := autoxliff.Suggest(ctx, cat, newSuggester(a.cfg.OpenAI, a.logger), a.cfg.SourceLanguage,
		autoxliff.WithDryRun(*dryRun),
		autoxliff.WithBatchSize(*batch),
		autoxliff.WithSuggestContext(*appContext),
	)
	if err != nil {
		return fmt.Errorf("suggest failed: %w", err)
	}

	ids := make([]string, 0, len(result.Suggestions))
	for id := range result.Suggestions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(a.stdout, "%-32s %q\n", truncate(id, 32), result.Suggestions[id])
	}

	a.logger.Info().
		Int("pending", result.Pending).
		Int("updated", result.Updated).
		Bool("dry_run", *dryRun).
		Str("path", cat.Path()).
		Msg("Suggestions done")
	return nil
}
