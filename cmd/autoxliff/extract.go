package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ZaguanLabs/autoxliff"
	"github.com/ZaguanLabs/autoxliff/cache"
	"github.com/ZaguanLabs/autoxliff/processor"
)

// runExtract feeds every label found in the given templates through an
// interceptor, so missing labels are appended before any page is served.
func runExtract(ctx context.Context, a *app, args []string) error {
	fs := newCommandFlags("extract", a)
	cf := addCatalogFlags(fs, true)
	report := fs.String("report", "", "Write the handled dedup keys to this JSON file")
	resume := fs.String("resume", "", "Skip the keys listed in a previous report")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cf.check(); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("at least one template file is required")
	}

	seen, closeSeen, err := a.seenSet()
	if err != nil {
		return err
	}
	defer closeSeen()

	if *resume != "" {
		res, err := cache.NewImporter(seen).ImportFromFile(*resume)
		if err != nil {
			return fmt.Errorf("reading resume report: %w", err)
		}
		a.logger.Info().Int("keys", res.Imported).Str("path", *resume).Msg("Resumed from report")
	}

	opts, err := a.cfg.InterceptorOptions()
	if err != nil {
		return err
	}
	if len(a.cfg.AutoCreationWhitelist) == 0 {
		opts = append(opts, autoxliff.WithWhitelist(*cf.pkg))
	}
	metrics := autoxliff.NewMetrics(nil)
	opts = append(opts,
		autoxliff.WithSeenSet(seen),
		autoxliff.WithLogger(a.logger),
		autoxliff.WithMetrics(metrics),
	)
	interceptor := autoxliff.NewInterceptor(autoxliff.NewCatalogLookup(a.store), a.store, opts...)

	start := time.Now()
	labels := 0
	for _, path := range fs.Args() {
		extractor := processor.ForFile(path)
		if extractor == nil {
			a.logger.Warn().Str("path", path).Msg("Skipping file with unknown type")
			continue
		}

		data, err := os.ReadFile(path) // #nosec G304 - CLI tool reads user-specified files
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		found, err := extractor.Extract(string(data))
		if err != nil {
			return fmt.Errorf("extracting %s: %w", path, err)
		}

		for _, l := range found {
			_, err := interceptor.Translate(ctx, autoxliff.LookupRequest{
				ID:      l.ID,
				Label:   l.Text,
				Locale:  *cf.lang,
				Package: *cf.pkg,
				Source:  *cf.source,
			})
			if err != nil && !autoxliff.IsMiss(err) {
				return fmt.Errorf("%s: %q: %w", path, l.Text, err)
			}
			labels++
		}
	}

	a.logger.Info().
		Int("labels", labels).
		Dur("elapsed", time.Since(start).Round(time.Millisecond)).
		Msg("Extraction done")

	if err := metrics.WriteSummary(a.stderr); err != nil {
		return err
	}

	if *report != "" {
		meta := map[string]string{
			"package": *cf.pkg,
			"source":  *cf.source,
			"locale":  *cf.lang,
		}
		if err := cache.NewExporter(seen).ExportToFile(*report, meta); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}
	return nil
}

// seenSet returns the Redis memo when one is configured, otherwise an
// in-memory set.
func (a *app) seenSet() (cache.SeenSet, func(), error) {
	if a.cfg.Redis.URL == "" {
		return cache.NewInMemorySet(), func() {}, nil
	}

	set, err := cache.NewRedisSet(cache.RedisConfig{
		URL:       a.cfg.Redis.URL,
		TTL:       a.cfg.Redis.TTL,
		KeyPrefix: a.cfg.Redis.KeyPrefix,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return set, func() { _ = set.Close() }, nil
}
