package autoxliff

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"github.com/ZaguanLabs/autoxliff/cache"
	"github.com/ZaguanLabs/autoxliff/catalog"
)

// debugOpen and debugClose surround every returned text in debug mode.
const (
	debugOpen  = "❪"
	debugClose = "❫"
)

// CatalogOpener opens catalogs for writing, creating missing files.
type CatalogOpener interface {
	Open(pkg, source, lang string) (cat *catalog.Catalog, created bool, err error)
}

// Interceptor wraps a Lookup. Labels the lookup cannot find are appended to
// the catalog of the first whitelisted package, with the untranslated text
// as placeholder target, and the untranslated text is returned.
type Interceptor struct {
	lookup        Lookup
	store         CatalogOpener
	whitelist     []string
	fallbacks     map[string][]string
	autoCreate    bool
	debugWrap     bool
	seen          cache.SeenSet
	defaultLocale language.Tag
	resolveLocale LocaleResolver
	logger        zerolog.Logger
	metrics       *Metrics
}

// InterceptorOption is a functional option for configuring the Interceptor.
type InterceptorOption func(*Interceptor)

// WithWhitelist sets the ordered list of packages eligible for auto-creation.
func WithWhitelist(packages ...string) InterceptorOption {
	return func(i *Interceptor) {
		i.whitelist = append([]string(nil), packages...)
	}
}

// WithFallbacks sets the packages searched instead of a requesting package.
func WithFallbacks(fallbacks map[string][]string) InterceptorOption {
	return func(i *Interceptor) {
		i.fallbacks = make(map[string][]string, len(fallbacks))
		for pkg, chain := range fallbacks {
			i.fallbacks[pkg] = append([]string(nil), chain...)
		}
	}
}

// WithAutoCreate turns auto-creation on or off (default on). When off every
// request is passed to the lookup unchanged.
func WithAutoCreate(enabled bool) InterceptorOption {
	return func(i *Interceptor) {
		i.autoCreate = enabled
	}
}

// WithDebugWrap surrounds returned texts with ❪ and ❫.
func WithDebugWrap(enabled bool) InterceptorOption {
	return func(i *Interceptor) {
		i.debugWrap = enabled
	}
}

// WithSeenSet replaces the in-memory dedup set.
func WithSeenSet(seen cache.SeenSet) InterceptorOption {
	return func(i *Interceptor) {
		i.seen = seen
	}
}

// WithDefaultLocale sets the locale used when neither the request nor the
// resolver provides one (default English).
func WithDefaultLocale(tag language.Tag) InterceptorOption {
	return func(i *Interceptor) {
		i.defaultLocale = tag
	}
}

// WithLocaleResolver sets the function that supplies the current locale for
// requests without an explicit one.
func WithLocaleResolver(resolve LocaleResolver) InterceptorOption {
	return func(i *Interceptor) {
		i.resolveLocale = resolve
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) InterceptorOption {
	return func(i *Interceptor) {
		i.logger = logger
	}
}

// WithMetrics records lookup outcomes and writes.
func WithMetrics(m *Metrics) InterceptorOption {
	return func(i *Interceptor) {
		i.metrics = m
	}
}

// NewInterceptor creates an Interceptor around lookup that writes new units
// through store.
func NewInterceptor(lookup Lookup, store CatalogOpener, opts ...InterceptorOption) *Interceptor {
	i := &Interceptor{
		lookup:        lookup,
		store:         store,
		autoCreate:    true,
		defaultLocale: language.English,
		logger:        zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(i)
	}

	if i.seen == nil {
		i.seen = cache.NewInMemorySet()
	}

	return i
}

// Translate resolves req through the wrapped lookup. On a miss for a
// whitelisted package it appends the label to the catalog (once per run) and
// returns the untranslated text. Lookup errors other than a miss, and
// catalog I/O errors, are returned as they are.
func (i *Interceptor) Translate(ctx context.Context, req LookupRequest) (string, error) {
	if req.Source == "" {
		req.Source = DefaultSource
	}

	tag, err := i.locale(ctx, req.Locale)
	if err != nil {
		return "", err
	}
	req.Locale = LocaleDir(tag)

	candidates := i.candidates(req.Package)
	if len(req.Packages) == 0 {
		req.Packages = candidates
	}

	var eligible []string
	if i.autoCreate {
		eligible = SelectEligible(candidates, i.whitelist)
	}
	if len(eligible) == 0 {
		i.logger.Debug().
			Str("package", req.Package).
			Strs("candidates", candidates).
			Strs("whitelist", i.whitelist).
			Msg("Skipping auto-creation")
		i.metrics.lookup(ResultSkip)
		return i.lookup.Lookup(ctx, req)
	}

	text, err := i.lookup.Lookup(ctx, req)
	if err == nil {
		i.metrics.lookup(ResultHit)
		return i.wrap(text), nil
	}
	if !IsMiss(err) {
		return "", err
	}
	i.metrics.lookup(ResultMiss)

	id := req.ID
	if id == "" {
		if req.Label == "" {
			return req.Label, nil
		}
		id = DeriveKey(req.Label)
	}
	fallback := req.Label
	if fallback == "" {
		fallback = id
	}

	pkg := eligible[0]
	key := DedupKey(pkg, req.Source, req.Locale, id)
	if i.seen.Seen(key) {
		return i.wrap(fallback), nil
	}

	if err := i.appendUnit(ctx, pkg, req.Source, req.Locale, id, fallback); err != nil {
		return "", err
	}

	if err := i.seen.Mark(key); err != nil {
		i.logger.Debug().Err(err).Str("key", key).Msg("Could not mark unit as handled")
	}

	return i.wrap(fallback), nil
}

// appendUnit appends id to the catalog unless it is already there.
func (i *Interceptor) appendUnit(ctx context.Context, pkg, source, locale, id, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cat, created, err := i.store.Open(pkg, source, locale)
	if err != nil {
		return wrapIO(err)
	}
	if created {
		i.logger.Info().
			Str("path", cat.Path()).
			Str("package", pkg).
			Str("source", source).
			Str("locale", locale).
			Msg("Created catalog")
		i.metrics.catalogCreated(pkg, locale)
	}

	if cat.Has(id) {
		return nil
	}

	added, err := cat.Append(id, text)
	if err != nil {
		return wrapIO(err)
	}
	if !added {
		return nil
	}

	i.logger.Info().
		Str("id", id).
		Str("package", pkg).
		Str("source", source).
		Str("locale", locale).
		Msg("Added new translation")
	i.metrics.unitCreated(pkg, locale)

	if f, ok := i.lookup.(Flusher); ok {
		f.Flush()
	}
	return nil
}

func (i *Interceptor) locale(ctx context.Context, explicit string) (language.Tag, error) {
	if explicit != "" {
		return ParseLocale(explicit)
	}
	if i.resolveLocale != nil {
		if tag := i.resolveLocale(ctx); tag != language.Und {
			return tag, nil
		}
	}
	return i.defaultLocale, nil
}

func (i *Interceptor) candidates(pkg string) []string {
	if chain, ok := i.fallbacks[pkg]; ok && len(chain) > 0 {
		return append([]string(nil), chain...)
	}
	if pkg == "" {
		return nil
	}
	return []string{pkg}
}

func (i *Interceptor) wrap(text string) string {
	if !i.debugWrap {
		return text
	}
	return debugOpen + text + debugClose
}

// Whitelist returns the configured whitelist.
func (i *Interceptor) Whitelist() []string {
	return append([]string(nil), i.whitelist...)
}

// Seen returns the dedup set.
func (i *Interceptor) Seen() cache.SeenSet {
	return i.seen
}
