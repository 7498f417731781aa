package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// DefaultTranslationsDir is the directory below a package root that holds
// one subdirectory per language.
const DefaultTranslationsDir = "Resources/Private/Translations"

// Extension is the file extension of catalog files.
const Extension = ".xlf"

// Layout maps (package, source, language) to a catalog path:
//
//	<Root>/<package>/<Dir>/<language>/<source>.xlf
type Layout struct {
	Root string
	Dir  string
}

// Path returns the catalog path for the given triple.
func (l Layout) Path(pkg, source, lang string) string {
	return filepath.Join(l.LanguagesDir(pkg), lang, source+Extension)
}

// LanguagesDir returns the directory containing the language folders of pkg.
func (l Layout) LanguagesDir(pkg string) string {
	dir := l.Dir
	if dir == "" {
		dir = DefaultTranslationsDir
	}
	return filepath.Join(l.Root, pkg, filepath.FromSlash(dir))
}

// Store opens catalogs through a Layout and keeps every catalog it opened
// until Flush is called. It is safe for concurrent use.
type Store struct {
	layout Layout
	opts   []Option

	mu       sync.Mutex
	catalogs map[string]*Catalog
}

// NewStore creates a store rooted at layout.
func NewStore(layout Layout, opts ...Option) *Store {
	return &Store{
		layout:   layout,
		opts:     opts,
		catalogs: make(map[string]*Catalog),
	}
}

// Layout returns the store layout.
func (s *Store) Layout() Layout { return s.layout }

// Path returns the catalog path for (pkg, source, lang).
func (s *Store) Path(pkg, source, lang string) string {
	return s.layout.Path(pkg, source, lang)
}

// Open returns the catalog for (pkg, source, lang), writing an empty skeleton
// first when the file does not exist. created reports whether this call
// wrote the skeleton.
func (s *Store) Open(pkg, source, lang string) (*Catalog, bool, error) {
	path, err := s.resolve("open", pkg, source, lang)
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.catalogs[path]; ok {
		return c, false, nil
	}

	c, created, err := Open(path, lang, s.opts...)
	if err != nil {
		return nil, false, err
	}
	s.catalogs[path] = c
	return c, created, nil
}

// Load returns the catalog for (pkg, source, lang) without creating it. A
// missing file yields an error wrapping ErrNotExist.
func (s *Store) Load(pkg, source, lang string) (*Catalog, error) {
	path, err := s.resolve("read", pkg, source, lang)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.catalogs[path]; ok {
		return c, nil
	}

	c, err := Load(path, lang)
	if err != nil {
		return nil, err
	}
	s.catalogs[path] = c
	return c, nil
}

// resolve returns the catalog path after checking that none of the names can
// leave the package's translations directory.
func (s *Store) resolve(op, pkg, source, lang string) (string, error) {
	path := s.Path(pkg, source, lang)
	for _, err := range []error{validName(pkg), validSource(source), validName(lang)} {
		if err != nil {
			return "", &Error{Op: op, Path: path, Err: err}
		}
	}
	return path, nil
}

// Flush drops every memoized catalog so the next access re-reads the disk.
func (s *Store) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalogs = make(map[string]*Catalog)
}

// Languages lists the language folders of pkg in lexical order. A package
// without translations has no languages.
func (s *Store) Languages(pkg string) ([]string, error) {
	dir := s.layout.LanguagesDir(pkg)
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &Error{Op: "read", Path: dir, Err: err}
	}

	var langs []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			langs = append(langs, e.Name())
		}
	}
	return langs, nil
}

// Sources lists the catalog names of pkg. With no languages given, the names
// found in any language folder are returned.
func (s *Store) Sources(pkg string, langs ...string) ([]string, error) {
	if len(langs) == 0 {
		var err error
		if langs, err = s.Languages(pkg); err != nil {
			return nil, err
		}
	}

	seen := make(map[string]bool)
	for _, lang := range langs {
		dir := filepath.Join(s.layout.LanguagesDir(pkg), lang)
		entries, err := os.ReadDir(dir)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, &Error{Op: "read", Path: dir, Err: err}
		}
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || filepath.Ext(name) != Extension {
				continue
			}
			seen[strings.TrimSuffix(name, Extension)] = true
		}
	}

	sources := make([]string, 0, len(seen))
	for name := range seen {
		sources = append(sources, name)
	}
	sort.Strings(sources)
	return sources, nil
}

// CreateLanguage adds a language folder to pkg holding an empty catalog for
// every source the package already has. It fails if the language exists.
func (s *Store) CreateLanguage(pkg, lang string) error {
	dir := filepath.Join(s.layout.LanguagesDir(pkg), lang)
	for _, err := range []error{validName(pkg), validName(lang)} {
		if err != nil {
			return &Error{Op: "create", Path: dir, Err: err}
		}
	}
	if _, err := os.Stat(dir); err == nil {
		return &Error{Op: "create", Path: dir, Err: os.ErrExist}
	}

	sources, err := s.Sources(pkg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return &Error{Op: "create", Path: dir, Err: err}
	}
	for _, source := range sources {
		if _, _, err := s.Open(pkg, source, lang); err != nil {
			return err
		}
	}
	return nil
}

// CreateSource adds an empty catalog named source to every language of pkg.
// langs are created as well when the package has no language yet.
func (s *Store) CreateSource(pkg, source string, langs ...string) error {
	for _, err := range []error{validName(pkg), validSource(source)} {
		if err != nil {
			return &Error{Op: "create", Path: s.layout.LanguagesDir(pkg), Err: err}
		}
	}
	existing, err := s.Languages(pkg)
	if err != nil {
		return err
	}
	targets := append(existing, langs...)
	if len(targets) == 0 {
		return &Error{Op: "create", Path: s.layout.LanguagesDir(pkg), Err: errors.New("package has no languages")}
	}

	for _, lang := range targets {
		path := s.Path(pkg, source, lang)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if _, _, err := s.Open(pkg, source, lang); err != nil {
			return err
		}
	}
	return nil
}

// validName accepts a single path element: a package or a language.
func validName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// validSource accepts a source name, which may be nested in subdirectories
// ("NodeTypes/Content") but never absolute or climbing with "..".
func validSource(source string) error {
	for _, part := range strings.Split(source, "/") {
		if err := validName(part); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidName, source)
		}
	}
	return nil
}
