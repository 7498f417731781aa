// Package catalog reads and writes XLIFF 1.2 translation catalogs.
//
// A Catalog is loaded completely when it is opened. Every mutation updates
// the in-memory document and rewrites the whole file through a temporary
// file and a rename, so a concurrent reader never sees a partial document.
// Catalogs are not locked across processes: when two processes append to the
// same file, the last writer wins.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/beevik/etree"
	"github.com/natefinch/atomic"
)

// Namespace is the XLIFF 1.2 document namespace.
const Namespace = "urn:oasis:names:tc:xliff:document:1.2"

// PluralRestype marks a <group> that holds the plural forms of one unit.
const PluralRestype = "x-gettext-plurals"

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Sentinel errors. Errors returned by this package wrap one of these where
// they apply, so callers can test with errors.Is.
var (
	ErrNotExist     = errors.New("catalog does not exist")
	ErrUnitNotFound = errors.New("translation unit not found")
	ErrMalformed    = errors.New("malformed catalog")
	ErrInvalidName  = errors.New("invalid catalog name")
)

// Error records a failed catalog operation.
type Error struct {
	Op   string // "open", "read", "create", "write", "update"
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("catalog %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Form is one plural variant of a unit.
type Form struct {
	Source string
	Target string
}

// Unit is one translation unit. Source and Target hold the singular text;
// for plural units Plurals holds every form ordered by plural-form index and
// Plurals[0] mirrors Source/Target.
type Unit struct {
	ID      string
	Source  string
	Target  string
	Plurals []Form
}

// IsPlural reports whether the unit carries plural variants.
func (u Unit) IsPlural() bool {
	return len(u.Plurals) > 0
}

// Option configures how a catalog file is created.
type Option func(*options)

type options struct {
	sourceLanguage string
}

// WithSourceLanguage sets the source-language attribute written into newly
// created catalogs (default "en").
func WithSourceLanguage(lang string) Option {
	return func(o *options) {
		if lang != "" {
			o.sourceLanguage = lang
		}
	}
}

// Catalog is an XLIFF file held in memory.
type Catalog struct {
	path    string
	locale  string
	modTime time.Time

	mu       sync.Mutex
	doc      *etree.Document
	body     *etree.Element
	units    []Unit
	index    map[string]int
	elements []*etree.Element // element backing units[i]
	revision int
}

// Open loads the catalog at path. A missing file is replaced by an empty
// skeleton, creating parent directories as needed. created reports whether
// the skeleton was written by this call.
func Open(path, locale string, opts ...Option) (c *Catalog, created bool, err error) {
	o := options{sourceLanguage: "en"}
	for _, opt := range opts {
		opt(&o)
	}

	c, err = Load(path, locale)
	if err == nil {
		return c, false, nil
	}
	if !errors.Is(err, ErrNotExist) {
		return nil, false, err
	}

	c = &Catalog{
		path:   path,
		locale: locale,
		doc:    skeleton(o.sourceLanguage, locale),
		index:  make(map[string]int),
	}
	c.body = c.doc.FindElement("./xliff/file/body")

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return nil, false, &Error{Op: "create", Path: path, Err: err}
	}
	if err := c.save(); err != nil {
		return nil, false, err
	}
	// atomic.WriteFile creates the temp file with 0600.
	if err := os.Chmod(path, filePerm); err != nil {
		return nil, false, &Error{Op: "create", Path: path, Err: err}
	}
	c.revision = 0

	return c, true, nil
}

// Load reads an existing catalog. It never creates files; a missing file is
// reported with an error wrapping ErrNotExist.
func Load(path, locale string) (*Catalog, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &Error{Op: "open", Path: path, Err: ErrNotExist}
	}
	if err != nil {
		return nil, &Error{Op: "open", Path: path, Err: err}
	}

	data, err := os.ReadFile(path) // #nosec G304 - catalog paths come from the store layout
	if err != nil {
		return nil, &Error{Op: "read", Path: path, Err: err}
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, &Error{Op: "read", Path: path, Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
	}

	body := doc.FindElement("./xliff/file/body")
	if body == nil {
		return nil, &Error{Op: "read", Path: path, Err: fmt.Errorf("%w: missing xliff/file/body", ErrMalformed)}
	}

	c := &Catalog{
		path:    path,
		locale:  locale,
		modTime: info.ModTime(),
		doc:     doc,
		body:    body,
		index:   make(map[string]int),
	}
	for _, el := range body.ChildElements() {
		u, ok := parseUnit(el)
		if !ok {
			continue
		}
		if _, dup := c.index[u.ID]; dup {
			continue
		}
		c.index[u.ID] = len(c.units)
		c.units = append(c.units, u)
		c.elements = append(c.elements, el)
	}

	return c, nil
}

// Path returns the file the catalog is stored in.
func (c *Catalog) Path() string { return c.path }

// Locale returns the locale the catalog was opened for.
func (c *Catalog) Locale() string { return c.locale }

// ModTime returns the file modification time observed when the catalog was
// loaded, or of its last write.
func (c *Catalog) ModTime() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modTime
}

// Revision returns the number of writes made through this handle.
func (c *Catalog) Revision() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.revision
}

// Has reports whether a unit with id exists.
func (c *Catalog) Has(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.index[id]
	return ok
}

// Unit returns the unit with id.
func (c *Catalog) Unit(id string) (Unit, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.index[id]
	if !ok {
		return Unit{}, false
	}
	return cloneUnit(c.units[i]), true
}

// FindBySource returns the first unit whose source text equals source.
func (c *Catalog) FindBySource(source string) (Unit, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, u := range c.units {
		if u.Source == source {
			return cloneUnit(u), true
		}
	}
	return Unit{}, false
}

// Units returns the units in document order.
func (c *Catalog) Units() []Unit {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Unit, len(c.units))
	for i, u := range c.units {
		out[i] = cloneUnit(u)
	}
	return out
}

// Len returns the number of units.
func (c *Catalog) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.units)
}

// Append adds a unit at the end of the body and rewrites the file. target
// defaults to source. Appending an id that already exists is a no-op and
// does not touch the file; added reports whether a unit was written.
func (c *Catalog) Append(id, source string, target ...string) (added bool, err error) {
	u := Unit{ID: id, Source: source, Target: source}
	if len(target) > 0 {
		u.Target = target[0]
	}
	n, err := c.AppendUnits([]Unit{u})
	return n > 0, err
}

// AppendUnits appends every unit whose id is not present yet and writes the
// file once. It returns the number of units added.
func (c *Catalog) AppendUnits(units []Unit) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	added := 0
	for _, u := range units {
		if _, ok := c.index[u.ID]; ok {
			continue
		}
		el := appendElement(c.body, u)
		c.index[u.ID] = len(c.units)
		c.units = append(c.units, cloneUnit(u))
		c.elements = append(c.elements, el)
		added++
	}
	if added == 0 {
		return 0, nil
	}

	return added, c.save()
}

// Update replaces the source and target text of the unit with id. For plural
// units the first form is updated. It returns an error wrapping
// ErrUnitNotFound when id is absent.
func (c *Catalog) Update(id, source, target string) error {
	_, err := c.UpdateUnits([]Unit{{ID: id, Source: source, Target: target}})
	return err
}

// UpdateUnits applies Update to every unit and writes the file once. If any
// id is absent nothing is changed.
func (c *Catalog) UpdateUnits(units []Unit) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, u := range units {
		if _, ok := c.index[u.ID]; !ok {
			return 0, &Error{Op: "update", Path: c.path, Err: fmt.Errorf("%w: %q", ErrUnitNotFound, u.ID)}
		}
	}
	if len(units) == 0 {
		return 0, nil
	}

	for _, u := range units {
		i := c.index[u.ID]
		el := c.elements[i]
		if el.Tag == "group" {
			el = el.SelectElement("trans-unit")
		}
		setChildText(el, "source", u.Source)
		setChildText(el, "target", u.Target)

		cur := &c.units[i]
		cur.Source = u.Source
		cur.Target = u.Target
		if len(cur.Plurals) > 0 {
			cur.Plurals[0] = Form{Source: u.Source, Target: u.Target}
		}
	}

	return len(units), c.save()
}

// Bytes returns the serialized document as it would be written.
func (c *Catalog) Bytes() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.serialize()
}

// indentSettings keeps whitespace-only unit text intact when a reloaded
// document is re-indented.
var indentSettings = &etree.IndentSettings{Spaces: 2, PreserveLeafWhitespace: true}

func (c *Catalog) serialize() ([]byte, error) {
	c.doc.IndentWithSettings(indentSettings)
	data, err := c.doc.WriteToBytes()
	if err != nil {
		return nil, &Error{Op: "write", Path: c.path, Err: err}
	}
	return data, nil
}

// save must be called with c.mu held.
func (c *Catalog) save() error {
	data, err := c.serialize()
	if err != nil {
		return err
	}
	if err := atomic.WriteFile(c.path, bytes.NewReader(data)); err != nil {
		return &Error{Op: "write", Path: c.path, Err: err}
	}
	if info, err := os.Stat(c.path); err == nil {
		c.modTime = info.ModTime()
	}
	c.revision++
	return nil
}

func skeleton(sourceLang, targetLang string) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("xliff")
	root.CreateAttr("version", "1.2")
	root.CreateAttr("xmlns", Namespace)

	file := root.CreateElement("file")
	file.CreateAttr("original", "")
	file.CreateAttr("source-language", sourceLang)
	file.CreateAttr("target-language", targetLang)
	file.CreateAttr("datatype", "plaintext")
	file.CreateElement("body")

	return doc
}

func parseUnit(el *etree.Element) (Unit, bool) {
	switch el.Tag {
	case "trans-unit":
		id := el.SelectAttrValue("id", "")
		if id == "" {
			return Unit{}, false
		}
		return Unit{
			ID:     id,
			Source: childText(el, "source"),
			Target: childText(el, "target"),
		}, true

	case "group":
		if el.SelectAttrValue("restype", "") != PluralRestype {
			return Unit{}, false
		}
		id := el.SelectAttrValue("id", "")
		if id == "" {
			return Unit{}, false
		}
		u := Unit{ID: id}
		for _, tu := range el.SelectElements("trans-unit") {
			idx := pluralIndex(tu.SelectAttrValue("id", ""))
			for len(u.Plurals) <= idx {
				u.Plurals = append(u.Plurals, Form{})
			}
			u.Plurals[idx] = Form{
				Source: childText(tu, "source"),
				Target: childText(tu, "target"),
			}
		}
		if len(u.Plurals) > 0 {
			u.Source = u.Plurals[0].Source
			u.Target = u.Plurals[0].Target
		}
		return u, true
	}

	return Unit{}, false
}

// pluralIndex extracts n from "id[n]", defaulting to 0.
func pluralIndex(id string) int {
	open := strings.LastIndexByte(id, '[')
	if open < 0 || !strings.HasSuffix(id, "]") {
		return 0
	}
	n, err := strconv.Atoi(id[open+1 : len(id)-1])
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func appendElement(body *etree.Element, u Unit) *etree.Element {
	if len(u.Plurals) == 0 {
		tu := body.CreateElement("trans-unit")
		tu.CreateAttr("id", u.ID)
		tu.CreateElement("source").SetText(u.Source)
		tu.CreateElement("target").SetText(u.Target)
		return tu
	}

	group := body.CreateElement("group")
	group.CreateAttr("id", u.ID)
	group.CreateAttr("restype", PluralRestype)
	for i, f := range u.Plurals {
		tu := group.CreateElement("trans-unit")
		tu.CreateAttr("id", fmt.Sprintf("%s[%d]", u.ID, i))
		tu.CreateElement("source").SetText(f.Source)
		tu.CreateElement("target").SetText(f.Target)
	}
	return group
}

func childText(el *etree.Element, tag string) string {
	child := el.SelectElement(tag)
	if child == nil {
		return ""
	}
	return child.Text()
}

func setChildText(el *etree.Element, tag, text string) {
	if el == nil {
		return
	}
	child := el.SelectElement(tag)
	if child == nil {
		child = el.CreateElement(tag)
	}
	child.SetText(text)
}

func cloneUnit(u Unit) Unit {
	if u.Plurals != nil {
		u.Plurals = append([]Form(nil), u.Plurals...)
	}
	return u
}
