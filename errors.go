package autoxliff

import (
	"errors"
	"fmt"

	"github.com/ZaguanLabs/autoxliff/catalog"
)

// NotFoundError is returned by a Lookup when no catalog in the fallback chain
// has the requested unit.
type NotFoundError struct {
	ID      string
	Label   string
	Package string
	Source  string
	Locale  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no translation found for id %q or label %q in package %s (source %s, locale %s)",
		e.ID, e.Label, e.Package, e.Source, e.Locale)
}

// MissingCatalogError is returned by a Lookup when the catalog file itself is
// absent.
type MissingCatalogError struct {
	Path    string
	Package string
	Source  string
	Locale  string
}

func (e *MissingCatalogError) Error() string {
	return fmt.Sprintf("catalog %s/%s for locale %s does not exist: %s", e.Package, e.Source, e.Locale, e.Path)
}

// InvalidLocaleError indicates an explicit locale that is not a valid
// language tag.
type InvalidLocaleError struct {
	Locale string
	Cause  error
}

func (e *InvalidLocaleError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid locale %q: %v", e.Locale, e.Cause)
	}
	return fmt.Sprintf("invalid locale %q", e.Locale)
}

func (e *InvalidLocaleError) Unwrap() error {
	return e.Cause
}

// IOError indicates a catalog that could not be read, parsed or written.
type IOError struct {
	Op    string
	Path  string
	Cause error
}

func (e *IOError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("catalog i/o error (%s %s): %v", e.Op, e.Path, e.Cause)
	}
	return fmt.Sprintf("catalog i/o error (%s %s)", e.Op, e.Path)
}

func (e *IOError) Unwrap() error {
	return e.Cause
}

// ViewError is returned by RenderLabel for failures that must surface in the
// rendered view.
type ViewError struct {
	Message string
	Code    int
	Cause   error
}

func (e *ViewError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ViewError) Unwrap() error {
	return e.Cause
}

// ProviderError indicates an AI provider failure (API error, rate limit, etc.).
type ProviderError struct {
	Message   string
	Cause     error
	Retryable bool // Whether the operation can be retried
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// ProcessorError indicates a template that could not be scanned for labels.
type ProcessorError struct {
	Message     string
	Cause       error
	ContentType string // The type of content that failed to process
}

func (e *ProcessorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("processor error (%s): %s: %v", e.ContentType, e.Message, e.Cause)
	}
	return fmt.Sprintf("processor error (%s): %s", e.ContentType, e.Message)
}

func (e *ProcessorError) Unwrap() error {
	return e.Cause
}

// CountMismatchError indicates the AI returned a different number of suggestions than expected.
type CountMismatchError struct {
	Expected int
	Got      int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("suggestion count mismatch: expected %d, got %d", e.Expected, e.Got)
}

// IsMiss reports whether err means "this label is not translated yet":
// a *NotFoundError or a *MissingCatalogError.
func IsMiss(err error) bool {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return true
	}
	var mc *MissingCatalogError
	return errors.As(err, &mc)
}

// wrapIO converts catalog errors into *IOError. Other errors are returned
// unchanged.
func wrapIO(err error) error {
	if err == nil {
		return nil
	}
	var cerr *catalog.Error
	if errors.As(err, &cerr) {
		return &IOError{Op: cerr.Op, Path: cerr.Path, Cause: cerr.Err}
	}
	return err
}
