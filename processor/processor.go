// Package processor finds translatable labels in templates and source files.
package processor

import (
	"path/filepath"
	"strings"

	"github.com/ZaguanLabs/autoxliff"
)

// LabelExtractor is an alias to the main package interface.
type LabelExtractor = autoxliff.LabelExtractor

// Label is an alias to the main package type.
type Label = autoxliff.Label

// ForFile returns the extractor for a file name by extension, or nil.
func ForFile(name string) LabelExtractor {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".go":
		return NewGoExtractor()
	case ".html", ".htm":
		return NewHTMLExtractor()
	}
	return nil
}
