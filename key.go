package autoxliff

import (
	"regexp"
	"strings"
)

// SlugPrefix marks identifiers derived from label text.
const SlugPrefix = "slug."

var nonSlugRun = regexp.MustCompile(`[^a-z0-9-]+`)

// DeriveKey builds the fallback identifier for a label that was requested
// without an explicit id: the lower-cased text with every run of characters
// outside [a-z0-9-] replaced by a dash, trimmed of dashes and prefixed with
// "slug.".
//
//	DeriveKey("Hello, World!") == "slug.hello-world"
func DeriveKey(text string) string {
	slug := nonSlugRun.ReplaceAllString(strings.ToLower(text), "-")
	return SlugPrefix + strings.Trim(slug, "-")
}

// DedupKey generates the run-scoped memo key for one unit of one catalog.
func DedupKey(pkg, source, locale, id string) string {
	return pkg + ":" + source + ":" + locale + ":" + id
}
