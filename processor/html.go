package processor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ZaguanLabs/autoxliff"
	"golang.org/x/net/html"
)

const (
	// AttrTranslate marks an element whose text is a label. A non-empty
	// value is used as the unit id.
	AttrTranslate = "data-translate"
	// AttrTranslateID supplies an explicit unit id.
	AttrTranslateID = "data-translate-id"
	// AttrNoTranslate excludes an element and its subtree.
	AttrNoTranslate = "data-no-translate"
)

// DefaultIgnoredTags are never scanned for labels.
var DefaultIgnoredTags = []string{"script", "style", "noscript", "template"}

// HTMLExtractor finds labels in HTML templates.
type HTMLExtractor struct {
	ignoredTags map[string]bool
}

// NewHTMLExtractor creates an extractor with DefaultIgnoredTags.
func NewHTMLExtractor() *HTMLExtractor {
	return NewHTMLExtractorWithIgnoredTags(DefaultIgnoredTags)
}

// NewHTMLExtractorWithIgnoredTags creates an extractor with custom ignored tags.
func NewHTMLExtractorWithIgnoredTags(tags []string) *HTMLExtractor {
	ignored := make(map[string]bool, len(tags))
	for _, tag := range tags {
		ignored[strings.ToLower(tag)] = true
	}
	return &HTMLExtractor{ignoredTags: ignored}
}

// Extract returns the labels marked with data-translate or data-translate-id,
// in document order. Repeated labels are returned once.
func (p *HTMLExtractor) Extract(content string) ([]Label, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, &autoxliff.ProcessorError{
			Message:     "failed to parse HTML",
			Cause:       err,
			ContentType: "html",
		}
	}

	var labels []Label
	seen := make(map[string]bool)

	selector := fmt.Sprintf("[%s], [%s]", AttrTranslate, AttrTranslateID)
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if p.skipped(s) {
			return
		}

		id := strings.TrimSpace(s.AttrOr(AttrTranslate, ""))
		if id == "" {
			id = strings.TrimSpace(s.AttrOr(AttrTranslateID, ""))
		}
		text := strings.Join(strings.Fields(s.Text()), " ")
		if id == "" && text == "" {
			return
		}

		key := "id:" + id
		if id == "" {
			key = "text:" + text
		}
		if seen[key] {
			return
		}
		seen[key] = true

		labels = append(labels, Label{
			ID:      id,
			Text:    text,
			Context: buildContext(s.Get(0)),
		})
	})

	return labels, nil
}

// ContentType returns "html".
func (p *HTMLExtractor) ContentType() string {
	return "html"
}

func (p *HTMLExtractor) skipped(s *goquery.Selection) bool {
	if s.Closest("[" + AttrNoTranslate + "]").Length() > 0 {
		return true
	}
	for n := s.Get(0); n != nil; n = n.Parent {
		if n.Type == html.ElementNode && p.ignoredTags[strings.ToLower(n.Data)] {
			return true
		}
	}
	return false
}

// buildContext describes where an element sits in the page, e.g.
// `in <a class="btn"> | inside: nav > ul > li`.
func buildContext(n *html.Node) string {
	if n == nil {
		return ""
	}

	var parts []string

	var classAttr, idAttr string
	for _, attr := range n.Attr {
		switch attr.Key {
		case "class":
			classAttr = attr.Val
		case "id":
			idAttr = attr.Val
		}
	}

	switch {
	case classAttr != "":
		parts = append(parts, fmt.Sprintf("in <%s class=%q>", n.Data, classAttr))
	case idAttr != "":
		parts = append(parts, fmt.Sprintf("in <%s id=%q>", n.Data, idAttr))
	default:
		parts = append(parts, fmt.Sprintf("in <%s>", n.Data))
	}

	var ancestors []string
	ancestor := n.Parent
	for i := 0; i < 3 && ancestor != nil; i++ {
		if ancestor.Type == html.ElementNode {
			name := ancestor.Data
			if name != "html" && name != "body" {
				ancestors = append(ancestors, name)
			}
		}
		ancestor = ancestor.Parent
	}
	if len(ancestors) > 0 {
		// outer to inner
		for i, j := 0, len(ancestors)-1; i < j; i, j = i+1, j-1 {
			ancestors[i], ancestors[j] = ancestors[j], ancestors[i]
		}
		parts = append(parts, "inside: "+strings.Join(ancestors, " > "))
	}

	return strings.Join(parts, " | ")
}

var _ LabelExtractor = (*HTMLExtractor)(nil)
