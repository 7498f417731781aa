package processor

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"

	"github.com/ZaguanLabs/autoxliff"
)

// DefaultFuncs are the helper names whose first string argument is a label.
var DefaultFuncs = []string{"T", "Tr"}

// DefaultTypes are the request types whose literals carry labels.
var DefaultTypes = []string{"LookupRequest", "ViewRequest"}

// GoExtractor finds labels in Go source: request literals and calls to
// translation helpers.
type GoExtractor struct {
	funcs map[string]bool
	types map[string]bool
}

// GoExtractorOption configures the Go extractor.
type GoExtractorOption func(*GoExtractor)

// WithFuncs replaces the helper names, e.g. WithFuncs("translate").
func WithFuncs(names ...string) GoExtractorOption {
	return func(p *GoExtractor) {
		p.funcs = toSet(names)
	}
}

// WithTypes replaces the request type names.
func WithTypes(names ...string) GoExtractorOption {
	return func(p *GoExtractor) {
		p.types = toSet(names)
	}
}

// NewGoExtractor creates a new Go source extractor.
func NewGoExtractor(opts ...GoExtractorOption) *GoExtractor {
	p := &GoExtractor{
		funcs: toSet(DefaultFuncs),
		types: toSet(DefaultTypes),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Extract parses Go source and returns its labels in source order.
func (p *GoExtractor) Extract(content string) ([]Label, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "source.go", content, parser.SkipObjectResolution)
	if err != nil {
		return nil, &autoxliff.ProcessorError{
			Message:     "failed to parse Go source",
			Cause:       err,
			ContentType: "go",
		}
	}

	var labels []Label
	seen := make(map[string]bool)
	add := func(l Label) {
		key := "id:" + l.ID
		if l.ID == "" {
			key = "text:" + l.Text
		}
		if seen[key] {
			return
		}
		seen[key] = true
		labels = append(labels, l)
	}

	ast.Inspect(file, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.CompositeLit:
			name := exprName(n.Type)
			if !p.types[name] {
				return true
			}
			if l, ok := literalLabel(n); ok {
				l.Context = fmt.Sprintf("%s at line %d", name, fset.Position(n.Pos()).Line)
				add(l)
			}

		case *ast.CallExpr:
			name := exprName(n.Fun)
			if !p.funcs[name] || len(n.Args) == 0 {
				return true
			}
			text, ok := stringValue(n.Args[0])
			if !ok || !isTranslatableString(text) {
				return true
			}
			add(Label{
				Text:    text,
				Context: fmt.Sprintf("%s() at line %d", name, fset.Position(n.Pos()).Line),
			})
		}
		return true
	})

	return labels, nil
}

// ContentType returns "go".
func (p *GoExtractor) ContentType() string {
	return "go"
}

// literalLabel reads the ID, Label and Value fields of a keyed literal.
func literalLabel(lit *ast.CompositeLit) (Label, bool) {
	var l Label
	for _, elt := range lit.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			continue
		}
		key, ok := kv.Key.(*ast.Ident)
		if !ok {
			continue
		}
		val, ok := stringValue(kv.Value)
		if !ok {
			continue
		}
		switch key.Name {
		case "ID":
			l.ID = val
		case "Label", "Value":
			l.Text = strings.TrimSpace(val)
		}
	}
	return l, l.ID != "" || l.Text != ""
}

// exprName returns the trailing identifier of x, y or pkg.x.
func exprName(e ast.Expr) string {
	switch e := e.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.SelectorExpr:
		return e.Sel.Name
	}
	return ""
}

func stringValue(e ast.Expr) (string, bool) {
	lit, ok := e.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}
	s, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", false
	}
	return s, true
}

// isTranslatableString filters helper arguments that are clearly not labels.
func isTranslatableString(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}

	// paths and routes
	if strings.Contains(s, "/") && !strings.Contains(s, " ") {
		return false
	}

	// bare format verbs
	if strings.HasPrefix(s, "%") && len(s) < 5 {
		return false
	}

	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r > 0x7f {
			return true
		}
	}
	return false
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

var _ LabelExtractor = (*GoExtractor)(nil)
