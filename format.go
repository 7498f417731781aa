package autoxliff

import (
	"fmt"
	"regexp"
	"strconv"
)

// placeholder matches {0}, {name} and formatter-qualified forms like
// {0,number}.
var placeholder = regexp.MustCompile(`\{([A-Za-z0-9_]+)(?:,[^}]*)?\}`)

// ResolvePlaceholders substitutes {n} with args[n]. When the first argument
// is a map[string]any or map[string]string, {name} is looked up in it.
// Placeholders without a value are left as they are.
func ResolvePlaceholders(text string, args []any) string {
	if len(args) == 0 {
		return text
	}

	var named map[string]any
	switch m := args[0].(type) {
	case map[string]any:
		named = m
	case map[string]string:
		named = make(map[string]any, len(m))
		for k, v := range m {
			named[k] = v
		}
	}

	return placeholder.ReplaceAllStringFunc(text, func(match string) string {
		name := placeholder.FindStringSubmatch(match)[1]
		if n, err := strconv.Atoi(name); err == nil {
			if named == nil && n < len(args) {
				return fmt.Sprint(args[n])
			}
			if v, ok := named[name]; ok {
				return fmt.Sprint(v)
			}
			return match
		}
		if v, ok := named[name]; ok {
			return fmt.Sprint(v)
		}
		return match
	})
}
