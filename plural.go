package autoxliff

import (
	"sort"
	"sync"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
)

// cldrOrder is the order plural forms are stored in a catalog group.
var cldrOrder = map[plural.Form]int{
	plural.Zero:  0,
	plural.One:   1,
	plural.Two:   2,
	plural.Few:   3,
	plural.Many:  4,
	plural.Other: 5,
}

var pluralForms sync.Map // tag string -> []plural.Form

// PluralForms returns the cardinal plural categories used by tag, in the
// order zero, one, two, few, many, other.
func PluralForms(tag language.Tag) []plural.Form {
	if forms, ok := pluralForms.Load(tag.String()); ok {
		return forms.([]plural.Form)
	}

	found := make(map[plural.Form]bool)
	for n := 0; n < 200; n++ {
		found[plural.Cardinal.MatchPlural(tag, n, 0, 0, 0, 0)] = true
	}
	// Fractions: 0.5 and 1.5 with one visible digit.
	found[plural.Cardinal.MatchPlural(tag, 0, 1, 1, 5, 5)] = true
	found[plural.Cardinal.MatchPlural(tag, 1, 1, 1, 5, 5)] = true

	forms := make([]plural.Form, 0, len(found))
	for f := range found {
		forms = append(forms, f)
	}
	sort.Slice(forms, func(a, b int) bool {
		return cldrOrder[forms[a]] < cldrOrder[forms[b]]
	})

	pluralForms.Store(tag.String(), forms)
	return forms
}

// PluralFormIndex returns the index of the plural form that quantity selects
// in tag.
func PluralFormIndex(tag language.Tag, quantity int) int {
	if quantity < 0 {
		quantity = -quantity
	}
	form := plural.Cardinal.MatchPlural(tag, quantity, 0, 0, 0, 0)
	for i, f := range PluralForms(tag) {
		if f == form {
			return i
		}
	}
	return 0
}
