package autoxliff

import "golang.org/x/text/language/display"

// rtlScripts lists scripts written right to left.
var rtlScripts = map[string]bool{
	"Arab": true,
	"Hebr": true,
	"Thaa": true,
	"Syrc": true,
	"Nkoo": true,
	"Adlm": true,
	"Rohg": true,
}

// LanguageName returns the English name of a locale such as "de_CH"
// ("Swiss High German"). Unparseable locales are returned unchanged.
func LanguageName(locale string) string {
	tag, err := ParseLocale(locale)
	if err != nil {
		return locale
	}
	name := display.English.Tags().Name(tag)
	if name == "" {
		return locale
	}
	return name
}

// IsRTL reports whether the locale is written right to left.
func IsRTL(locale string) bool {
	tag, err := ParseLocale(locale)
	if err != nil {
		return false
	}
	script, _ := tag.Script()
	return rtlScripts[script.String()]
}

// Direction returns "rtl" or "ltr" for the locale.
func Direction(locale string) string {
	if IsRTL(locale) {
		return "rtl"
	}
	return "ltr"
}

// BaseLanguage returns the language subtag of a locale ("de" for "de_CH").
func BaseLanguage(locale string) string {
	tag, err := ParseLocale(locale)
	if err != nil {
		return locale
	}
	base, _ := tag.Base()
	return base.String()
}

