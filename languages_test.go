package autoxliff

import "testing"

func TestLanguageName(t *testing.T) {
	tests := []struct {
		locale string
		want   string
	}{
		{"de", "German"},
		{"fr", "French"},
		{"ja", "Japanese"},
		{"not a locale!", "not a locale!"},
	}

	for _, tt := range tests {
		if got := LanguageName(tt.locale); got != tt.want {
			t.Errorf("LanguageName(%q) = %q, want %q", tt.locale, got, tt.want)
		}
	}
}

func TestDirection(t *testing.T) {
	tests := []struct {
		locale string
		want   string
	}{
		{"ar", "rtl"},
		{"he", "rtl"},
		{"fa_IR", "rtl"},
		{"en", "ltr"},
		{"de_CH", "ltr"},
		{"???", "ltr"},
	}

	for _, tt := range tests {
		if got := Direction(tt.locale); got != tt.want {
			t.Errorf("Direction(%q) = %q, want %q", tt.locale, got, tt.want)
		}
	}
}

func TestBaseLanguage(t *testing.T) {
	if got := BaseLanguage("pt_BR"); got != "pt" {
		t.Errorf("BaseLanguage(pt_BR) = %q", got)
	}
	if got := BaseLanguage("de"); got != "de" {
		t.Errorf("BaseLanguage(de) = %q", got)
	}
}
