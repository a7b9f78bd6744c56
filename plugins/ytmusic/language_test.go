package ytmusic

import "testing"

func TestCoerceLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"en", "en"},
		{"en_US", "en"},
		{"en-GB", "en"},
		{"pt_BR", "pt"},
		{"ja_JP.UTF-8", "ja"},
		{"zh_CN", "zh_CN"},
		{"zh_TW", "zh_TW"},
		{"zh-MO", "zh_TW"},
		{"zh_HK", "zh_TW"},
		{"zh_SG", "zh_CN"},
		{"zh", "zh_CN"},
		{"zh-Hant", "zh_TW"},
		{"xx_YY", "zh_CN"},
		{"C", "zh_CN"},
		{"", "zh_CN"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := CoerceLanguage(tt.in); got != tt.want {
				t.Errorf("CoerceLanguage(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolveLanguage(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		app        string
		locale     string
		want       string
	}{
		{"configured wins", "ko", "en_US", "fr_FR", "ko"},
		{"auto uses app", "auto", "de_DE", "fr_FR", "de"},
		{"empty uses app", "", "es", "fr_FR", "es"},
		{"locale fallback", "AUTO", "", "fr_FR", "fr"},
		{"nothing", "", "", "", "zh_CN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveLanguage(tt.configured, tt.app, tt.locale); got != tt.want {
				t.Errorf("ResolveLanguage() = %q, want %q", got, tt.want)
			}
		})
	}
}
