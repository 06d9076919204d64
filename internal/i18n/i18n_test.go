package i18n

import (
	"errors"
	"testing"

	"golang.org/x/text/language"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestPassThrough(t *testing.T) {
	var tr Translator = PassThrough{}
	if got := tr.Sprintf(ItemLabel); got != "Scan for threats..." {
		t.Errorf("Sprintf(ItemLabel) = %q", got)
	}
	if got := tr.Sprintf(ItemTip, "report.pdf"); got != "Scan report.pdf for threats..." {
		t.Errorf("Sprintf(ItemTip) = %q", got)
	}
}

func TestCatalog_English(t *testing.T) {
	c := New(language.English)
	if got := c.Sprintf(ItemLabel); got != ItemLabel {
		t.Errorf("Sprintf(ItemLabel) = %q, want source string", got)
	}
	if got := c.Sprintf(ItemTip, "a b.txt"); got != "Scan a b.txt for threats..." {
		t.Errorf("Sprintf(ItemTip) = %q", got)
	}
}

func TestCatalog_Translated(t *testing.T) {
	tests := []struct {
		tag   language.Tag
		label string
		tip   string
	}{
		{language.German, "Auf Bedrohungen prüfen...", "bericht.pdf auf Bedrohungen prüfen..."},
		{language.MustParse("de-AT"), "Auf Bedrohungen prüfen...", "bericht.pdf auf Bedrohungen prüfen..."},
		{language.French, "Rechercher des menaces...", "Rechercher des menaces dans bericht.pdf..."},
		{language.Spanish, "Buscar amenazas...", "Buscar amenazas en bericht.pdf..."},
		{language.Italian, "Cerca minacce...", "Cerca minacce in bericht.pdf..."},
	}

	for _, tt := range tests {
		t.Run(tt.tag.String(), func(t *testing.T) {
			c := New(tt.tag)
			if got := c.Sprintf(ItemLabel); got != tt.label {
				t.Errorf("label = %q, want %q", got, tt.label)
			}
			if got := c.Sprintf(ItemTip, "bericht.pdf"); got != tt.tip {
				t.Errorf("tip = %q, want %q", got, tt.tip)
			}
		})
	}
}

func TestCatalog_UnknownLanguageFallsBack(t *testing.T) {
	c := New(language.Japanese)
	if c.Language() != language.English {
		t.Errorf("Language() = %s, want en", c.Language())
	}
	if got := c.Sprintf(BackgroundTip); got != BackgroundTip {
		t.Errorf("Sprintf(BackgroundTip) = %q, want source string", got)
	}
}

func TestCatalog_UntranslatedKey(t *testing.T) {
	c := New(language.German)
	if got := c.Sprintf("Not in the catalog"); got != "Not in the catalog" {
		t.Errorf("untranslated key = %q", got)
	}
}

func TestCatalog_ErrorArgument(t *testing.T) {
	c := New(language.English)
	got := c.Sprintf(LaunchFailedFor, "/tmp/x", errors.New("boom"))
	if got != "/tmp/x could not be scanned: boom" {
		t.Errorf("Sprintf(LaunchFailedFor) = %q", got)
	}
}

func TestParseLocale(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"de_DE.UTF-8", "de-DE", true},
		{"fr_FR@euro", "fr-FR", true},
		{"es", "es", true},
		{"pt_BR.utf8", "pt-BR", true},
		{"C", "", false},
		{"POSIX", "", false},
		{"C.UTF-8", "", false},
		{"", "", false},
		{"!!", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			tag, ok := ParseLocale(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ParseLocale(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if ok && tag.String() != tt.want {
				t.Errorf("ParseLocale(%q) = %s, want %s", tt.in, tag, tt.want)
			}
		})
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		override string
		env      map[string]string
		want     language.Tag
	}{
		{"nothing set", "", nil, language.English},
		{"LANG", "", map[string]string{"LANG": "de_DE.UTF-8"}, language.German},
		{"LC_ALL wins over LANG", "", map[string]string{"LC_ALL": "fr_FR.UTF-8", "LANG": "de_DE.UTF-8"}, language.French},
		{"LC_MESSAGES", "", map[string]string{"LC_MESSAGES": "it_IT", "LANG": "de_DE"}, language.Italian},
		{"LANGUAGE list", "", map[string]string{"LANGUAGE": "ko:es", "LANG": "ja_JP.UTF-8"}, language.Spanish},
		{"LANGUAGE ignored in C locale", "", map[string]string{"LANGUAGE": "de", "LANG": "C"}, language.English},
		{"override wins", "es", map[string]string{"LANG": "de_DE.UTF-8"}, language.Spanish},
		{"unsupported", "", map[string]string{"LANG": "ja_JP.UTF-8"}, language.English},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detect(tt.override, envOf(tt.env))
			if got != tt.want {
				t.Errorf("detect() = %s, want %s", got, tt.want)
			}
		})
	}
}
