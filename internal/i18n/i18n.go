// Package i18n looks up menu and notification strings in a translation
// catalog keyed by the English source text.
package i18n

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message ids. The English source string doubles as the key.
const (
	ItemLabel       = "Scan for threats..."
	ItemTip         = "Scan %s for threats..."
	SelectionTip    = "Scan the selected item for threats..."
	BackgroundLabel = "Scan directory for threats..."
	BackgroundTip   = "Scan this directory for threats..."
	LaunchFailed    = "Unable to start the virus scanner"
	LaunchFailedFor = "%s could not be scanned: %v"
)

// Translator formats a message id for the active language.
type Translator interface {
	Sprintf(key string, args ...any) string
}

// PassThrough returns the source strings untranslated.
type PassThrough struct{}

func (PassThrough) Sprintf(key string, args ...any) string {
	if len(args) == 0 {
		return key
	}
	return fmt.Sprintf(key, args...)
}

var translations = map[language.Tag]map[string]string{
	language.German: {
		ItemLabel:       "Auf Bedrohungen prüfen...",
		ItemTip:         "%s auf Bedrohungen prüfen...",
		SelectionTip:    "Ausgewähltes Element auf Bedrohungen prüfen...",
		BackgroundLabel: "Ordner auf Bedrohungen prüfen...",
		BackgroundTip:   "Diesen Ordner auf Bedrohungen prüfen...",
		LaunchFailed:    "Der Virenscanner konnte nicht gestartet werden",
		LaunchFailedFor: "%s konnte nicht geprüft werden: %v",
	},
	language.French: {
		ItemLabel:       "Rechercher des menaces...",
		ItemTip:         "Rechercher des menaces dans %s...",
		SelectionTip:    "Rechercher des menaces dans l'élément sélectionné...",
		BackgroundLabel: "Rechercher des menaces dans le dossier...",
		BackgroundTip:   "Rechercher des menaces dans ce dossier...",
		LaunchFailed:    "Impossible de démarrer l'antivirus",
		LaunchFailedFor: "%s n'a pas pu être analysé : %v",
	},
	language.Spanish: {
		ItemLabel:       "Buscar amenazas...",
		ItemTip:         "Buscar amenazas en %s...",
		SelectionTip:    "Buscar amenazas en el elemento seleccionado...",
		BackgroundLabel: "Buscar amenazas en la carpeta...",
		BackgroundTip:   "Buscar amenazas en esta carpeta...",
		LaunchFailed:    "No se pudo iniciar el antivirus",
		LaunchFailedFor: "No se pudo analizar %s: %v",
	},
	language.Italian: {
		ItemLabel:       "Cerca minacce...",
		ItemTip:         "Cerca minacce in %s...",
		SelectionTip:    "Cerca minacce nell'elemento selezionato...",
		BackgroundLabel: "Cerca minacce nella cartella...",
		BackgroundTip:   "Cerca minacce in questa cartella...",
		LaunchFailed:    "Impossibile avviare l'antivirus",
		LaunchFailedFor: "Impossibile analizzare %s: %v",
	},
}

// supported lists English first so it is the matcher's fallback.
var supported = []language.Tag{
	language.English,
	language.German,
	language.French,
	language.Spanish,
	language.Italian,
}

var builtin = newBuiltinCatalog()

func newBuiltinCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range translations {
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(fmt.Sprintf("i18n: bad catalog entry %q for %s: %v", key, tag, err))
			}
		}
	}
	return b
}

// Catalog translates through golang.org/x/text/message.
type Catalog struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a Catalog for the closest supported match of tag.
func New(tag language.Tag) *Catalog {
	matched := Match(tag)
	return &Catalog{
		tag:     matched,
		printer: message.NewPrinter(matched, message.Catalog(builtin)),
	}
}

// Language reports the language the catalog resolved to.
func (c *Catalog) Language() language.Tag {
	return c.tag
}

func (c *Catalog) Sprintf(key string, args ...any) string {
	return c.printer.Sprintf(key, args...)
}

// Match returns the supported language closest to the given preferences,
// or English when none match.
func Match(tags ...language.Tag) language.Tag {
	if len(tags) == 0 {
		return language.English
	}
	_, idx, conf := language.NewMatcher(supported).Match(tags...)
	if conf == language.No {
		return language.English
	}
	return supported[idx]
}

// Detect resolves the user's language. A non-empty override wins over the
// locale environment (LANGUAGE, LC_ALL, LC_MESSAGES, LANG).
func Detect(override string) language.Tag {
	return detect(override, os.Getenv)
}

func detect(override string, getenv func(string) string) language.Tag {
	if tag, ok := ParseLocale(override); ok {
		return Match(tag)
	}

	var prefs []language.Tag

	// LANGUAGE is only honoured when a real locale is configured.
	if lang := getenv("LANGUAGE"); lang != "" && activeLocale(getenv) {
		for _, part := range strings.Split(lang, ":") {
			if tag, ok := ParseLocale(part); ok {
				prefs = append(prefs, tag)
			}
		}
	}
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := getenv(name); v != "" {
			if tag, ok := ParseLocale(v); ok {
				prefs = append(prefs, tag)
			}
			break
		}
	}

	return Match(prefs...)
}

func activeLocale(getenv func(string) string) bool {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := getenv(name); v != "" {
			return v != "C" && v != "POSIX"
		}
	}
	return false
}

// ParseLocale converts a POSIX locale name such as "de_DE.UTF-8@euro"
// into a language tag.
func ParseLocale(s string) (language.Tag, bool) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	if s == "" || s == "C" || s == "POSIX" {
		return language.Und, false
	}
	tag, err := language.Parse(strings.ReplaceAll(s, "_", "-"))
	if err != nil {
		return language.Und, false
	}
	return tag, true
}
