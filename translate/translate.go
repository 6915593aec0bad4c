// Package translate formats user facing messages in the caller's locale.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/message"
)

// FALLBACK is the language used when no locale can be determined.
const FALLBACK = "en-US"

var printer *message.Printer

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("hmasm: locale: %v", err)
	}

	Use(locales...)
}

// Use selects the best match among the BCP 47 language tags for all
// further messages. With no tags, FALLBACK is used.
func Use(tags ...string) {
	if len(tags) == 0 {
		tags = []string{FALLBACK}
	}

	printer = message.NewPrinter(message.MatchLanguage(tags...))
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
