// Package translit converts arbitrary display text into ASCII
// identifier-safe strings for the platform's wire names.
package translit

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// Transliterator maps display text to ASCII. Implementations must be
// deterministic and total.
type Transliterator interface {
	Transliterate(s string) string
}

// Func adapts a plain function to the Transliterator interface.
type Func func(string) string

func (f Func) Transliterate(s string) string { return f(s) }

// Default returns the unidecode-backed transliterator.
func Default() Transliterator {
	return Func(unidecode.Unidecode)
}

// Identifier renders display text wire-safe: spaces become underscores,
// then the whole string is transliterated.
func Identifier(t Transliterator, s string) string {
	return t.Transliterate(strings.ReplaceAll(s, " ", "_"))
}
