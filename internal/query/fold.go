package query

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// fold lower-cases s for case-insensitive matching and ordering. A Caser is
// stateful, so each call builds its own.
func fold(s string) string {
	if s == "" {
		return s
	}
	return cases.Lower(language.Und).String(s)
}
