package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var diacriticRemover = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// StripDiacritics remove acentos: "Cães" -> "Caes", "fêmea" -> "femea".
func StripDiacritics(s string) string {
	out, _, err := transform.String(diacriticRemover, s)
	if err != nil {
		return s
	}
	return out
}

// Fold normaliza para comparação: minúsculas, sem acentos, sem espaços nas pontas.
func Fold(s string) string {
	return strings.ToLower(StripDiacritics(strings.TrimSpace(s)))
}
