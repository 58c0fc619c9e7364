package news

import (
	"strings"
	"unicode"

	"abrigo-animais/internal/platform/textutil"
)

// Slugify deriva o slug do título: minúsculas, sem acentos, só letras,
// dígitos e hífens, com sequências de separadores reduzidas a um hífen.
// "Novo Lar Para Cães!" -> "novo-lar-para-caes".
func Slugify(title string) string {
	folded := textutil.Fold(title)

	var b strings.Builder
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r), r == '-', r == '_':
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), "-")
}
