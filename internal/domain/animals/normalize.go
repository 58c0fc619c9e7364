package animals

import (
	"fmt"
	"strings"

	"abrigo-animais/internal/platform/textutil"
)

// EnumAlias associa um valor canônico ao conjunto de apelidos aceitos.
// A forma minúscula do próprio canônico é sempre um apelido implícito.
type EnumAlias struct {
	Canonical string
	Aliases   []string
}

// EnumAliases é um dicionário ordenado de aliases por campo.
type EnumAliases []EnumAlias

// Dicionários por campo. O frontend manda texto livre em português;
// aqui viram o valor canônico persistido.
var (
	SpeciesAliases = EnumAliases{
		{Canonical: string(SpeciesDog), Aliases: []string{"cachorro", "cão", "cao", "perro", "canino"}},
		{Canonical: string(SpeciesCat), Aliases: []string{"gato", "gata", "felino"}},
		{Canonical: string(SpeciesOther), Aliases: []string{"outro", "outros", "outra"}},
	}

	AgeAliases = EnumAliases{
		{Canonical: string(AgePuppy), Aliases: []string{"filhote", "bebê", "bebe"}},
		{Canonical: string(AgeYoung), Aliases: []string{"jovem", "novo", "nova"}},
		{Canonical: string(AgeAdult), Aliases: []string{"adulto", "adulta"}},
		{Canonical: string(AgeSenior), Aliases: []string{"idoso", "idosa", "velho", "velha"}},
	}

	SizeAliases = EnumAliases{
		{Canonical: string(SizeSmall), Aliases: []string{"pequeno", "pequena", "p"}},
		{Canonical: string(SizeMedium), Aliases: []string{"médio", "medio", "média", "media"}},
		{Canonical: string(SizeLarge), Aliases: []string{"grande", "g"}},
	}

	GenderAliases = EnumAliases{
		{Canonical: string(GenderMale), Aliases: []string{"macho"}},
		{Canonical: string(GenderFemale), Aliases: []string{"fêmea", "femea"}},
	}
)

// NormalizeEnum mapeia um valor livre do cliente para o canônico do dicionário.
// nil passa direto (required é problema da validação, não daqui). Valor sem
// correspondência volta inalterado: normalização é aliasing de melhor esforço,
// a validação é quem rejeita.
func NormalizeEnum(raw *string, aliases EnumAliases) *string {
	if raw == nil {
		return nil
	}
	v := normalizeValue(*raw, aliases)
	return &v
}

func normalizeValue(raw string, aliases EnumAliases) string {
	in := textutil.Fold(raw)
	if in == "" {
		return raw
	}
	for _, entry := range aliases {
		if textutil.Fold(entry.Canonical) == in {
			return entry.Canonical
		}
		for _, alias := range entry.Aliases {
			if textutil.Fold(alias) == in {
				return entry.Canonical
			}
		}
	}
	return raw
}

// CoerceBool converte valor frouxo do cliente em bool estrito.
// bool nativo passa; string entra no conjunto {"true","1","on","yes","sim"};
// qualquer outra coisa (incluindo nil) vira false.
func CoerceBool(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	default:
		switch strings.ToLower(strings.TrimSpace(fmt.Sprint(t))) {
		case "true", "1", "on", "yes", "sim":
			return true
		}
		return false
	}
}

// CoerceBoolPtr é a variante de update: campo ausente (nil) fica nil
// para não sobrescrever o valor persistido.
func CoerceBoolPtr(v any) *bool {
	if v == nil {
		return nil
	}
	b := CoerceBool(v)
	return &b
}
