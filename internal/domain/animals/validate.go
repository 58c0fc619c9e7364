package animals

import (
	"strings"
	"unicode/utf8"

	"abrigo-animais/internal/platform/validation"
)

var (
	validSpecies = map[string]bool{string(SpeciesDog): true, string(SpeciesCat): true, string(SpeciesOther): true}
	validAges    = map[string]bool{string(AgePuppy): true, string(AgeYoung): true, string(AgeAdult): true, string(AgeSenior): true}
	validSizes   = map[string]bool{string(SizeSmall): true, string(SizeMedium): true, string(SizeLarge): true}
	validGenders = map[string]bool{string(GenderMale): true, string(GenderFemale): true}
)

// Validate roda depois da normalização/coerção e devolve TODAS as violações,
// campo a campo, para o cliente destacar tudo de uma vez.
func Validate(a Animal) error {
	var errs validation.FieldErrors

	name := strings.TrimSpace(a.Name)
	if name == "" {
		errs.Add("name", "nome é obrigatório")
	} else if utf8.RuneCountInString(name) > 100 {
		errs.Add("name", "nome deve ter entre 1 e 100 caracteres")
	}

	if !validSpecies[a.Species] {
		errs.Add("species", "espécie inválida: use Dog, Cat ou Other")
	}
	if !validAges[a.Age] {
		errs.Add("age", "faixa etária inválida: use Puppy, Young, Adult ou Senior")
	}
	if !validSizes[a.Size] {
		errs.Add("size", "porte inválido: use Small, Medium ou Large")
	}
	if !validGenders[a.Gender] {
		errs.Add("gender", "sexo inválido: use Male ou Female")
	}

	if utf8.RuneCountInString(strings.TrimSpace(a.Description)) < 10 {
		errs.Add("description", "descrição deve ter pelo menos 10 caracteres")
	}
	if strings.TrimSpace(a.City) == "" {
		errs.Add("city", "cidade é obrigatória")
	}

	return errs.Err()
}

// ValidStatus indica se o valor é um estado conhecido.
func ValidStatus(s Status) bool {
	switch s {
	case StatusAvailable, StatusInProcess, StatusAdopted:
		return true
	}
	return false
}
