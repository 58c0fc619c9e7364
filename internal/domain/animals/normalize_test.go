package animals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestNormalizeEnumAliases(t *testing.T) {
	cases := []struct {
		in      string
		aliases EnumAliases
		want    string
	}{
		{"cachorro", SpeciesAliases, "Dog"},
		{"Cão", SpeciesAliases, "Dog"},
		{"CACHORRO", SpeciesAliases, "Dog"},
		{"  gato  ", SpeciesAliases, "Cat"},
		{"Felino", SpeciesAliases, "Cat"},
		{"outro", SpeciesAliases, "Other"},
		{"dog", SpeciesAliases, "Dog"},
		{"Dog", SpeciesAliases, "Dog"},

		{"filhote", AgeAliases, "Puppy"},
		{"Idoso", AgeAliases, "Senior"},
		{"JOVEM", AgeAliases, "Young"},

		{"pequeno", SizeAliases, "Small"},
		{"Médio", SizeAliases, "Medium"},
		{"medio", SizeAliases, "Medium"},
		{"G", SizeAliases, "Large"},

		{"macho", GenderAliases, "Male"},
		{"Fêmea", GenderAliases, "Female"},
		{"femea", GenderAliases, "Female"},
	}

	for _, tc := range cases {
		got := NormalizeEnum(strPtr(tc.in), tc.aliases)
		if assert.NotNil(t, got, "input %q", tc.in) {
			assert.Equal(t, tc.want, *got, "input %q", tc.in)
		}
	}
}

func TestNormalizeEnumPassThrough(t *testing.T) {
	// Valor sem correspondência volta inalterado; rejeitar é papel da validação.
	got := NormalizeEnum(strPtr("dinossauro"), SpeciesAliases)
	if assert.NotNil(t, got) {
		assert.Equal(t, "dinossauro", *got)
	}
}

func TestNormalizeEnumNil(t *testing.T) {
	assert.Nil(t, NormalizeEnum(nil, SpeciesAliases))
}

func TestCoerceBool(t *testing.T) {
	cases := []struct {
		in   any
		want bool
	}{
		{true, true},
		{false, false},
		{"true", true},
		{"TRUE", true},
		{"Yes", true},
		{"on", true},
		{"1", true},
		{"sim", true},
		{"SIM", true},
		{float64(1), true}, // número JSON
		{"0", false},
		{"false", false},
		{"não", false},
		{"", false},
		{nil, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CoerceBool(tc.in), "input %v", tc.in)
	}
}

func TestCoerceBoolPtr(t *testing.T) {
	assert.Nil(t, CoerceBoolPtr(nil))

	p := CoerceBoolPtr("sim")
	if assert.NotNil(t, p) {
		assert.True(t, *p)
	}

	p = CoerceBoolPtr("0")
	if assert.NotNil(t, p) {
		assert.False(t, *p)
	}
}
