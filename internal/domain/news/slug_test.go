package news

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Novo Lar Para Cães!", "novo-lar-para-caes"},
		{"Feira de adoção — edição de verão", "feira-de-adocao-edicao-de-verao"},
		{"  Título   com   espaços  ", "titulo-com-espacos"},
		{"under_score e---hífens", "under-score-e-hifens"},
		{"100% aprovado", "100-aprovado"},
		{"Gatos & Cachorros", "gatos-cachorros"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.title), "title=%q", tc.title)
	}
}

func TestParseTags(t *testing.T) {
	assert.Nil(t, ParseTags(nil))
	assert.Equal(t, []string{"adoção", "cães"}, ParseTags("adoção, cães"))
	assert.Equal(t, []string{"a", "b"}, ParseTags([]string{" a ", "b", "a", ""}))
	assert.Equal(t, []string{"x", "y"}, ParseTags([]any{"x", "y", "x"}))
	assert.Empty(t, ParseTags("  ,  ,  "))
}
