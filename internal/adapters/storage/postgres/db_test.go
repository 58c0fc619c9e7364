package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONStringArrayEscapes(t *testing.T) {
	out, err := jsonStringArray("adoção")
	require.NoError(t, err)
	assert.Equal(t, `["adoção"]`, out)

	// aspas e barras saem escapadas, nunca quebram o literal jsonb
	out, err = jsonStringArray(`ca"o`)
	require.NoError(t, err)
	assert.Equal(t, `["ca\"o"]`, out)

	out, err = jsonStringArray(`a\b`)
	require.NoError(t, err)
	assert.Equal(t, `["a\\b"]`, out)
}

func TestToJSONNilCollection(t *testing.T) {
	b, err := toJSON([]string(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))

	b, err = toJSON([]string{"x"})
	require.NoError(t, err)
	assert.Equal(t, `["x"]`, string(b))
}

func TestOffsetFor(t *testing.T) {
	assert.Equal(t, 0, offsetFor(0, 10))
	assert.Equal(t, 0, offsetFor(1, 10))
	assert.Equal(t, 10, offsetFor(2, 10))
}
