package canonical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	payload := []byte(`{
		"operator": {
			"licence": {"number": "DE-4711", "valid": true},
			"sites": [{"id": "s1"}, {"id": "s2"}]
		},
		"emissions": {"scope1": 42.5, "scope2": null}
	}`)

	v, err := ParseValue(payload)
	require.NoError(t, err)

	t.Run("resolves nested object path", func(t *testing.T) {
		got, ok := v.ResolvePath("operator.licence.number")
		require.True(t, ok)
		assert.Equal(t, KindString, got.Kind)
		assert.Equal(t, "DE-4711", got.Str)
	})

	t.Run("resolves array index segment", func(t *testing.T) {
		got, ok := v.ResolvePath("operator.sites.1.id")
		require.True(t, ok)
		assert.Equal(t, "s2", got.Str)
	})

	t.Run("missing segment is not found", func(t *testing.T) {
		_, ok := v.ResolvePath("operator.licence.issuer")
		assert.False(t, ok)
	})

	t.Run("traversing a scalar is not found", func(t *testing.T) {
		_, ok := v.ResolvePath("operator.licence.number.x")
		assert.False(t, ok)
	})

	t.Run("null resolves but is undefined", func(t *testing.T) {
		got, ok := v.ResolvePath("emissions.scope2")
		require.True(t, ok)
		assert.False(t, got.IsDefined())
	})

	t.Run("empty path is not found", func(t *testing.T) {
		_, ok := v.ResolvePath("")
		assert.False(t, ok)
	})
}
