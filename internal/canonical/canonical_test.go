package canonical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal_FieldOrderIndependence(t *testing.T) {
	a := map[string]any{
		"scope":   "site",
		"tags":    []string{"cbam", "installation"},
		"details": map[string]any{"country": "DE", "capacity": 120},
	}
	b := map[string]any{
		"details": map[string]any{"capacity": 120, "country": "DE"},
		"tags":    []string{"cbam", "installation"},
		"scope":   "site",
	}

	bytesA, err := Marshal(a)
	require.NoError(t, err)
	bytesB, err := Marshal(b)
	require.NoError(t, err)

	assert.Equal(t, bytesA, bytesB, "semantically identical records must serialize identically")
	assert.Equal(t, Sum(bytesA), Sum(bytesB))
}

func TestMarshal_SortsKeysRecursively(t *testing.T) {
	out, err := Marshal(map[string]any{
		"b": map[string]any{"z": 1, "a": 2},
		"a": "x",
	})
	require.NoError(t, err)
	assert.Equal(t, `{"a":"x","b":{"a":2,"z":1}}`, string(out))
}

func TestMarshal_PreservesNumberRepresentation(t *testing.T) {
	out, err := Marshal(map[string]any{"v": 10.5})
	require.NoError(t, err)
	assert.Equal(t, `{"v":10.5}`, string(out))
}

func TestMarshal_ArrayOrderSignificant(t *testing.T) {
	a, err := Marshal([]string{"x", "y"})
	require.NoError(t, err)
	b, err := Marshal([]string{"y", "x"})
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "array order is semantic and must not be normalized")
}

func TestMarshal_RejectsNonSerializable(t *testing.T) {
	_, err := Marshal(map[string]any{"ch": make(chan int)})
	require.Error(t, err)
}

func TestTreeRoot(t *testing.T) {
	d1 := Sum([]byte("invoice.pdf"))
	d2 := Sum([]byte("certificate.pdf"))
	d3 := Sum([]byte("lab-report.pdf"))

	t.Run("single leaf is its own root", func(t *testing.T) {
		root, err := TreeRoot([]Digest{d1})
		require.NoError(t, err)
		assert.Equal(t, d1, root)
	})

	t.Run("root independent of leaf order", func(t *testing.T) {
		rootA, err := TreeRoot([]Digest{d1, d2, d3})
		require.NoError(t, err)
		rootB, err := TreeRoot([]Digest{d3, d1, d2})
		require.NoError(t, err)
		assert.Equal(t, rootA, rootB)
	})

	t.Run("root differs when a leaf differs", func(t *testing.T) {
		rootA, err := TreeRoot([]Digest{d1, d2})
		require.NoError(t, err)
		rootB, err := TreeRoot([]Digest{d1, d3})
		require.NoError(t, err)
		assert.NotEqual(t, rootA, rootB)
	})

	t.Run("no leaves is an error", func(t *testing.T) {
		_, err := TreeRoot(nil)
		require.Error(t, err)
	})
}

func TestParseDigest_RoundTrip(t *testing.T) {
	d := Sum([]byte("payload"))
	parsed, err := ParseDigest(d.String())
	require.NoError(t, err)
	assert.Equal(t, d, parsed)

	_, err = ParseDigest("abc")
	require.Error(t, err)
}
