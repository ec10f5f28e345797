package compression

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripAllAlgorithms(t *testing.T) {
	original := bytes.Repeat([]byte("segment payload payload payload "), 64)

	for _, alg := range []Algorithm{None, Snappy, S2, LZ4, Zstd} {
		t.Run(string(alg), func(t *testing.T) {
			comp, err := NewCompressor(&Config{Algorithm: alg, Level: Default})
			require.NoError(t, err)
			assert.Equal(t, alg, comp.Algorithm())

			compressed, err := comp.Compress(original)
			require.NoError(t, err)

			decompressed, err := comp.Decompress(compressed)
			require.NoError(t, err)
			assert.Equal(t, original, decompressed)

			if alg != None && len(compressed) >= len(original) {
				t.Logf("warning: %s compressed size %d not smaller than %d",
					alg, len(compressed), len(original))
			}
		})
	}
}

func TestLZ4Levels(t *testing.T) {
	data := bytes.Repeat([]byte("level test data "), 256)

	for _, level := range []Level{Fastest, Default, Best} {
		comp, err := NewCompressor(&Config{Algorithm: LZ4, Level: level})
		require.NoError(t, err)

		compressed, err := comp.Compress(data)
		require.NoError(t, err)

		decompressed, err := comp.Decompress(compressed)
		require.NoError(t, err)
		assert.Equal(t, data, decompressed)
	}
}

func TestNilConfigDefaultsToLZ4(t *testing.T) {
	comp, err := NewCompressor(nil)
	require.NoError(t, err)
	assert.Equal(t, LZ4, comp.Algorithm())
}

func TestUnknownAlgorithm(t *testing.T) {
	_, err := NewCompressor(&Config{Algorithm: "brotli"})
	assert.Error(t, err)
}

func TestEmptyInput(t *testing.T) {
	for _, alg := range []Algorithm{Snappy, S2, LZ4, Zstd} {
		comp, err := NewCompressor(&Config{Algorithm: alg})
		require.NoError(t, err)

		compressed, err := comp.Compress(nil)
		require.NoError(t, err)

		decompressed, err := comp.Decompress(compressed)
		require.NoError(t, err)
		assert.Empty(t, decompressed)
	}
}
