package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	cases := [][]byte{
		nil,
		[]byte(""),
		[]byte("hello"),
		bytes.Repeat([]byte("x"), 1<<16),
		{0x00, 0xff, 0x10, 0x00},
	}

	for _, c := range cases {
		z, err := Compress(c)
		require.NoError(t, err)

		got, err := Decompress(z)
		require.NoError(t, err)
		assert.Equal(t, string(c), string(got))
	}
}

func TestDecompressEmptyIsEmpty(t *testing.T) {
	t.Parallel()

	got, err := Decompress(nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = Decompress([]byte{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecompressRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := Decompress([]byte("not a gzip stream"))
	assert.Error(t, err)
}
