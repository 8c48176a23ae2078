package codec

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForFile(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"blobs.txt", "none"},
		{"blobs", "none"},
		{"blobs.txt.gz", "gzip"},
		{"blobs.txt.GZ", "gzip"},
		{"data/blobs.txt.zst", "zstd"},
		{"blobs.lz4", "lz4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ForFile(tt.name).Name())
		})
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"none", "gzip", "zstd", "lz4"} {
		c, ok := ByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, c.Name())
	}
	_, ok := ByName("brotli")
	assert.False(t, ok)
}

func TestCompressionStreams(t *testing.T) {
	payload := bytes.Repeat([]byte("3 2\n 1.000 -2.500\n"), 200)

	for _, c := range compressions {
		t.Run(c.Name(), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := c.NewWriter(&buf)
			require.NoError(t, err)
			_, err = w.Write(payload)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			r, err := c.NewReader(&buf)
			require.NoError(t, err)
			got, err := io.ReadAll(r)
			require.NoError(t, err)
			require.NoError(t, r.Close())
			assert.Equal(t, payload, got)
		})
	}
}

func TestJSON(t *testing.T) {
	type row struct {
		Algorithm string `json:"algorithm"`
		Iters     int    `json:"iterations"`
	}
	data := MustMarshal(nil, row{Algorithm: "elkan", Iters: 7})

	var got row
	require.NoError(t, JSON{}.Unmarshal(data, &got))
	assert.Equal(t, row{Algorithm: "elkan", Iters: 7}, got)
}
