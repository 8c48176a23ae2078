package fastkmeans

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/hupe1980/fastkmeans/blobstore"
	"github.com/hupe1980/fastkmeans/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDataset(t *testing.T) {
	in := "3 2\n 1.000 -2.500\n3e2\t4\n\n  5 6.25\n"
	ds, err := ReadDataset(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 3, ds.N())
	assert.Equal(t, 2, ds.D())

	want := [][]float64{{1, -2.5}, {300, 4}, {5, 6.25}}
	for i, row := range want {
		p, err := ds.Point(i)
		require.NoError(t, err)
		assert.Equal(t, row, p)
	}
}

func TestReadDatasetErrors(t *testing.T) {
	for name, in := range map[string]string{
		"empty":     "",
		"no dim":    "3",
		"bad n":     "x 2\n",
		"zero n":    "0 2\n",
		"truncated": "2 2\n1 2\n3\n",
		"bad value": "1 2\n1 abc\n",
		"overflow":  "3037000500 3037000500\n1 2\n",
		"huge":      "1000000 1000000\n1 2\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ReadDataset(strings.NewReader(in))
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestWriteDataset(t *testing.T) {
	ds, err := NewDatasetFromRows([][]float64{{1, -2.5}, {0.12345, 10}})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteDataset(&buf, ds))
	assert.Equal(t, "2 2\n 1.000 -2.500\n 0.123  10.000\n", buf.String())

	back, err := ReadDataset(&buf)
	require.NoError(t, err)
	p, err := back.Point(1)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.123, 10}, p)
}

func TestLoadAndSaveDataset(t *testing.T) {
	rng := testutil.NewRNG(31)
	ds, err := NewDatasetFromRows(rng.UniformRows(40, 3))
	require.NoError(t, err)

	var want bytes.Buffer
	require.NoError(t, WriteDataset(&want, ds))

	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	for _, name := range []string{"plain.txt", "data.txt.gz", "data.txt.zst", "data.txt.lz4", "UPPER.TXT.GZ"} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, SaveDataset(ctx, store, name, ds))

			loaded, err := LoadDataset(ctx, store, name)
			require.NoError(t, err)

			var got bytes.Buffer
			require.NoError(t, WriteDataset(&got, loaded))
			assert.Equal(t, want.String(), got.String())
		})
	}

	raw, err := store.Open(ctx, "plain.txt")
	require.NoError(t, err)
	defer raw.Close()
	plain, err := ReadDataset(raw)
	require.NoError(t, err)
	assert.Equal(t, ds.N(), plain.N())
}

func TestLoadDatasetErrors(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	_, err := LoadDataset(ctx, store, "missing.txt")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
	assert.Contains(t, err.Error(), "missing.txt")

	require.NoError(t, store.Put(ctx, "bad.txt.gz", []byte("not gzip")))
	_, err = LoadDataset(ctx, store, "bad.txt.gz")
	assert.Error(t, err)

	require.NoError(t, store.Put(ctx, "short.txt", []byte("2 2\n1 2\n")))
	_, err = LoadDataset(ctx, store, "short.txt")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Contains(t, err.Error(), "short.txt")
}
