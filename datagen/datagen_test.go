package datagen

import (
	"bytes"
	"testing"

	"github.com/hupe1980/fastkmeans"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	res, err := Generate(Config{N: 200, D: 3, K: 4, Spread: 0.01, Seed: 42})
	require.NoError(t, err)

	ds := res.Dataset
	assert.Equal(t, 200, ds.N())
	assert.Equal(t, 3, ds.D())
	assert.Len(t, res.Centers, 4)
	assert.Len(t, res.Labels, 200)

	for i, c := range res.Labels {
		p, err := ds.Point(i)
		require.NoError(t, err)
		for j := range p {
			assert.InDelta(t, res.Centers[c][j], p[j], 0.1)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := Config{N: 50, D: 2, K: 3, Spread: 0.5, Seed: 7}
	a, err := Generate(cfg)
	require.NoError(t, err)
	b, err := Generate(cfg)
	require.NoError(t, err)

	assert.Equal(t, a.Labels, b.Labels)
	assert.Equal(t, a.Centers, b.Centers)
	assert.Equal(t, text(t, a.Dataset), text(t, b.Dataset))

	cfg.Seed = 8
	c, err := Generate(cfg)
	require.NoError(t, err)
	assert.NotEqual(t, text(t, a.Dataset), text(t, c.Dataset))
}

func text(t *testing.T, ds *fastkmeans.Dataset) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, fastkmeans.WriteDataset(&buf, ds))
	return buf.String()
}

func TestGenerateInvalid(t *testing.T) {
	_, err := Generate(Config{N: 0, D: 2, K: 1})
	assert.ErrorIs(t, err, fastkmeans.ErrInvalidArgument)

	_, err = Generate(Config{N: 5, D: 2, K: 1, Spread: -1})
	assert.ErrorIs(t, err, fastkmeans.ErrInvalidArgument)
}
