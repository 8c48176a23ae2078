package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointQueue(t *testing.T) {
	pq := NewMin(4)

	_, ok := pq.TopItem()
	assert.False(t, ok)

	pq.PushItem(Item{Point: 3, Key: 2.5})
	pq.PushItem(Item{Point: 1, Key: -1})
	pq.PushItem(Item{Point: 7, Key: 0.5})
	pq.PushItem(Item{Point: 0, Key: 0.5})
	require.Equal(t, 4, pq.Len())

	top, ok := pq.TopItem()
	require.True(t, ok)
	assert.Equal(t, Item{Point: 1, Key: -1}, top)

	var got []int
	for pq.Len() > 0 {
		item, ok := pq.PopItem()
		require.True(t, ok)
		got = append(got, item.Point)
	}
	assert.Equal(t, []int{1, 0, 7, 3}, got)

	_, ok = pq.PopItem()
	assert.False(t, ok)
}
