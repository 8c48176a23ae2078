// Package queue provides the point heap used by the heap k-means variant.
package queue

// Item is a point queued under a key.
type Item struct {
	Point int     // Point is the dataset index.
	Key   float64 // Key is the priority of the item in the queue.
}

// PointQueue is a binary min-heap of points ordered by key, ties broken by
// point index. Items are stored by value.
type PointQueue struct {
	items []Item
}

// NewMin returns an empty queue with room for capacity items.
func NewMin(capacity int) *PointQueue {
	return &PointQueue{items: make([]Item, 0, capacity)}
}

// TopItem returns the item with the smallest key.
func (pq *PointQueue) TopItem() (Item, bool) {
	if len(pq.items) == 0 {
		return Item{}, false
	}
	return pq.items[0], true
}

// PushItem inserts an item while maintaining the heap invariant.
func (pq *PointQueue) PushItem(item Item) {
	pq.items = append(pq.items, item)
	pq.siftUp(len(pq.items) - 1)
}

// PopItem removes and returns the item with the smallest key.
func (pq *PointQueue) PopItem() (Item, bool) {
	n := len(pq.items)
	if n == 0 {
		return Item{}, false
	}
	root := pq.items[0]
	last := pq.items[n-1]
	pq.items = pq.items[:n-1]
	if n-1 > 0 {
		pq.items[0] = last
		pq.siftDown(0)
	}
	return root, true
}

func (pq *PointQueue) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !pq.Less(i, p) {
			return
		}
		pq.items[i], pq.items[p] = pq.items[p], pq.items[i]
		i = p
	}
}

func (pq *PointQueue) siftDown(i int) {
	n := len(pq.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		best := l
		if r := l + 1; r < n && pq.Less(r, l) {
			best = r
		}
		if !pq.Less(best, i) {
			return
		}
		pq.items[i], pq.items[best] = pq.items[best], pq.items[i]
		i = best
	}
}

// Len returns the number of items in the queue.
func (pq *PointQueue) Len() int { return len(pq.items) }

// Less reports whether the item with index i should sort before the item with index j.
func (pq *PointQueue) Less(i, j int) bool {
	a, b := pq.items[i], pq.items[j]
	if a.Key != b.Key {
		return a.Key < b.Key
	}
	return a.Point < b.Point
}
