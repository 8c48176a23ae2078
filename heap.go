package fastkmeans

import (
	"context"
	"math"

	"github.com/hupe1980/fastkmeans/internal/queue"
)

// Heap implements Hamerly and Drake's heap k-means. Every point sits in the
// min-heap of its assigned center keyed by the margin between its second
// nearest and nearest center, offset by the center's heap bound at insertion.
// A center's heap bound grows each iteration by how far the bounds could have
// eroded; only points whose key falls below it need another look.
type Heap struct {
	base

	// heaps[w][c] holds the points of worker w's range assigned to center c.
	heaps      [][]*queue.PointQueue
	heapBounds []float64
}

// NewHeap creates a heap-based variant.
func NewHeap(opts ...Option) *Heap {
	return &Heap{base: newBase("heap", opts)}
}

// Initialize implements Algorithm.
func (alg *Heap) Initialize(ds *Dataset, k int, a *Assignment) error {
	return alg.initialize(ds, k, a, func() {
		alg.heapBounds = make([]float64, k)
		alg.heaps = make([][]*queue.PointQueue, len(alg.ranges))
		for w, r := range alg.ranges {
			alg.heaps[w] = make([]*queue.PointQueue, k)
			for c := range alg.heaps[w] {
				alg.heaps[w][c] = queue.NewMin(0)
			}
			// Every point starts below the bound so the first iteration
			// examines all of them.
			h := alg.heaps[w][0]
			for i := r.lo; i < r.hi; i++ {
				h.PushItem(queue.Item{Point: i, Key: -1})
			}
		}
	})
}

// Run implements Algorithm.
func (alg *Heap) Run(maxIterations int) (int, error) {
	return alg.RunContext(context.Background(), maxIterations)
}

// RunContext implements Algorithm.
func (alg *Heap) RunContext(ctx context.Context, maxIterations int) (int, error) {
	return alg.run(ctx, maxIterations, alg)
}

func (alg *Heap) prepare() {}

func (alg *Heap) assignRange(w int, _ pointRange) {
	heaps := alg.heaps[w]
	for h := 0; h < alg.k; h++ {
		pq := heaps[h]
		for {
			top, ok := pq.TopItem()
			if !ok || alg.heapBounds[h] <= top.Key {
				break
			}
			pq.PopItem()

			i := top.Point
			closest, u2, _, l2 := alg.scan(w, i, -1)
			if alg.labels[i] != closest {
				alg.reassign(w, i, closest)
			}
			margin := math.Sqrt(l2) - math.Sqrt(u2)
			heaps[closest].PushItem(queue.Item{Point: i, Key: alg.heapBounds[closest] + margin})
		}
	}
}

func (alg *Heap) updateBounds() {
	furthest, longest, second := alg.centers.furthestMoving()
	for j := range alg.heapBounds {
		alg.heapBounds[j] += alg.centers.movement[j]
		if j == furthest {
			alg.heapBounds[j] += second
		} else {
			alg.heapBounds[j] += longest
		}
	}
}
