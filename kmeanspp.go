package fastkmeans

import (
	"math"
	"math/rand"
	"sort"

	"github.com/hupe1980/fastkmeans/distance"
)

// KMeansPlusPlus seeds k centers with the kmeans++ procedure using a random
// source seeded with seed, so equal seeds give equal centers.
func KMeansPlusPlus(ds *Dataset, k int, seed int64) (*Centers, error) {
	return KMeansPlusPlusRand(ds, k, rand.New(rand.NewSource(seed)))
}

// KMeansPlusPlusRand seeds k centers with the kmeans++ procedure drawing from rng.
//
// The first center is a uniformly random point. Every further center is a
// point sampled with probability proportional to its squared distance to the
// nearest center chosen so far. Chosen point indices are distinct; duplicate
// points in the dataset may still yield coincident centers.
func KMeansPlusPlusRand(ds *Dataset, k int, rng *rand.Rand) (*Centers, error) {
	if err := checkK(ds, k); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, invalidArgument("random source is required")
	}

	n := ds.n
	chosen := make([]int, 0, k)
	taken := make([]bool, n)
	dist2 := make([]float64, n)
	cum := make([]float64, n)
	for i := range dist2 {
		dist2[i] = math.MaxFloat64
	}

	next := rng.Intn(n)
	for {
		chosen = append(chosen, next)
		taken[next] = true
		if len(chosen) == k {
			break
		}

		last := ds.row(next)
		total := 0.0
		for i := 0; i < n; i++ {
			if d2 := distance.SquaredL2(ds.row(i), last); d2 < dist2[i] {
				dist2[i] = d2
			}
			if taken[i] {
				dist2[i] = 0
			}
			total += dist2[i]
			cum[i] = total
		}

		if total > 0 {
			next = rouletteSelect(cum, total*rng.Float64())
		} else {
			// every remaining point coincides with a chosen center
			next = randomUntaken(rng, taken, n-len(chosen))
		}
	}

	c := newCenters(k, ds.d)
	for j, i := range chosen {
		copy(c.row(j), ds.row(i))
	}
	return c, nil
}

// rouletteSelect returns the first index whose cumulative weight exceeds r.
// Zero-weight entries can never be selected.
func rouletteSelect(cum []float64, r float64) int {
	idx := sort.Search(len(cum), func(i int) bool { return cum[i] > r })
	if idx == len(cum) {
		// r rounded up to the total; fall back to the last weighted entry
		idx = len(cum) - 1
		for idx > 0 && cum[idx] == cum[idx-1] {
			idx--
		}
	}
	return idx
}

func randomUntaken(rng *rand.Rand, taken []bool, remaining int) int {
	skip := rng.Intn(remaining)
	for i, t := range taken {
		if t {
			continue
		}
		if skip == 0 {
			return i
		}
		skip--
	}
	return -1
}

// RandomCenters picks k distinct dataset points uniformly at random as the
// initial centers.
func RandomCenters(ds *Dataset, k int, seed int64) (*Centers, error) {
	if err := checkK(ds, k); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(ds.n)
	c := newCenters(k, ds.d)
	for j := 0; j < k; j++ {
		copy(c.row(j), ds.row(perm[j]))
	}
	return c, nil
}

func checkK(ds *Dataset, k int) error {
	if ds == nil {
		return invalidArgument("dataset is required")
	}
	if k < 1 || k > ds.n {
		return invalidArgument("k=%d must be in [1, %d]", k, ds.n)
	}
	return nil
}
