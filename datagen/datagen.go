// Package datagen generates synthetic Gaussian-cluster datasets.
//
// K centers are drawn from a standard normal distribution in D dimensions;
// each of the N points picks a center uniformly at random and adds Gaussian
// noise with standard deviation Spread to every coordinate.
package datagen

import (
	"fmt"
	"math/rand/v2"

	"github.com/hupe1980/fastkmeans"
	"gonum.org/v1/gonum/stat/distuv"
)

// Config describes a synthetic dataset.
type Config struct {
	N      int
	D      int
	K      int
	Spread float64
	Seed   uint64
}

// Result is a generated dataset with its ground truth.
type Result struct {
	Dataset *fastkmeans.Dataset
	// Centers are the generating centers, K rows of D values.
	Centers [][]float64
	// Labels[i] is the generating center of point i.
	Labels []int
}

// Generate draws a dataset according to cfg. The same Config always yields
// the same points.
func Generate(cfg Config) (*Result, error) {
	if cfg.N < 1 || cfg.D < 1 || cfg.K < 1 {
		return nil, fmt.Errorf("%w: n, d and k must be positive (got %d, %d, %d)", fastkmeans.ErrInvalidArgument, cfg.N, cfg.D, cfg.K)
	}
	if cfg.Spread < 0 {
		return nil, fmt.Errorf("%w: spread %g must not be negative", fastkmeans.ErrInvalidArgument, cfg.Spread)
	}

	src := rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)
	rng := rand.New(src)
	unit := distuv.Normal{Mu: 0, Sigma: 1, Src: src}

	centers := make([][]float64, cfg.K)
	for c := range centers {
		centers[c] = make([]float64, cfg.D)
		for j := range centers[c] {
			centers[c][j] = unit.Rand()
		}
	}

	ds, err := fastkmeans.NewDataset(cfg.N, cfg.D)
	if err != nil {
		return nil, err
	}
	labels := make([]int, cfg.N)
	for i := range labels {
		c := rng.IntN(cfg.K)
		labels[i] = c
		for j, mu := range centers[c] {
			v := mu
			if cfg.Spread > 0 {
				v += unit.Rand() * cfg.Spread
			}
			if err := ds.Set(i, j, v); err != nil {
				return nil, err
			}
		}
	}
	return &Result{Dataset: ds, Centers: centers, Labels: labels}, nil
}
