package driver

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/fastkmeans"
)

// Plan is the YAML form of a benchmark session:
//
//	threads: 4
//	max_iterations: -1
//	repeats: 3
//	runs:
//	  - dataset: birch.txt.gz
//	    center: true
//	    k: [10, 100]
//	    init: kpp
//	    seeds: [1, 2]
//	    algorithms: [naive, hamerly, elkan, "drake 8", adaptive]
//
// Every run expands to the cross product of its k values and seeds; each
// algorithm is measured from the same initial assignment.
type Plan struct {
	Threads       int       `yaml:"threads"`
	MaxIterations int       `yaml:"max_iterations"`
	Repeats       int       `yaml:"repeats"`
	Runs          []PlanRun `yaml:"runs"`
}

// PlanRun is one dataset of a Plan.
type PlanRun struct {
	Dataset    string   `yaml:"dataset"`
	Center     bool     `yaml:"center"`
	K          []int    `yaml:"k"`
	Init       string   `yaml:"init"`
	Seeds      []int64  `yaml:"seeds"`
	Algorithms []string `yaml:"algorithms"`
}

// LoadPlan decodes and validates a YAML plan. Unknown fields are rejected.
func LoadPlan(r io.Reader) (*Plan, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var p Plan
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: decode plan: %v", fastkmeans.ErrInvalidArgument, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks that every run names a dataset, at least one k and at
// least one algorithm.
func (p *Plan) Validate() error {
	if len(p.Runs) == 0 {
		return fmt.Errorf("%w: plan has no runs", fastkmeans.ErrInvalidArgument)
	}
	for i, r := range p.Runs {
		switch {
		case r.Dataset == "":
			return fmt.Errorf("%w: run %d: dataset is required", fastkmeans.ErrInvalidArgument, i)
		case len(r.K) == 0:
			return fmt.Errorf("%w: run %d: k is required", fastkmeans.ErrInvalidArgument, i)
		case len(r.Algorithms) == 0:
			return fmt.Errorf("%w: run %d: algorithms are required", fastkmeans.ErrInvalidArgument, i)
		}
	}
	return nil
}

// Commands expands the plan into script commands.
func (p *Plan) Commands() [][]string {
	var cmds [][]string
	if p.Threads > 0 {
		cmds = append(cmds, []string{"threads", strconv.Itoa(p.Threads)})
	}
	if p.MaxIterations != 0 {
		cmds = append(cmds, []string{"maxiterations", strconv.Itoa(p.MaxIterations)})
	}
	if p.Repeats > 0 {
		cmds = append(cmds, []string{"repeats", strconv.Itoa(p.Repeats)})
	}

	for _, r := range p.Runs {
		cmds = append(cmds, []string{"dataset", r.Dataset})
		if r.Center {
			cmds = append(cmds, []string{"center"})
		}
		init := r.Init
		if init == "" {
			init = "kpp"
		}
		seeds := r.Seeds
		if len(seeds) == 0 {
			seeds = []int64{0}
		}
		for _, k := range r.K {
			for _, seed := range seeds {
				cmds = append(cmds,
					[]string{"seed", strconv.FormatInt(seed, 10)},
					[]string{"init", strconv.Itoa(k), init},
				)
				for _, alg := range r.Algorithms {
					cmds = append(cmds, strings.Fields(alg))
				}
			}
		}
	}
	return cmds
}

// RunPlan executes the plan. Unlike RunScript it stops at the first failing
// command.
func (s *Session) RunPlan(ctx context.Context, p *Plan) error {
	if err := p.Validate(); err != nil {
		return err
	}
	for _, cmd := range p.Commands() {
		if len(cmd) == 0 {
			return fmt.Errorf("%w: empty algorithm entry", fastkmeans.ErrInvalidArgument)
		}
		if err := s.Exec(ctx, cmd[0], cmd[1:]...); err != nil {
			return fmt.Errorf("%s: %w", strings.Join(cmd, " "), err)
		}
	}
	return nil
}
