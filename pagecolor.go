// Package pagecolor is the public entry point of the cache-aware
// page-coloring assignment core: Solve runs validation, builds the
// color universe, and runs the constraint solver and lexicographic
// optimizer, returning a rendered Assignment or a typed SolveError.
package pagecolor

import (
	"context"

	"github.com/marljoos/page-coloring-implementation/pcerr"
	"github.com/marljoos/page-coloring-implementation/result"
	"github.com/marljoos/page-coloring-implementation/solver"
	"github.com/marljoos/page-coloring-implementation/universe"
	"github.com/marljoos/page-coloring-implementation/validate"
)

// Input is the raw, unvalidated configuration Solve accepts.
type Input = validate.Input

// Options tunes the optimizer without changing its semantics.
type Options = solver.Options

// Assignment is a solved, renderable page-color map.
type Assignment = result.Assignment

// SolveError is the single error type Solve can return.
type SolveError = pcerr.SolveError

// Solve validates in, builds the color universe for its CacheConfig
// and CPUs, and runs the solver, returning a renderable Assignment.
// ctx is checked cooperatively at each major decomposition stage; a
// cancelled context yields a SolveError with Kind == KindCancelled.
func Solve(ctx context.Context, in Input, opts Options) (Assignment, error) {
	model, err := validate.Validate(in)
	if err != nil {
		return Assignment{}, err
	}

	u := universe.Build(model.CacheConfig, model.CPUs)

	sol, err := solver.Solve(ctx, model, u, opts)
	if err != nil {
		return Assignment{}, err
	}

	return result.FromSolution(sol), nil
}
