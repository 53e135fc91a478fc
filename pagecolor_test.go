package pagecolor

import (
	"context"
	"strings"
	"testing"

	uuid "github.com/satori/go.uuid"

	"github.com/marljoos/page-coloring-implementation/fixture"
	"github.com/marljoos/page-coloring-implementation/pcerr"
)

func TestSolveMinimalEndToEnd(t *testing.T) {
	a, err := Solve(context.Background(), fixture.Minimal().Input, Options{})
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	rendered := a.Render()
	if !strings.Contains(rendered, "k -> {(l1=1@1, l2=1@1, l3=1)}") {
		t.Fatalf("Render() = %q, want it to contain the single k assignment", rendered)
	}
}

func TestSolvePropagatesUnsatL3(t *testing.T) {
	_, err := Solve(context.Background(), fixture.UnsatL3().Input, Options{})
	se, ok := err.(*pcerr.SolveError)
	if !ok || se.Kind != pcerr.KindUnsatL3 {
		t.Fatalf("error = %v, want KindUnsatL3", err)
	}
}

type scenarioError struct {
	id  uuid.UUID
	err error
}

func TestSolveConcurrentInvocationsAreIndependent(t *testing.T) {
	scenarios := fixture.All()
	results := make(chan scenarioError, len(scenarios))

	for _, s := range scenarios {
		s := s
		go func() {
			_, err := Solve(context.Background(), s.Input, Options{})
			if err != nil {
				if _, ok := err.(*pcerr.SolveError); !ok {
					results <- scenarioError{id: s.ID, err: err}
					return
				}
			}
			results <- scenarioError{id: s.ID}
		}()
	}

	for range scenarios {
		if r := <-results; r.err != nil {
			t.Errorf("concurrent Solve() for scenario %s returned non-SolveError: %v", r.id, r.err)
		}
	}
}
