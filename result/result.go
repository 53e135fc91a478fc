// Package result wraps a solved color assignment for public
// consumption: counts, diagnostics, and the stable textual rendering
// format of spec.md §6.
package result

import (
	"fmt"
	"sort"
	"strings"

	"github.com/marljoos/page-coloring-implementation/model"
	"github.com/marljoos/page-coloring-implementation/solver"
)

// Assignment is the public result of a successful Solve call.
type Assignment struct {
	MapPC map[model.RegionID][]model.PageColor

	L1Count int
	L2Count int
	L3Count int

	// Diagnostics holds non-fatal findings surfaced during validation
	// (see validate.Model.Diagnostics); a successful Solve can still
	// carry these.
	Diagnostics []string
}

// FromSolution adapts the solver's internal Solution into the public
// Assignment shape.
func FromSolution(sol *solver.Solution) Assignment {
	return Assignment{
		MapPC:       sol.MapPC,
		L1Count:     sol.L1Count,
		L2Count:     sol.L2Count,
		L3Count:     sol.L3Count,
		Diagnostics: sol.Diagnostics,
	}
}

// Colors returns the page colors assigned to one region, or nil if the
// region is unknown to this assignment.
func (a Assignment) Colors(id model.RegionID) []model.PageColor {
	return a.MapPC[id]
}

// Render produces the stable textual rendering required by spec.md §6:
// one line per region, regions sorted by rendered name, and each
// region's colors sorted canonically, in the form
//
//	region_name -> {(l1=a@p, l2=b@p, l3=c), ...}
func (a Assignment) Render() string {
	ids := make([]model.RegionID, 0, len(a.MapPC))
	for id := range a.MapPC {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })

	var b strings.Builder
	for _, id := range ids {
		colors := append([]model.PageColor(nil), a.MapPC[id]...)
		sort.Slice(colors, func(i, j int) bool { return colors[i].Less(colors[j]) })

		fmt.Fprintf(&b, "%s -> {", id.String())
		for i, pc := range colors {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "(l1=%d@%d, l2=%d@%d, l3=%d)",
				pc.L1.ID, pc.L1.CPU, pc.L2.ID, pc.L2.CPU, pc.L3.ID)
		}
		b.WriteString("}\n")
	}
	return b.String()
}

// String makes Assignment directly usable with %v and friends.
func (a Assignment) String() string {
	return a.Render()
}
