// Package solver implements the constraint solver and lexicographic
// optimizer of §4.3/§4.4: it decomposes the problem into an L3
// partition across isolation domains, an L2 partition per CPU, and an
// unconstrained L1 spread, then builds the page-color families. The
// decomposition mirrors topoallocator.AllocateRT's
// "sort candidates, greedily hand out the scarce resource" shape, and
// the per-level bitmask bookkeeping is grounded on rdtmanager.go (see
// partition.go).
package solver

import (
	"context"
	"math"
	"sort"

	"github.com/marljoos/page-coloring-implementation/model"
	"github.com/marljoos/page-coloring-implementation/pcerr"
	"github.com/marljoos/page-coloring-implementation/pclog"
	"github.com/marljoos/page-coloring-implementation/universe"
	"github.com/marljoos/page-coloring-implementation/validate"
)

// Options tunes the solver without changing its semantics (see
// SPEC_FULL.md §9).
type Options struct {
	// MaxL3IterDeterministic is not read: the solver is always
	// deterministic (there is no randomized search) whatever its
	// value. It is kept as a field for parity with the
	// teacher's habit of carrying forward-compatible knobs (compare
	// pqos.Config.Verbose).
	MaxL3IterDeterministic bool

	// Budget caps the number of family-construction iterations the
	// optimizer spends padding a region's color family toward its
	// SizeBytes-derived minimum (see familyMinimum). Zero means
	// unbounded.
	Budget int
}

// Solution is the solver's internal result before result.Assignment
// wraps it for the public API.
type Solution struct {
	MapPC       map[model.RegionID][]model.PageColor
	L1Count     int
	L2Count     int
	L3Count     int
	Diagnostics []string
}

// Solve runs the partition → spread → build pipeline for an
// already-validated model and color universe. Degenerate
// inputs (zero regions or zero CPUs) return an empty solution, per
// §4.3's "Degenerate" failure mode (which, per spec.md, is not an
// error: "emit empty result").
func Solve(ctx context.Context, m *validate.Model, u universe.Universe, opts Options) (*Solution, error) {
	if len(m.Regions) == 0 || len(m.CPUs) == 0 {
		return &Solution{MapPC: map[model.RegionID][]model.PageColor{}}, nil
	}

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	l3, err := solveL3(m, u.Config.NL3)
	if err != nil {
		return nil, err
	}

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	l2ByCPU, err := solveL2(ctx, m, u.Config.NL2)
	if err != nil {
		return nil, err
	}

	sol, err := buildFamilies(ctx, m, u, l3, l2ByCPU, opts)
	if err != nil {
		return nil, err
	}
	sol.Diagnostics = m.Diagnostics

	return sol, nil
}

func checkCancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return pcerr.ErrCancelled
	default:
		return nil
	}
}

// solveL3 partitions 1..N_L3 across the domains that have at least one
// region, weighted by domain size (region count), per §4.3 step 1.
func solveL3(m *validate.Model, nl3 uint32) (colorPartition, error) {
	weights := make([]domainWeight, 0, len(m.Domains))
	for _, d := range m.Domains {
		weights = append(weights, domainWeight{Domain: d, Weight: len(m.DomainMembers[d])})
	}

	if uint32(len(weights)) > nl3 {
		return colorPartition{}, pcerr.NewUnsatL3(m.Domains, int(nl3))
	}

	pclog.Debugf("solving L3 partition: %d domains, %d colors", len(weights), nl3)
	return partitionColors(nl3, weights)
}

// solveL2 partitions 1..N_L2 independently on every CPU, restricted to
// the domains that have at least one region present on that CPU, per
// §4.3 step 2.
func solveL2(ctx context.Context, m *validate.Model, nl2 uint32) (map[model.CPUID]colorPartition, error) {
	result := make(map[model.CPUID]colorPartition, len(m.CPUs))

	for _, cpu := range m.CPUs {
		if err := checkCancelled(ctx); err != nil {
			return nil, err
		}

		weightByDomain := map[model.DomainID]int{}
		for _, region := range m.Regions {
			if containsCPU(region.CPUs, cpu) {
				weightByDomain[region.Domain]++
			}
		}
		if len(weightByDomain) == 0 {
			result[cpu] = colorPartition{IDs: map[model.DomainID][]uint32{}}
			continue
		}

		domains := make([]model.DomainID, 0, len(weightByDomain))
		weights := make([]domainWeight, 0, len(weightByDomain))
		for d, w := range weightByDomain {
			domains = append(domains, d)
			weights = append(weights, domainWeight{Domain: d, Weight: w})
		}
		sort.Slice(domains, func(i, j int) bool { return domains[i] < domains[j] })

		if uint32(len(weights)) > nl2 {
			return nil, pcerr.NewUnsatL2(cpu, domains, int(nl2))
		}

		pclog.Debugf("solving L2 partition on cpu %d: %d domains, %d colors", cpu, len(weights), nl2)
		part, err := partitionColors(nl2, weights)
		if err != nil {
			return nil, pcerr.NewUnsatL2(cpu, domains, int(nl2))
		}
		result[cpu] = part
	}

	return result, nil
}

func containsCPU(cpus []model.CPUID, target model.CPUID) bool {
	for _, c := range cpus {
		if c == target {
			return true
		}
	}
	return false
}

// defaultPageSize is the page size (bytes) used to interpret
// MemoryRegion.SizeBytes when computing familyMinimum, matching the
// original page-coloring prototype's PAGE_SIZE constant.
const defaultPageSize = 4096

// familyMinimum computes the optional SPEC_FULL.md §12 lower bound on
// a region's page-color family size: ceil(SizeBytes / (PageSize *
// |PC_all|)). The caller clamps this to the number of (a,b,c)
// combinations actually available to the region's domain, so it can
// only ever ask for more of what is already feasible, never create
// new infeasibility.
func familyMinimum(region model.MemoryRegion, universeSize int) int {
	if region.SizeBytes == 0 || universeSize == 0 {
		return 0
	}
	denominator := float64(defaultPageSize) * float64(universeSize)
	return int(math.Ceil(float64(region.SizeBytes) / denominator))
}
