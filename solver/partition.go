// Partitioning of a shared color pool among isolation domains.
//
// The technique is adapted from rdtmanager.go's CLOS/way-mask
// accounting: computeWayMask finds a contiguous run of free bits in a
// uint64 bitmask using bits.OnesCount64/scanning, and markWays/unmarkWays
// record per-owner bit ownership. Here the "ways" are L3 or L2 color
// ids and the "owner" is a cache isolation domain rather than a
// container UUID. Unlike the teacher we don't need to protect a
// reserved CLOS-0 region, so blocks are packed from the low end of the
// mask rather than the high end — the only deliberate deviation from
// the source technique, kept for canonical (ascending-id) output
// ordering.
package solver

import (
	"errors"
	"math/bits"
	"sort"

	"github.com/marljoos/page-coloring-implementation/model"
)

// errCapacity is returned internally when a color pool cannot fit the
// requested demand. Callers in solver.go check capacity themselves
// (where they have the domain list and CPU needed to build a proper
// *pcerr.SolveError) before calling partitionColors, so this should
// never actually surface; it exists as a defensive fallback.
var errCapacity = errors.New("color pool exhausted")

// domainWeight is one domain's demand for a color pool: how many
// regions (for L3) or how many regions present on one CPU (for L2)
// belong to it. Larger weight means more regions that could make use
// of extra colors, so larger weight gets first pick of any leftover
// colors once every domain has its fair share.
type domainWeight struct {
	Domain model.DomainID
	Weight int
}

// colorPartition is the result of partitioning a pool of `total`
// colors (1..total) across a set of domains: every domain with >=1
// member gets a disjoint, non-empty subset, and as many colors as
// possible are put to use (ids[d] contiguous blocks summing to
// min(total, demand-satisfying allocation); with total >= len(weights)
// every color is used).
type colorPartition struct {
	IDs map[model.DomainID][]uint32
}

// Used returns the sorted set of distinct color ids used by any
// domain in the partition.
func (p colorPartition) Used() []uint32 {
	seen := map[uint32]bool{}
	for _, ids := range p.IDs {
		for _, id := range ids {
			seen[id] = true
		}
	}
	out := make([]uint32, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// partitionColors assigns disjoint, non-empty color-id subsets of
// 1..total to each of weights' domains, using every color that can be
// used (size decided by the largest-remainder method, weight first,
// domain id as the canonical tie-break per spec.md §4.3's
// determinism rule) and packing ids into contiguous per-domain blocks
// via a bitmask allocator grounded on rdtmanager.computeWayMask.
//
// Returns errCapacity if len(weights) > total — the caller turns this
// into an UnsatL3/UnsatL2 SolveError.
func partitionColors(total uint32, weights []domainWeight) (colorPartition, error) {
	if len(weights) == 0 {
		return colorPartition{IDs: map[model.DomainID][]uint32{}}, nil
	}
	if uint32(len(weights)) > total {
		return colorPartition{}, errCapacity
	}

	sizes := allocateSizes(total, weights)

	domainsAscending := make([]model.DomainID, len(weights))
	for i, w := range weights {
		domainsAscending[i] = w.Domain
	}
	sort.Slice(domainsAscending, func(i, j int) bool { return domainsAscending[i] < domainsAscending[j] })

	var used uint64
	ids := make(map[model.DomainID][]uint32, len(weights))
	for _, d := range domainsAscending {
		block, err := allocateBlock(&used, total, uint32(sizes[d]))
		if err != nil {
			// Unreachable: sizes never exceed total by construction.
			return colorPartition{}, err
		}
		ids[d] = block
	}

	return colorPartition{IDs: ids}, nil
}

// allocateSizes implements the largest-remainder method: every domain
// gets floor(total/n) colors, and the `total mod n` leftover colors go
// to the domains with the largest weight first, breaking ties by
// domain id ascending (the canonical order).
func allocateSizes(total uint32, weights []domainWeight) map[model.DomainID]int {
	n := uint32(len(weights))
	base := int(total / n)
	remainder := int(total % n)

	sizes := make(map[model.DomainID]int, len(weights))
	for _, w := range weights {
		sizes[w.Domain] = base
	}

	ordered := make([]domainWeight, len(weights))
	copy(ordered, weights)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Weight != ordered[j].Weight {
			return ordered[i].Weight > ordered[j].Weight
		}
		return ordered[i].Domain < ordered[j].Domain
	})
	for i := 0; i < remainder; i++ {
		sizes[ordered[i].Domain]++
	}

	return sizes
}

// allocateBlock finds n free bits in `used` (a bitmask over colors
// 1..total, bit i-1 representing color id i) and marks them used,
// preferring a contiguous run from the low end so that ids come out
// as a tidy ascending block; when fragmentation prevents a contiguous
// run it falls back to any n free bits, mirroring the rationale (not
// the direction) of computeWayMask's contiguous-block search.
func allocateBlock(used *uint64, total uint32, n uint32) ([]uint32, error) {
	if n == 0 {
		return nil, nil
	}

	full := uint64(1)<<total - 1
	free := full &^ *used
	if uint32(bits.OnesCount64(free)) < n {
		return nil, errCapacity
	}

	run := uint32(0)
	start := -1
	for i := 0; i < int(total); i++ {
		if free&(1<<uint(i)) != 0 {
			run++
			if run >= n {
				start = i - int(n) + 1
				break
			}
		} else {
			run = 0
		}
	}

	var mask uint64
	var ids []uint32
	if start >= 0 {
		for i := start; i < start+int(n); i++ {
			mask |= 1 << uint(i)
			ids = append(ids, uint32(i)+1)
		}
	} else {
		for i := 0; i < int(total) && uint32(len(ids)) < n; i++ {
			if free&(1<<uint(i)) != 0 {
				mask |= 1 << uint(i)
				ids = append(ids, uint32(i)+1)
			}
		}
	}

	*used |= mask
	return ids, nil
}
