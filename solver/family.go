// Family construction and L1 spreading (§4.3 steps 3-4). For each
// isolation domain and CPU, one representative region — the first in
// canonical order present at that CPU — is given the full (a,b,c)
// cartesian product available to its domain at that CPU, which is
// sufficient to realize every color the L3/L2 partition allocated to
// the domain (R5's distinct-color counts are union-over-regions, so
// one region realizing them is as good as spreading them out). Every
// other region just gets the single cheapest PageColor that satisfies
// R1 coverage for each of its CPUs.
package solver

import (
	"context"
	"sort"

	"github.com/marljoos/page-coloring-implementation/model"
	"github.com/marljoos/page-coloring-implementation/universe"
	"github.com/marljoos/page-coloring-implementation/validate"
)

type domainCPU struct {
	domain model.DomainID
	cpu    model.CPUID
}

func buildFamilies(
	ctx context.Context,
	m *validate.Model,
	u universe.Universe,
	l3 colorPartition,
	l2ByCPU map[model.CPUID]colorPartition,
	opts Options,
) (*Solution, error) {
	representative := chooseRepresentatives(m)

	mapPC := make(map[model.RegionID][]model.PageColor, len(m.Regions))
	usedL1 := map[model.CacheColor]bool{}
	usedL2 := map[model.CacheColor]bool{}
	usedL3 := map[uint32]bool{}

	for _, region := range m.Regions {
		if err := checkCancelled(ctx); err != nil {
			return nil, err
		}

		var family []model.PageColor
		for _, cpu := range region.CPUs {
			l3ids := l3.IDs[region.Domain]
			l2ids := l2ByCPU[cpu].IDs[region.Domain]
			if len(l3ids) == 0 || len(l2ids) == 0 {
				continue
			}

			if representative[domainCPU{region.Domain, cpu}] == region.ID {
				family = append(family, spreadAt(cpu, u.Config.NL1, l2ids, l3ids)...)
			} else {
				family = append(family, model.PageColor{
					L1: model.CacheColor{Level: model.LevelL1, ID: 1, CPU: cpu},
					L2: model.CacheColor{Level: model.LevelL2, ID: l2ids[0], CPU: cpu},
					L3: model.CacheColor{Level: model.LevelL3, ID: l3ids[0]},
				})
			}
		}

		if minimum := familyMinimum(region, u.Size()); minimum > len(family) {
			family = padFamily(region, family, l3, l2ByCPU, u, minimum, opts.Budget)
		}

		family = dedupeAndSort(family)
		mapPC[region.ID] = family

		for _, pc := range family {
			usedL1[pc.L1] = true
			usedL2[pc.L2] = true
			usedL3[pc.L3.ID] = true
		}
	}

	return &Solution{
		MapPC:   mapPC,
		L1Count: len(usedL1),
		L2Count: len(usedL2),
		L3Count: len(usedL3),
	}, nil
}

// chooseRepresentatives picks, for every (domain, cpu) pair that
// actually occurs, the first region in canonical order present at
// that CPU. m.Regions is already sorted canonically by Validate.
func chooseRepresentatives(m *validate.Model) map[domainCPU]model.RegionID {
	representative := make(map[domainCPU]model.RegionID)
	for _, region := range m.Regions {
		for _, cpu := range region.CPUs {
			key := domainCPU{region.Domain, cpu}
			if _, ok := representative[key]; !ok {
				representative[key] = region.ID
			}
		}
	}
	return representative
}

// spreadAt returns every (a,b,c) PageColor combination available at
// one CPU for a domain's allocated L2/L3 ids, maximizing the distinct
// L1/L2/L3 counts R5 rewards.
func spreadAt(cpu model.CPUID, nl1 uint32, l2ids, l3ids []uint32) []model.PageColor {
	var out []model.PageColor
	for a := uint32(1); a <= nl1; a++ {
		for _, b := range l2ids {
			for _, c := range l3ids {
				out = append(out, model.PageColor{
					L1: model.CacheColor{Level: model.LevelL1, ID: a, CPU: cpu},
					L2: model.CacheColor{Level: model.LevelL2, ID: b, CPU: cpu},
					L3: model.CacheColor{Level: model.LevelL3, ID: c},
				})
			}
		}
	}
	return out
}

// padFamily adds more PageColors, drawn from the region's own CPUs'
// available domain-allocated ids, until `minimum` is reached or the
// available combinations (or the iteration Budget) are exhausted.
// Because candidates are drawn from the same domain-allocated pools
// already used for R1/R2 coverage, padding can never violate R3/R4.
func padFamily(
	region model.MemoryRegion,
	family []model.PageColor,
	l3 colorPartition,
	l2ByCPU map[model.CPUID]colorPartition,
	u universe.Universe,
	minimum int,
	budget int,
) []model.PageColor {
	have := map[model.PageColor]bool{}
	for _, pc := range family {
		have[pc] = true
	}

	iterations := 0
	for _, cpu := range region.CPUs {
		l3ids := l3.IDs[region.Domain]
		l2ids := l2ByCPU[cpu].IDs[region.Domain]
		for a := uint32(1); a <= u.Config.NL1; a++ {
			for _, b := range l2ids {
				for _, c := range l3ids {
					if len(family) >= minimum {
						return family
					}
					if budget > 0 && iterations >= budget {
						return family
					}
					pc := model.PageColor{
						L1: model.CacheColor{Level: model.LevelL1, ID: a, CPU: cpu},
						L2: model.CacheColor{Level: model.LevelL2, ID: b, CPU: cpu},
						L3: model.CacheColor{Level: model.LevelL3, ID: c},
					}
					iterations++
					if have[pc] {
						continue
					}
					have[pc] = true
					family = append(family, pc)
				}
			}
		}
	}
	return family
}

func dedupeAndSort(colors []model.PageColor) []model.PageColor {
	seen := make(map[model.PageColor]bool, len(colors))
	out := make([]model.PageColor, 0, len(colors))
	for _, c := range colors {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
