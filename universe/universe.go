// Package universe builds the valid PageColor universe from a cache
// configuration and CPU set: the Cartesian product of L1, L2 and L3
// colors, constrained so the L1 and L2 components of a PageColor agree
// on CPU. Construction follows the same nested-loop Cartesian-product
// style the ASP source uses (itertools.product(l1_cache_ids,
// cpu_cores) etc.), transliterated to Go.
package universe

import (
	"sort"

	"github.com/marljoos/page-coloring-implementation/model"
)

// Universe holds the materialized color spaces for one hardware
// configuration.
type Universe struct {
	CPUs   []model.CPUID
	Config model.CacheConfig

	L1All []model.CacheColor
	L2All []model.CacheColor
	L3All []model.CacheColor
	PCAll []model.PageColor
}

// Build materializes L1_all, L2_all, L3_all and PC_all for the given
// cache configuration and CPU set.
func Build(cfg model.CacheConfig, cpus []model.CPUID) Universe {
	sorted := model.SortCPUs(cpus)

	u := Universe{CPUs: sorted, Config: cfg}

	for _, p := range sorted {
		for a := uint32(1); a <= cfg.NL1; a++ {
			u.L1All = append(u.L1All, model.CacheColor{Level: model.LevelL1, ID: a, CPU: p})
		}
	}
	for _, p := range sorted {
		for b := uint32(1); b <= cfg.NL2; b++ {
			u.L2All = append(u.L2All, model.CacheColor{Level: model.LevelL2, ID: b, CPU: p})
		}
	}
	for c := uint32(1); c <= cfg.NL3; c++ {
		u.L3All = append(u.L3All, model.CacheColor{Level: model.LevelL3, ID: c})
	}

	for _, p := range sorted {
		for a := uint32(1); a <= cfg.NL1; a++ {
			for b := uint32(1); b <= cfg.NL2; b++ {
				for c := uint32(1); c <= cfg.NL3; c++ {
					u.PCAll = append(u.PCAll, model.PageColor{
						L1: model.CacheColor{Level: model.LevelL1, ID: a, CPU: p},
						L2: model.CacheColor{Level: model.LevelL2, ID: b, CPU: p},
						L3: model.CacheColor{Level: model.LevelL3, ID: c},
					})
				}
			}
		}
	}

	sort.Slice(u.PCAll, func(i, j int) bool { return u.PCAll[i].Less(u.PCAll[j]) })

	return u
}

// Size returns the cardinality of PC_all: N_L1 * N_L2 * N_L3 * |CPUs|.
func (u Universe) Size() int {
	return len(u.PCAll)
}
