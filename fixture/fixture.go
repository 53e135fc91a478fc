// Package fixture builds the canonical test scenarios (S1-S6) used
// throughout the test suite, plus randomized scenario generation for
// property tests. Scenario identifiers use satori/go.uuid so that
// generated scenarios can be told apart in test logs without the core
// itself depending on a UUID library — grounded on google-gvisor's use
// of the same package for synthetic identifiers in its own test data.
package fixture

import (
	"math/rand"

	uuid "github.com/satori/go.uuid"

	"github.com/marljoos/page-coloring-implementation/model"
	"github.com/marljoos/page-coloring-implementation/validate"
)

// Scenario names one of the canonical fixtures for use in table tests.
type Scenario struct {
	Name  string
	ID    uuid.UUID
	Input validate.Input
}

func named(name string, in validate.Input) Scenario {
	return Scenario{Name: name, ID: uuid.NewV4(), Input: in}
}

func iso(pairs ...interface{}) []validate.RegionIsolation {
	var out []validate.RegionIsolation
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, validate.RegionIsolation{
			Region: pairs[i].(model.RegionID),
			Domain: pairs[i+1].(model.DomainID),
		})
	}
	return out
}

func kernelID(name string) model.RegionID  { return model.NewExecutorRegionID(model.RegionKernel, name) }
func subjectID(name string) model.RegionID { return model.NewExecutorRegionID(model.RegionSubject, name) }
func channelID(from, to string) model.RegionID {
	return model.NewChannelRegionID(from, to)
}

// Minimal builds S1: one kernel, one CPU, one color everywhere.
func Minimal() Scenario {
	return named("S1-minimal-feasible", validate.Input{
		Kernels: []string{"k"},
		CPUs:    []model.CPUID{1},
		ExCPU:   map[string][]model.CPUID{"k": {1}},
		CacheIsolationDomains: []model.DomainID{"1"},
		MRCacheIsolation:      iso(kernelID("k"), model.DomainID("1")),
		CacheConfig:           model.CacheConfig{NL1: 1, NL2: 1, NL3: 1},
	})
}

// TwoIsolatedSubjects builds S2: two subjects on one CPU, mutually
// isolated, with a larger color budget.
func TwoIsolatedSubjects() Scenario {
	return named("S2-two-isolated-subjects", validate.Input{
		Subjects: []string{"s1", "s2"},
		CPUs:     []model.CPUID{1},
		ExCPU: map[string][]model.CPUID{
			"s1": {1},
			"s2": {1},
		},
		CacheIsolationDomains: []model.DomainID{"1", "2"},
		MRCacheIsolation: iso(
			subjectID("s1"), model.DomainID("1"),
			subjectID("s2"), model.DomainID("2"),
		),
		CacheConfig: model.CacheConfig{NL1: 2, NL2: 4, NL3: 8},
	})
}

// ChannelInheritsCPUs builds S3: a channel region whose CPU set is the
// union of its two endpoints, spanning two CPUs.
func ChannelInheritsCPUs() Scenario {
	return named("S3-channel-inherits-cpus", validate.Input{
		Subjects: []string{"a", "b"},
		Channels: []model.Channel{{From: "a", To: "b"}},
		CPUs:     []model.CPUID{1, 2},
		ExCPU: map[string][]model.CPUID{
			"a": {1},
			"b": {2},
		},
		CacheIsolationDomains: []model.DomainID{"1"},
		MRCacheIsolation: iso(
			subjectID("a"), model.DomainID("1"),
			subjectID("b"), model.DomainID("1"),
			channelID("a", "b"), model.DomainID("1"),
		),
		CacheConfig: model.CacheConfig{NL1: 2, NL2: 2, NL3: 4},
	})
}

// UnsatL3 builds S4: three mutually isolated subjects sharing one CPU
// with only two L3 colors available.
func UnsatL3() Scenario {
	return named("S4-unsatisfiable-l3", validate.Input{
		Subjects: []string{"s1", "s2", "s3"},
		CPUs:     []model.CPUID{1},
		ExCPU: map[string][]model.CPUID{
			"s1": {1},
			"s2": {1},
			"s3": {1},
		},
		CacheIsolationDomains: []model.DomainID{"1", "2", "3"},
		MRCacheIsolation: iso(
			subjectID("s1"), model.DomainID("1"),
			subjectID("s2"), model.DomainID("2"),
			subjectID("s3"), model.DomainID("3"),
		),
		CacheConfig: model.CacheConfig{NL1: 1, NL2: 4, NL3: 2},
	})
}

// UnsatL2 builds S5: five mutually isolated subjects pinned to one CPU
// with only four L2 colors but enough L3 colors.
func UnsatL2() Scenario {
	subjects := []string{"s1", "s2", "s3", "s4", "s5"}
	exCPU := map[string][]model.CPUID{}
	domains := []model.DomainID{}
	var isolation []validate.RegionIsolation
	for i, s := range subjects {
		exCPU[s] = []model.CPUID{1}
		d := model.DomainID(string(rune('1' + i)))
		domains = append(domains, d)
		isolation = append(isolation, validate.RegionIsolation{Region: subjectID(s), Domain: d})
	}
	return named("S5-unsatisfiable-l2", validate.Input{
		Subjects:              subjects,
		CPUs:                  []model.CPUID{1},
		ExCPU:                 exCPU,
		CacheIsolationDomains: domains,
		MRCacheIsolation:      isolation,
		CacheConfig:           model.CacheConfig{NL1: 1, NL2: 4, NL3: 5},
	})
}

// OptimizerSpreads builds S6: a single subject alone on one CPU, so the
// optimizer should spread it across every available color.
func OptimizerSpreads() Scenario {
	return named("S6-optimizer-spreads", validate.Input{
		Subjects:              []string{"s"},
		CPUs:                  []model.CPUID{1},
		ExCPU:                 map[string][]model.CPUID{"s": {1}},
		CacheIsolationDomains: []model.DomainID{"1"},
		MRCacheIsolation:      iso(subjectID("s"), model.DomainID("1")),
		CacheConfig:           model.CacheConfig{NL1: 2, NL2: 4, NL3: 8},
	})
}

// All returns the six canonical scenarios in spec order.
func All() []Scenario {
	return []Scenario{
		Minimal(),
		TwoIsolatedSubjects(),
		ChannelInheritsCPUs(),
		UnsatL3(),
		UnsatL2(),
		OptimizerSpreads(),
	}
}

// Random builds a feasible randomized scenario for property testing:
// nSubjects mutually isolated subjects spread across nCPUs CPUs, using
// rng for all placement decisions so callers get reproducible corpora
// from a seeded *rand.Rand. The first nCPUs subjects take one CPU each,
// so every CPU is used whenever nSubjects >= nCPUs.
func Random(rng *rand.Rand, nSubjects, nCPUs int, cfg model.CacheConfig) Scenario {
	cpus := make([]model.CPUID, nCPUs)
	for i := range cpus {
		cpus[i] = model.CPUID(i + 1)
	}

	subjects := make([]string, nSubjects)
	exCPU := map[string][]model.CPUID{}
	domains := make([]model.DomainID, nSubjects)
	var isolation []validate.RegionIsolation

	for i := 0; i < nSubjects; i++ {
		name := uuid.NewV4().String()[:8]
		subjects[i] = name
		cpu := cpus[rng.Intn(len(cpus))]
		if i < len(cpus) {
			cpu = cpus[i]
		}
		exCPU[name] = []model.CPUID{cpu}
		d := model.DomainID(uuid.NewV4().String()[:8])
		domains[i] = d
		isolation = append(isolation, validate.RegionIsolation{Region: subjectID(name), Domain: d})
	}

	return named("random", validate.Input{
		Subjects:              subjects,
		CPUs:                  cpus,
		ExCPU:                 exCPU,
		CacheIsolationDomains: domains,
		MRCacheIsolation:      isolation,
		CacheConfig:           cfg,
	})
}
