// Package validate checks totality/functionality of the raw input
// records and derives mr_cpu, following §4.1. The grouping/validation
// style is grounded on cpuallocator/topology.go's BuildTopologyFromPQoS,
// which groups cores into domains and must likewise guarantee every
// core ends up in exactly one group.
package validate

import (
	"sort"
	"strconv"

	"github.com/marljoos/page-coloring-implementation/model"
	"github.com/marljoos/page-coloring-implementation/pcerr"
	"github.com/marljoos/page-coloring-implementation/pclog"
)

// RegionIsolation is one entry of the mr_cache_isolation relation. It
// is modeled as a slice of pairs (rather than a map) so that
// NonFunctionalIsolation (the same region appearing twice with
// different domains) can be detected instead of silently overwritten.
type RegionIsolation struct {
	Region model.RegionID
	Domain model.DomainID
}

// Input is the raw, unvalidated record set consumed by the core, per
// spec.md §6.
type Input struct {
	Kernels  []string
	Subjects []string
	Channels []model.Channel

	CPUs []model.CPUID

	// ExCPU maps an executor name to its non-empty CPU set.
	ExCPU map[string][]model.CPUID

	CacheIsolationDomains []model.DomainID
	MRCacheIsolation      []RegionIsolation

	CacheConfig model.CacheConfig
}

// Model is the validated, derived model the solver operates on.
type Model struct {
	Regions       []model.MemoryRegion // sorted by RegionID.String()
	RegionsByID   map[model.RegionID]*model.MemoryRegion
	Domains       []model.DomainID // sorted, only domains with >=1 member
	DomainMembers map[model.DomainID][]model.RegionID
	CPUs          []model.CPUID
	CacheConfig   model.CacheConfig

	// Diagnostics holds non-fatal findings, e.g. a channel region
	// whose explicit isolation domain disagrees with the common
	// domain of its endpoints (spec.md §9).
	Diagnostics []string
}

// Validate checks totality of ex_cpu, verifies CPU coverage, derives
// mr_cpu for executors and channels, and verifies mr_cache_isolation is
// total and functional. It returns a *pcerr.SolveError on the first
// failure encountered, using the deterministic check order below so
// that error reporting is itself reproducible.
func Validate(in Input) (*Model, error) {
	if err := checkDuplicateEntities(in); err != nil {
		return nil, err
	}

	executorNames := append(append([]string{}, in.Kernels...), in.Subjects...)
	sort.Strings(executorNames)

	if err := checkExecutorCPUTotality(in, executorNames); err != nil {
		return nil, err
	}
	if err := checkCPUCoverage(in); err != nil {
		return nil, err
	}

	regions := deriveRegions(in)

	byID := make(map[model.RegionID]*model.MemoryRegion, len(regions))
	for i := range regions {
		byID[regions[i].ID] = &regions[i]
	}

	if err := applyIsolation(in, byID); err != nil {
		return nil, err
	}

	domainMembers := make(map[model.DomainID][]model.RegionID)
	for i := range regions {
		d := regions[i].Domain
		domainMembers[d] = append(domainMembers[d], regions[i].ID)
	}

	if err := checkEmptyDomains(in, domainMembers); err != nil {
		return nil, err
	}

	domains := make([]model.DomainID, 0, len(domainMembers))
	for d := range domainMembers {
		domains = append(domains, d)
	}
	sort.Slice(domains, func(i, j int) bool { return domains[i] < domains[j] })
	for _, members := range domainMembers {
		sort.Slice(members, func(i, j int) bool { return members[i].String() < members[j].String() })
	}

	sort.Slice(regions, func(i, j int) bool { return regions[i].ID.String() < regions[j].ID.String() })
	// byID points into the original slice backing array; rebuild
	// after the sort so pointers stay valid.
	byID = make(map[model.RegionID]*model.MemoryRegion, len(regions))
	for i := range regions {
		byID[regions[i].ID] = &regions[i]
	}

	m := &Model{
		Regions:       regions,
		RegionsByID:   byID,
		Domains:       domains,
		DomainMembers: domainMembers,
		CPUs:          model.SortCPUs(in.CPUs),
		CacheConfig:   in.CacheConfig,
	}

	m.Diagnostics = interferenceDiagnostics(in, m)
	for _, d := range m.Diagnostics {
		pclog.Warnf("%s", d)
	}

	return m, nil
}

func checkDuplicateEntities(in Input) error {
	seen := make(map[string]bool, len(in.Kernels)+len(in.Subjects))
	for _, k := range in.Kernels {
		if seen[k] {
			return pcerr.NewInputValidation(pcerr.DuplicateEntityId, k)
		}
		seen[k] = true
	}
	for _, s := range in.Subjects {
		if seen[s] {
			return pcerr.NewInputValidation(pcerr.DuplicateEntityId, s)
		}
		seen[s] = true
	}
	return nil
}

func checkExecutorCPUTotality(in Input, executorNames []string) error {
	for _, name := range executorNames {
		cpus, ok := in.ExCPU[name]
		if !ok || len(cpus) == 0 {
			return pcerr.NewInputValidation(pcerr.MissingExecutorCPU, name)
		}
	}
	return nil
}

func checkCPUCoverage(in Input) error {
	covered := make(map[model.CPUID]bool, len(in.CPUs))
	for _, cpus := range in.ExCPU {
		for _, c := range cpus {
			covered[c] = true
		}
	}
	cpus := model.SortCPUs(in.CPUs)
	for _, c := range cpus {
		if !covered[c] {
			return pcerr.NewInputValidation(pcerr.UnusedCPU, cpuName(c))
		}
	}
	return nil
}

func deriveRegions(in Input) []model.MemoryRegion {
	var regions []model.MemoryRegion

	for _, k := range in.Kernels {
		regions = append(regions, model.MemoryRegion{
			ID:   model.NewExecutorRegionID(model.RegionKernel, k),
			CPUs: model.SortCPUs(in.ExCPU[k]),
		})
	}
	for _, s := range in.Subjects {
		regions = append(regions, model.MemoryRegion{
			ID:   model.NewExecutorRegionID(model.RegionSubject, s),
			CPUs: model.SortCPUs(in.ExCPU[s]),
		})
	}
	for _, ch := range in.Channels {
		regions = append(regions, model.MemoryRegion{
			ID:   model.NewChannelRegionID(ch.From, ch.To),
			CPUs: model.UnionCPUs(in.ExCPU[ch.From], in.ExCPU[ch.To]),
		})
	}

	return regions
}

func applyIsolation(in Input, byID map[model.RegionID]*model.MemoryRegion) error {
	assigned := make(map[model.RegionID]model.DomainID, len(byID))

	for _, entry := range in.MRCacheIsolation {
		if prev, ok := assigned[entry.Region]; ok && prev != entry.Domain {
			return pcerr.NewInputValidation(pcerr.NonFunctionalIsolation, entry.Region.String())
		}
		assigned[entry.Region] = entry.Domain
	}

	ids := make([]model.RegionID, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })

	for _, id := range ids {
		domain, ok := assigned[id]
		if !ok {
			return pcerr.NewInputValidation(pcerr.MissingIsolationDomain, id.String())
		}
		byID[id].Domain = domain
	}

	return nil
}

func checkEmptyDomains(in Input, domainMembers map[model.DomainID][]model.RegionID) error {
	for _, d := range in.CacheIsolationDomains {
		if len(domainMembers[d]) == 0 {
			return pcerr.NewInputValidation(pcerr.EmptyIsolationDomain, string(d))
		}
	}
	return nil
}

// interferenceDiagnostics implements spec.md §9's non-fatal warning:
// a channel region's explicit isolation domain disagreeing with the
// common domain of its two endpoints is surfaced, never rejected.
func interferenceDiagnostics(in Input, m *Model) []string {
	var diagnostics []string

	domainOf := make(map[string]model.DomainID)
	for id, region := range m.RegionsByID {
		if id.Kind != model.RegionChannel {
			domainOf[id.Name] = region.Domain
		}
	}

	for _, ch := range in.Channels {
		chID := model.NewChannelRegionID(ch.From, ch.To)
		chRegion, ok := m.RegionsByID[chID]
		if !ok {
			continue
		}
		fromDomain, fromOK := domainOf[ch.From]
		toDomain, toOK := domainOf[ch.To]
		if !fromOK || !toOK {
			continue
		}
		if fromDomain != toDomain {
			// Endpoints disagree themselves; no single "common
			// domain" exists to compare against.
			continue
		}
		if chRegion.Domain != fromDomain {
			diagnostics = append(diagnostics, "channel "+chID.String()+
				" isolation domain "+string(chRegion.Domain)+
				" differs from its endpoints' common domain "+string(fromDomain))
		}
	}

	sort.Strings(diagnostics)
	return diagnostics
}

func cpuName(c model.CPUID) string {
	return "cpu_" + strconv.Itoa(int(c))
}
