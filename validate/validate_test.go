package validate

import (
	"testing"

	"github.com/marljoos/page-coloring-implementation/model"
	"github.com/marljoos/page-coloring-implementation/pcerr"
)

func minimalInput() Input {
	return Input{
		Kernels:               []string{"k"},
		CPUs:                  []model.CPUID{1},
		ExCPU:                 map[string][]model.CPUID{"k": {1}},
		CacheIsolationDomains: []model.DomainID{"1"},
		MRCacheIsolation: []RegionIsolation{
			{Region: model.NewExecutorRegionID(model.RegionKernel, "k"), Domain: "1"},
		},
		CacheConfig: model.CacheConfig{NL1: 1, NL2: 1, NL3: 1},
	}
}

func TestValidateMinimalSucceeds(t *testing.T) {
	m, err := Validate(minimalInput())
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(m.Regions) != 1 {
		t.Fatalf("len(Regions) = %d, want 1", len(m.Regions))
	}
	if len(m.Domains) != 1 || m.Domains[0] != "1" {
		t.Fatalf("Domains = %v, want [1]", m.Domains)
	}
}

func TestValidateMissingExecutorCPU(t *testing.T) {
	in := minimalInput()
	delete(in.ExCPU, "k")

	_, err := Validate(in)
	assertInputKind(t, err, pcerr.MissingExecutorCPU)
}

func TestValidateUnusedCPU(t *testing.T) {
	in := minimalInput()
	in.CPUs = append(in.CPUs, 2)

	_, err := Validate(in)
	assertInputKind(t, err, pcerr.UnusedCPU)
}

func TestValidateMissingIsolationDomain(t *testing.T) {
	in := minimalInput()
	in.MRCacheIsolation = nil

	_, err := Validate(in)
	assertInputKind(t, err, pcerr.MissingIsolationDomain)
}

func TestValidateNonFunctionalIsolation(t *testing.T) {
	in := minimalInput()
	in.MRCacheIsolation = append(in.MRCacheIsolation, RegionIsolation{
		Region: model.NewExecutorRegionID(model.RegionKernel, "k"),
		Domain: "2",
	})
	in.CacheIsolationDomains = append(in.CacheIsolationDomains, "2")

	_, err := Validate(in)
	assertInputKind(t, err, pcerr.NonFunctionalIsolation)
}

func TestValidateEmptyIsolationDomain(t *testing.T) {
	in := minimalInput()
	in.CacheIsolationDomains = append(in.CacheIsolationDomains, "ghost")

	_, err := Validate(in)
	assertInputKind(t, err, pcerr.EmptyIsolationDomain)
}

func TestValidateDuplicateEntityID(t *testing.T) {
	in := minimalInput()
	in.Subjects = []string{"k"}
	in.ExCPU["k"] = []model.CPUID{1}

	_, err := Validate(in)
	assertInputKind(t, err, pcerr.DuplicateEntityId)
}

func TestValidateChannelUnionsCPUs(t *testing.T) {
	in := Input{
		Subjects: []string{"a", "b"},
		Channels: []model.Channel{{From: "a", To: "b"}},
		CPUs:     []model.CPUID{1, 2},
		ExCPU: map[string][]model.CPUID{
			"a": {1},
			"b": {2},
		},
		CacheIsolationDomains: []model.DomainID{"1"},
		MRCacheIsolation: []RegionIsolation{
			{Region: model.NewExecutorRegionID(model.RegionSubject, "a"), Domain: "1"},
			{Region: model.NewExecutorRegionID(model.RegionSubject, "b"), Domain: "1"},
			{Region: model.NewChannelRegionID("a", "b"), Domain: "1"},
		},
		CacheConfig: model.CacheConfig{NL1: 1, NL2: 1, NL3: 1},
	}

	m, err := Validate(in)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	ch := m.RegionsByID[model.NewChannelRegionID("a", "b")]
	if ch == nil {
		t.Fatalf("channel region not found")
	}
	if len(ch.CPUs) != 2 {
		t.Fatalf("channel CPUs = %v, want both cpus", ch.CPUs)
	}
}

func TestValidateDiagnosesChannelIsolationMismatch(t *testing.T) {
	in := Input{
		Subjects: []string{"a", "b"},
		Channels: []model.Channel{{From: "a", To: "b"}},
		CPUs:     []model.CPUID{1},
		ExCPU: map[string][]model.CPUID{
			"a": {1},
			"b": {1},
		},
		CacheIsolationDomains: []model.DomainID{"1", "2"},
		MRCacheIsolation: []RegionIsolation{
			{Region: model.NewExecutorRegionID(model.RegionSubject, "a"), Domain: "1"},
			{Region: model.NewExecutorRegionID(model.RegionSubject, "b"), Domain: "1"},
			{Region: model.NewChannelRegionID("a", "b"), Domain: "2"},
		},
		CacheConfig: model.CacheConfig{NL1: 1, NL2: 2, NL3: 2},
	}

	m, err := Validate(in)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(m.Diagnostics) != 1 {
		t.Fatalf("Diagnostics = %v, want exactly one entry", m.Diagnostics)
	}
}

func assertInputKind(t *testing.T, err error, want pcerr.InputErrorKind) {
	t.Helper()
	se, ok := err.(*pcerr.SolveError)
	if !ok {
		t.Fatalf("error = %v (%T), want *pcerr.SolveError", err, err)
	}
	if se.Kind != pcerr.KindInputValidation {
		t.Fatalf("Kind = %v, want KindInputValidation", se.Kind)
	}
	if se.InputKind != want {
		t.Fatalf("InputKind = %v, want %v", se.InputKind, want)
	}
}
