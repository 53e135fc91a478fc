// Package pcerr defines the SolveError taxonomy of the page-coloring
// core. It follows the teacher's AllocationStatus/AllocationResult
// pattern (cpuallocator.topoallocator.go): a small status enum with a
// String method, plus a result/error struct that carries typed payload
// fields rather than a bare string, so a caller can locate the
// offending configuration element programmatically.
package pcerr

import (
	"fmt"
	"sort"

	"github.com/marljoos/page-coloring-implementation/model"
)

// Kind discriminates the SolveError variants.
type Kind int

const (
	// KindInputValidation wraps one of the InputErrorKind failures.
	KindInputValidation Kind = iota
	// KindUnsatL3 means the isolation-domain graph demands more
	// disjoint L3 colors than are available.
	KindUnsatL3
	// KindUnsatL2 means some CPU's isolation-domains-on-that-CPU
	// exceed the number of available L2 colors.
	KindUnsatL2
	// KindCancelled means cooperative cancellation was observed.
	KindCancelled
)

// String returns a human-readable name for the error kind.
func (k Kind) String() string {
	switch k {
	case KindInputValidation:
		return "InputValidation"
	case KindUnsatL3:
		return "UnsatL3"
	case KindUnsatL2:
		return "UnsatL2"
	case KindCancelled:
		return "Cancelled"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// InputErrorKind enumerates the §4.1 validation failure kinds.
type InputErrorKind int

const (
	// MissingExecutorCPU: some executor has no CPU assignment.
	MissingExecutorCPU InputErrorKind = iota
	// UnusedCPU: some CPU has no executor pinned to it.
	UnusedCPU
	// MissingIsolationDomain: some region not in mr_cache_isolation.
	MissingIsolationDomain
	// NonFunctionalIsolation: some region mapped to more than one
	// isolation domain.
	NonFunctionalIsolation
	// EmptyIsolationDomain: a declared isolation domain has no
	// members.
	EmptyIsolationDomain
	// DuplicateEntityId: a name is used for more than one of
	// {kernel, subject, channel-region}.
	DuplicateEntityId
)

// String returns a human-readable name for the input error kind.
func (k InputErrorKind) String() string {
	switch k {
	case MissingExecutorCPU:
		return "MissingExecutorCPU"
	case UnusedCPU:
		return "UnusedCPU"
	case MissingIsolationDomain:
		return "MissingIsolationDomain"
	case NonFunctionalIsolation:
		return "NonFunctionalIsolation"
	case EmptyIsolationDomain:
		return "EmptyIsolationDomain"
	case DuplicateEntityId:
		return "DuplicateEntityId"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// SolveError is the single error type returned by Solve. It carries
// enough context (names, ids) for an operator to locate the offending
// configuration element without reading solver internals.
type SolveError struct {
	Kind Kind

	// InputKind is set when Kind == KindInputValidation.
	InputKind InputErrorKind
	// Subject names the offending executor, region or domain for
	// input-validation failures.
	Subject string

	// Domains is set when Kind == KindUnsatL3 (or, for
	// KindUnsatL2, the domains present on CPU below).
	Domains []model.DomainID
	// CPU is set when Kind == KindUnsatL2.
	CPU model.CPUID
	// Count is the number of colors available at the relevant
	// level, for Unsat* kinds.
	Count int
}

// Error renders a single-line, teacher-style diagnostic.
func (e *SolveError) Error() string {
	switch e.Kind {
	case KindInputValidation:
		if e.Subject != "" {
			return fmt.Sprintf("input validation: %s: %s", e.InputKind, e.Subject)
		}
		return fmt.Sprintf("input validation: %s", e.InputKind)
	case KindUnsatL3:
		return fmt.Sprintf("unsat L3: domains %s need more than %d disjoint colors",
			formatDomains(e.Domains), e.Count)
	case KindUnsatL2:
		return fmt.Sprintf("unsat L2 on cpu %d: domains %s need more than %d disjoint colors",
			e.CPU, formatDomains(e.Domains), e.Count)
	case KindCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("solve error: %s", e.Kind)
	}
}

func formatDomains(domains []model.DomainID) string {
	sorted := make([]model.DomainID, len(domains))
	copy(sorted, domains)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return fmt.Sprintf("%v", sorted)
}

// NewInputValidation constructs an input-validation SolveError.
func NewInputValidation(kind InputErrorKind, subject string) *SolveError {
	return &SolveError{Kind: KindInputValidation, InputKind: kind, Subject: subject}
}

// NewUnsatL3 constructs an L3 unsatisfiability SolveError.
func NewUnsatL3(domains []model.DomainID, count int) *SolveError {
	return &SolveError{Kind: KindUnsatL3, Domains: domains, Count: count}
}

// NewUnsatL2 constructs an L2 unsatisfiability SolveError for one CPU.
func NewUnsatL2(cpu model.CPUID, domains []model.DomainID, count int) *SolveError {
	return &SolveError{Kind: KindUnsatL2, CPU: cpu, Domains: domains, Count: count}
}

// ErrCancelled is returned when cooperative cancellation is observed.
var ErrCancelled = &SolveError{Kind: KindCancelled}
