package pcerr

import (
	"strings"
	"testing"

	"github.com/marljoos/page-coloring-implementation/model"
)

func TestSolveErrorMessages(t *testing.T) {
	cases := []struct {
		name string
		err  *SolveError
		want string
	}{
		{
			name: "input validation with subject",
			err:  NewInputValidation(MissingExecutorCPU, "s1"),
			want: "MissingExecutorCPU",
		},
		{
			name: "unsat l3",
			err:  NewUnsatL3([]model.DomainID{"2", "1"}, 2),
			want: "unsat L3",
		},
		{
			name: "unsat l2",
			err:  NewUnsatL2(model.CPUID(1), []model.DomainID{"a"}, 4),
			want: "unsat L2 on cpu 1",
		},
		{
			name: "cancelled",
			err:  ErrCancelled,
			want: "cancelled",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.err.Error(); !strings.Contains(got, c.want) {
				t.Errorf("Error() = %q, want substring %q", got, c.want)
			}
		})
	}
}

func TestFormatDomainsIsDeterministic(t *testing.T) {
	a := formatDomains([]model.DomainID{"b", "a", "c"})
	b := formatDomains([]model.DomainID{"c", "b", "a"})
	if a != b {
		t.Errorf("formatDomains not order-independent: %q != %q", a, b)
	}
}

func TestKindStrings(t *testing.T) {
	if KindUnsatL3.String() != "UnsatL3" {
		t.Errorf("Kind.String() = %q", KindUnsatL3.String())
	}
	if DuplicateEntityId.String() != "DuplicateEntityId" {
		t.Errorf("InputErrorKind.String() = %q", DuplicateEntityId.String())
	}
}
