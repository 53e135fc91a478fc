package fixture

import (
	"math/rand"
	"testing"

	"github.com/marljoos/page-coloring-implementation/model"
	"github.com/marljoos/page-coloring-implementation/validate"
)

func TestAllReturnsSixScenarios(t *testing.T) {
	all := All()
	if len(all) != 6 {
		t.Fatalf("len(All()) = %d, want 6", len(all))
	}
	seenIDs := map[string]bool{}
	for _, s := range all {
		t.Run(s.Name+"/"+s.ID.String(), func(t *testing.T) {
			if s.Name == "" {
				t.Errorf("scenario has empty name")
			}
			if seenIDs[s.ID.String()] {
				t.Errorf("scenario ID %s reused across scenarios", s.ID)
			}
			seenIDs[s.ID.String()] = true
		})
	}
}

func TestRandomScenarioValidates(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := Random(rng, 3, 2, model.CacheConfig{NL1: 2, NL2: 4, NL3: 4})

	m, err := validate.Validate(s.Input)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(m.Regions) != 3 {
		t.Fatalf("len(Regions) = %d, want 3", len(m.Regions))
	}
}
