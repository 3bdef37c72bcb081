package content

import (
	"fmt"
	"sync"
	"testing"

	"github.com/solvesphere/solvesphere/internal/domain"
)

func frag(id string, kind domain.FragmentKind) domain.Fragment {
	return domain.Fragment{FragmentID: id, Kind: kind, Body: "body-" + id}
}

func TestStoreAppendPreservesOrder(t *testing.T) {
	s := NewStore()
	s.Append(frag("f1", domain.FragmentFormula), frag("f2", domain.FragmentTable))
	s.Append(frag("f3", domain.FragmentDiagram))

	list := s.List()
	if len(list) != 3 {
		t.Fatalf("expected 3 fragments, got %d", len(list))
	}
	for i, want := range []string{"f1", "f2", "f3"} {
		if list[i].FragmentID != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, list[i].FragmentID)
		}
	}
}

func TestStoreAppendDuplicateIgnored(t *testing.T) {
	s := NewStore()
	s.Append(frag("f1", domain.FragmentFormula))
	s.Append(frag("f1", domain.FragmentFormula))
	if s.Len() != 1 {
		t.Fatalf("expected 1 fragment, got %d", s.Len())
	}
}

func TestStoreUpdateByIDKeepsPosition(t *testing.T) {
	s := NewStore()
	s.Append(frag("f1", domain.FragmentFormula), frag("f2", domain.FragmentImage), frag("f3", domain.FragmentTable))

	ok := s.UpdateByID("f2", func(f *domain.Fragment) {
		f.State = domain.MaterializationReady
		f.Payload = "data"
	})
	if !ok {
		t.Fatal("UpdateByID returned false for known id")
	}

	list := s.List()
	if list[1].FragmentID != "f2" {
		t.Fatalf("updated fragment moved: %+v", list)
	}
	if list[1].State != domain.MaterializationReady || list[1].Payload != "data" {
		t.Fatalf("update not applied: %+v", list[1])
	}
}

func TestStoreUpdateByIDUnknown(t *testing.T) {
	s := NewStore()
	if s.UpdateByID("nope", func(f *domain.Fragment) {}) {
		t.Fatal("UpdateByID should return false for unknown id")
	}
}

func TestStoreRemoveByID(t *testing.T) {
	s := NewStore()
	s.Append(frag("f1", domain.FragmentFormula), frag("f2", domain.FragmentTable), frag("f3", domain.FragmentDiagram))

	if !s.RemoveByID("f2") {
		t.Fatal("RemoveByID returned false for known id")
	}
	if s.RemoveByID("f2") {
		t.Fatal("second remove should return false")
	}

	list := s.List()
	if len(list) != 2 || list[0].FragmentID != "f1" || list[1].FragmentID != "f3" {
		t.Fatalf("unexpected remaining fragments: %+v", list)
	}
	// Index stays consistent after the shift.
	if got := s.Get("f3"); got == nil || got.FragmentID != "f3" {
		t.Fatalf("lookup after remove broken: %+v", got)
	}
}

func TestStoreFilterByKind(t *testing.T) {
	s := NewStore()
	s.Append(
		frag("f1", domain.FragmentFormula),
		frag("f2", domain.FragmentImage),
		frag("f3", domain.FragmentFormula),
	)

	formulas := s.FilterByKind(domain.FragmentFormula)
	if len(formulas) != 2 || formulas[0].FragmentID != "f1" || formulas[1].FragmentID != "f3" {
		t.Fatalf("unexpected filter result: %+v", formulas)
	}
	if got := s.FilterByKind(domain.FragmentNote); len(got) != 0 {
		t.Fatalf("expected no notes, got %+v", got)
	}
}

func TestStoreListReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Append(frag("f1", domain.FragmentFormula))
	list := s.List()
	list[0].Body = "mutated"
	if got := s.Get("f1"); got.Body != "body-f1" {
		t.Fatalf("List must not expose internal state: %+v", got)
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("f%d", i)
			s.Append(frag(id, domain.FragmentFormula))
			s.UpdateByID(id, func(f *domain.Fragment) { f.Title = "t" })
			s.FilterByKind(domain.FragmentFormula)
		}(i)
	}
	wg.Wait()
	if s.Len() != 20 {
		t.Fatalf("expected 20 fragments, got %d", s.Len())
	}
}

func TestRegistryForSession(t *testing.T) {
	r := NewRegistry()
	a := r.ForSession("s1")
	b := r.ForSession("s1")
	if a != b {
		t.Fatal("same session should get the same store")
	}
	if r.ForSession("s2") == a {
		t.Fatal("different sessions must not share a store")
	}

	a.Append(frag("f1", domain.FragmentFormula))
	r.Drop("s1")
	if r.ForSession("s1").Len() != 0 {
		t.Fatal("dropped session should start fresh")
	}
}
