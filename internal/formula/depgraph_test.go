package formula

import (
	"testing"

	"github.com/tjc-lp/xlcore/internal/domain"
)

func TestDependencyGraphTopologicalOrderRespectsEdges(t *testing.T) {
	a, b, c := ref(t, "A1"), ref(t, "B1"), ref(t, "C1")
	g := NewDependencyGraph()
	g.AddEdge(c, a) // C1 reads A1
	g.AddEdge(c, b) // C1 reads B1

	order, err := g.TopologicalOrder()
	if err != nil {
		t.Fatal(err)
	}
	pos := map[domain.ARef]int{}
	for i, r := range order {
		pos[r] = i
	}
	if pos[a] >= pos[c] || pos[b] >= pos[c] {
		t.Fatalf("expected A1 and B1 before C1, got order %v", order)
	}
}

func TestDependencyGraphDetectsCycle(t *testing.T) {
	a, b, c := ref(t, "A1"), ref(t, "B1"), ref(t, "C1")
	g := NewDependencyGraph()
	g.AddEdge(a, b)
	g.AddEdge(b, c)
	g.AddEdge(c, a)

	_, err := g.TopologicalOrder()
	if err == nil {
		t.Fatal("expected a cycle error for A1->B1->C1->A1")
	}
	cycleErr, ok := err.(*CycleError)
	if !ok {
		t.Fatalf("expected *CycleError, got %T", err)
	}
	seen := map[domain.ARef]bool{}
	for _, r := range cycleErr.Cells {
		seen[r] = true
	}
	for _, r := range []domain.ARef{a, b, c} {
		if !seen[r] {
			t.Errorf("cycle report missing participant %v", r)
		}
	}
}

func TestDependencyGraphDetectsSelfLoop(t *testing.T) {
	a := ref(t, "A1")
	g := NewDependencyGraph()
	g.AddEdge(a, a)

	_, err := g.TopologicalOrder()
	if err == nil {
		t.Fatal("expected a cycle error for a self-referencing cell")
	}
}

func TestDependencyGraphTransitiveDependents(t *testing.T) {
	a, b, c, d := ref(t, "A1"), ref(t, "B1"), ref(t, "C1"), ref(t, "D1")
	g := NewDependencyGraph()
	g.AddEdge(b, a) // B1 reads A1
	g.AddEdge(c, b) // C1 reads B1
	g.AddEdge(d, d) // D1 independent self-loop, not reachable from A1

	deps := g.TransitiveDependents(map[domain.ARef]struct{}{a: {}})
	if _, ok := deps[b]; !ok {
		t.Error("expected B1 in transitive dependents of A1")
	}
	if _, ok := deps[c]; !ok {
		t.Error("expected C1 (depends on B1) in transitive dependents of A1")
	}
	if _, ok := deps[d]; ok {
		t.Error("D1 does not depend on A1 and must not appear")
	}
}

func TestBuildFromSheetCollectsFormulaEdges(t *testing.T) {
	a1 := ref(t, "A1")
	b1 := ref(t, "B1")
	c1 := ref(t, "C1")
	cells := map[domain.ARef]domain.Cell{
		a1: domain.NewEmptyCell(a1),
		b1: domain.NewEmptyCell(b1),
		c1: {Ref: c1, Value: domain.FormulaValue("A1+B1", nil)},
	}
	g, err := BuildFromSheet(cells)
	if err != nil {
		t.Fatal(err)
	}
	deps := g.Dependencies(c1)
	if _, ok := deps[a1]; !ok {
		t.Error("expected C1 to depend on A1")
	}
	if _, ok := deps[b1]; !ok {
		t.Error("expected C1 to depend on B1")
	}
}
