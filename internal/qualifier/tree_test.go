package qualifier

import (
	"errors"
	"testing"
)

func ptr(v int64) *int64 { return &v }

func sampleForest() []Node {
	return []Node{
		{ID: 1, Code: "1", Description: "Receitas", Active: true},
		{ID: 2, Code: "1.1", Description: "Tributos", ParentID: ptr(1), Active: true},
		{ID: 3, Code: "1.2", Description: "Transferencias", ParentID: ptr(1), Active: true},
		{ID: 4, Code: "1.1.1", Description: "IPTU", ParentID: ptr(2), Active: true},
		{ID: 5, Code: "2", Description: "Despesas", Active: true},
		{ID: 6, Code: "2.1", Description: "Pessoal", ParentID: ptr(5), Active: true},
		{ID: 7, Code: "0", Description: "Saldo inicial", Active: true},
	}
}

func TestNewTreeDerivedProperties(t *testing.T) {
	tree, err := NewTree(sampleForest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Len() != 7 {
		t.Fatalf("expected 7 active nodes, got %d", tree.Len())
	}
	if got := tree.Depth(4); got != 2 {
		t.Fatalf("expected depth 2 for 1.1.1, got %d", got)
	}
	root, ok := tree.Root(4)
	if !ok || root.ID != 1 {
		t.Fatalf("expected root 1 for node 4, got %+v", root)
	}
	if kind := tree.FlowKind(4); kind != FlowRevenue {
		t.Fatalf("expected revenue flow for 1.1.1, got %s", kind)
	}
	if kind := tree.FlowKind(6); kind != FlowExpense {
		t.Fatalf("expected expense flow for 2.1, got %s", kind)
	}
	if kind := tree.FlowKind(7); kind != FlowUndefined {
		t.Fatalf("expected undefined flow for root 0, got %s", kind)
	}
	if !tree.IsLeaf(4) || tree.IsLeaf(2) {
		t.Fatal("leaf detection mismatch")
	}
}

func TestNewTreeOrdersByCode(t *testing.T) {
	tree, err := NewTree(sampleForest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	roots := tree.Roots()
	if len(roots) != 3 {
		t.Fatalf("expected 3 roots, got %d", len(roots))
	}
	if roots[0].Code != "0" || roots[1].Code != "1" || roots[2].Code != "2" {
		t.Fatalf("roots out of order: %s %s %s", roots[0].Code, roots[1].Code, roots[2].Code)
	}
}

func TestNewTreeOrdersCodesNumerically(t *testing.T) {
	tree, err := NewTree([]Node{
		{ID: 1, Code: "1", Active: true},
		{ID: 2, Code: "1.10", ParentID: ptr(1), Active: true},
		{ID: 3, Code: "1.9", ParentID: ptr(1), Active: true},
		{ID: 4, Code: "1.2", ParentID: ptr(1), Active: true},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	children := tree.Children(1)
	if children[0].Code != "1.2" || children[1].Code != "1.9" || children[2].Code != "1.10" {
		t.Fatalf("children out of order: %s %s %s", children[0].Code, children[1].Code, children[2].Code)
	}
}

func TestClosureIncludesSelfAndDescendants(t *testing.T) {
	tree, err := NewTree(sampleForest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	closure := tree.Closure(1)
	want := map[int64]bool{1: true, 2: true, 3: true, 4: true}
	if len(closure) != len(want) {
		t.Fatalf("expected closure of 4 ids, got %v", closure)
	}
	for _, id := range closure {
		if !want[id] {
			t.Fatalf("unexpected id %d in closure", id)
		}
	}
}

func TestInactiveSubtreeIsInvisible(t *testing.T) {
	records := sampleForest()
	for i := range records {
		if records[i].ID == 2 {
			records[i].Active = false
		}
	}
	tree, err := NewTree(records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := tree.Node(2); ok {
		t.Fatal("inactive node still visible")
	}
	// Node 4 hangs under the inactive node and must be pruned with it.
	if _, ok := tree.Node(4); ok {
		t.Fatal("descendant of inactive node still visible")
	}
	if tree.IsLeaf(1) {
		t.Fatal("node 1 still has active child 1.2")
	}
}

func TestNewTreeDetectsCycle(t *testing.T) {
	records := []Node{
		{ID: 1, Code: "1", ParentID: ptr(3), Active: true},
		{ID: 2, Code: "1.1", ParentID: ptr(1), Active: true},
		{ID: 3, Code: "1.1.1", ParentID: ptr(2), Active: true},
	}
	if _, err := NewTree(records); !errors.Is(err, ErrCyclicHierarchy) {
		t.Fatalf("expected ErrCyclicHierarchy, got %v", err)
	}
}
