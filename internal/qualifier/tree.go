package qualifier

import (
	"errors"
	"sort"
	"strconv"
	"strings"
)

// ErrCyclicHierarchy indicates a qualifier whose ancestor chain revisits
// itself. The snapshot is unusable for aggregation and the request must fail.
var ErrCyclicHierarchy = errors.New("qualifier: cyclic hierarchy")

// Tree is an immutable arena over one snapshot of the active qualifier forest.
// Parent/child links are kept as id indexes, never pointers, so a malformed
// snapshot cannot produce unbounded recursive walks.
type Tree struct {
	nodes    map[int64]*Node
	children map[int64][]int64
	roots    []int64
	depth    map[int64]int
	rootOf   map[int64]int64
}

// NewTree indexes a snapshot of qualifier rows. Inactive rows are dropped, as
// are rows whose parent is missing from the snapshot (the parent was inactive;
// the subtree is invisible to reporting). Returns ErrCyclicHierarchy when any
// parent chain loops.
func NewTree(records []Node) (*Tree, error) {
	t := &Tree{
		nodes:    make(map[int64]*Node, len(records)),
		children: make(map[int64][]int64),
		depth:    make(map[int64]int, len(records)),
		rootOf:   make(map[int64]int64, len(records)),
	}
	for i := range records {
		if !records[i].Active {
			continue
		}
		rec := records[i]
		t.nodes[rec.ID] = &rec
	}
	// Prune until stable: dropping a node orphans its children too.
	for {
		var dropped bool
		for id, n := range t.nodes {
			if n.ParentID == nil {
				continue
			}
			if _, ok := t.nodes[*n.ParentID]; !ok {
				delete(t.nodes, id)
				dropped = true
			}
		}
		if !dropped {
			break
		}
	}
	for id, n := range t.nodes {
		if n.ParentID == nil {
			t.roots = append(t.roots, id)
			continue
		}
		t.children[*n.ParentID] = append(t.children[*n.ParentID], id)
	}
	if err := t.resolveAncestry(); err != nil {
		return nil, err
	}
	t.sortByCode(t.roots)
	for _, ids := range t.children {
		t.sortByCode(ids)
	}
	return t, nil
}

// resolveAncestry walks every parent chain once, memoising depth and root and
// flagging cycles via a per-walk visited set.
func (t *Tree) resolveAncestry() error {
	for id := range t.nodes {
		if _, done := t.depth[id]; done {
			continue
		}
		var chain []int64
		visited := make(map[int64]bool)
		cur := id
		for {
			if visited[cur] {
				return ErrCyclicHierarchy
			}
			if _, done := t.depth[cur]; done {
				break
			}
			visited[cur] = true
			chain = append(chain, cur)
			parent := t.nodes[cur].ParentID
			if parent == nil {
				t.depth[cur] = 0
				t.rootOf[cur] = cur
				chain = chain[:len(chain)-1]
				break
			}
			cur = *parent
		}
		// Unwind the chain from the resolved ancestor down.
		for i := len(chain) - 1; i >= 0; i-- {
			parent := *t.nodes[chain[i]].ParentID
			t.depth[chain[i]] = t.depth[parent] + 1
			t.rootOf[chain[i]] = t.rootOf[parent]
		}
	}
	return nil
}

func (t *Tree) sortByCode(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return codeLess(t.nodes[ids[i]].Code, t.nodes[ids[j]].Code) })
}

// codeLess orders codes segment-wise so "1.9" sorts before "1.10". Numeric
// segments compare by value, anything else lexicographically.
func codeLess(a, b string) bool {
	as, bs := strings.Split(a, "."), strings.Split(b, ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		if as[i] == bs[i] {
			continue
		}
		an, aerr := strconv.Atoi(as[i])
		bn, berr := strconv.Atoi(bs[i])
		if aerr == nil && berr == nil {
			if an != bn {
				return an < bn
			}
			continue
		}
		return as[i] < bs[i]
	}
	return len(as) < len(bs)
}

// Node returns the active node for id.
func (t *Tree) Node(id int64) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Roots lists active roots ordered by code.
func (t *Tree) Roots() []*Node {
	out := make([]*Node, 0, len(t.roots))
	for _, id := range t.roots {
		out = append(out, t.nodes[id])
	}
	return out
}

// Children lists the active children of id ordered by code.
func (t *Tree) Children(id int64) []*Node {
	ids := t.children[id]
	out := make([]*Node, 0, len(ids))
	for _, cid := range ids {
		out = append(out, t.nodes[cid])
	}
	return out
}

// Root returns the root ancestor of id.
func (t *Tree) Root(id int64) (*Node, bool) {
	rootID, ok := t.rootOf[id]
	if !ok {
		return nil, false
	}
	return t.nodes[rootID], true
}

// Depth returns the distance from id to its root (0 for a root).
func (t *Tree) Depth(id int64) int {
	return t.depth[id]
}

// FlowKind derives the revenue/expense classification from the root code.
func (t *Tree) FlowKind(id int64) FlowKind {
	root, ok := t.Root(id)
	if !ok {
		return FlowUndefined
	}
	return FlowKindForRootCode(root.Code)
}

// IsLeaf reports whether id has no active children.
func (t *Tree) IsLeaf(id int64) bool {
	return len(t.children[id]) == 0
}

// Closure returns id plus every active descendant, breadth first.
func (t *Tree) Closure(id int64) []int64 {
	if _, ok := t.nodes[id]; !ok {
		return nil
	}
	out := []int64{id}
	for i := 0; i < len(out); i++ {
		out = append(out, t.children[out[i]]...)
	}
	return out
}

// Len reports the number of active nodes in the snapshot.
func (t *Tree) Len() int {
	return len(t.nodes)
}
