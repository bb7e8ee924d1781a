package bsp

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind distinguishes the three node variants of a layout tree
type Kind uint8

const (
	KindEmpty Kind = iota
	KindLeaf
	KindSplit
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindLeaf:
		return "leaf"
	case KindSplit:
		return "split"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// NodeID addresses a node inside a Tree
type NodeID int

// NoNode marks a missing child or parent link.
const NoNode NodeID = -1

// Node is one slot of the tree arena. Record is set for leaves; Split,
// Ratio, Left and Right are set for splits.
type Node struct {
	Kind   Kind
	Record RecordID
	Split  Orientation
	Ratio  float64
	Left   NodeID
	Right  NodeID
	Parent NodeID

	dead bool
}

// Tree is a binary layout tree stored in an arena with index links.
// Leaves reference records by handle; the tree never owns window state.
//
// New windows always descend the right spine, so the Nth insert becomes
// the rightmost leaf nested N-2 splits deep. Remove never collapses
// splits; Compact does that on demand.
type Tree struct {
	nodes []Node
	free  []NodeID
	root  NodeID
}

// NewTree returns a tree holding a single Empty root.
func NewTree() *Tree {
	t := &Tree{}
	t.root = t.alloc(emptyNode(NoNode))
	return t
}

func emptyNode(parent NodeID) Node {
	return Node{Kind: KindEmpty, Record: NoRecord, Left: NoNode, Right: NoNode, Parent: parent}
}

func (t *Tree) alloc(n Node) NodeID {
	if k := len(t.free); k > 0 {
		id := t.free[k-1]
		t.free = t.free[:k-1]
		t.nodes[id] = n
		return id
	}
	t.nodes = append(t.nodes, n)
	return NodeID(len(t.nodes) - 1)
}

func (t *Tree) release(id NodeID) {
	t.nodes[id] = Node{Kind: KindEmpty, Record: NoRecord, Left: NoNode, Right: NoNode, Parent: NoNode, dead: true}
	t.free = append(t.free, id)
}

// Root returns the root node handle. The root always exists.
func (t *Tree) Root() NodeID {
	return t.root
}

// Node returns a copy of the node at id.
func (t *Tree) Node(id NodeID) (Node, bool) {
	if id < 0 || int(id) >= len(t.nodes) || t.nodes[id].dead {
		return Node{}, false
	}
	return t.nodes[id], true
}

// Parent returns the parent of id, or NoNode for the root.
func (t *Tree) Parent(id NodeID) NodeID {
	n, ok := t.Node(id)
	if !ok {
		return NoNode
	}
	return n.Parent
}

// Insert places rec at the end of the right spine. An Empty slot becomes a
// leaf; a leaf becomes a split of the given orientation and ratio whose
// left child is the old leaf and whose right child is rec.
func (t *Tree) Insert(rec RecordID, split Orientation, ratio float64) NodeID {
	n := t.root
	for {
		switch t.nodes[n].Kind {
		case KindEmpty:
			t.nodes[n].Kind = KindLeaf
			t.nodes[n].Record = rec
			return n
		case KindLeaf:
			existing := t.nodes[n].Record
			left := t.alloc(Node{Kind: KindLeaf, Record: existing, Left: NoNode, Right: NoNode, Parent: n})
			right := t.alloc(Node{Kind: KindLeaf, Record: rec, Left: NoNode, Right: NoNode, Parent: n})
			// alloc may have grown the arena; index again.
			node := &t.nodes[n]
			node.Kind = KindSplit
			node.Record = NoRecord
			node.Split = split
			node.Ratio = ratio
			node.Left = left
			node.Right = right
			return right
		default:
			n = t.nodes[n].Right
		}
	}
}

// Remove turns every leaf holding rec into an Empty node. Splits are left
// in place. It reports whether a leaf was found.
func (t *Tree) Remove(rec RecordID) bool {
	return t.remove(t.root, rec)
}

func (t *Tree) remove(n NodeID, rec RecordID) bool {
	node := &t.nodes[n]
	switch node.Kind {
	case KindLeaf:
		if node.Record != rec {
			return false
		}
		node.Kind = KindEmpty
		node.Record = NoRecord
		return true
	case KindSplit:
		l := t.remove(node.Left, rec)
		r := t.remove(t.nodes[n].Right, rec)
		return l || r
	default:
		return false
	}
}

// Last returns the rightmost non-empty leaf, preferring the right subtree.
func (t *Tree) Last() (RecordID, bool) {
	return t.last(t.root)
}

func (t *Tree) last(n NodeID) (RecordID, bool) {
	node := t.nodes[n]
	switch node.Kind {
	case KindLeaf:
		return node.Record, true
	case KindSplit:
		if rec, ok := t.last(node.Right); ok {
			return rec, true
		}
		return t.last(node.Left)
	default:
		return NoRecord, false
	}
}

// Find returns the leaf node holding rec.
func (t *Tree) Find(rec RecordID) (NodeID, bool) {
	found := NoNode
	t.Walk(func(id NodeID, n Node, _ int) {
		if found == NoNode && n.Kind == KindLeaf && n.Record == rec {
			found = id
		}
	})
	return found, found != NoNode
}

// Walk visits every reachable node in pre-order, left before right.
func (t *Tree) Walk(fn func(id NodeID, n Node, depth int)) {
	t.walk(t.root, 0, fn)
}

func (t *Tree) walk(n NodeID, depth int, fn func(NodeID, Node, int)) {
	node := t.nodes[n]
	fn(n, node, depth)
	if node.Kind == KindSplit {
		t.walk(node.Left, depth+1, fn)
		t.walk(node.Right, depth+1, fn)
	}
}

// Leaves returns the leaf records in left-to-right order.
func (t *Tree) Leaves() []RecordID {
	var out []RecordID
	t.Walk(func(_ NodeID, n Node, _ int) {
		if n.Kind == KindLeaf {
			out = append(out, n.Record)
		}
	})
	return out
}

func (t *Tree) LeafCount() int {
	return t.count(KindLeaf)
}

func (t *Tree) SplitCount() int {
	return t.count(KindSplit)
}

func (t *Tree) count(k Kind) int {
	c := 0
	t.Walk(func(_ NodeID, n Node, _ int) {
		if n.Kind == k {
			c++
		}
	})
	return c
}

// Depth returns the number of ancestors of id.
func (t *Tree) Depth(id NodeID) int {
	d := 0
	for p := t.Parent(id); p != NoNode; p = t.Parent(p) {
		d++
	}
	return d
}

// SetSplit changes the orientation of a split node.
func (t *Tree) SetSplit(id NodeID, o Orientation) error {
	node, err := t.splitNode(id)
	if err != nil {
		return err
	}
	node.Split = o
	return nil
}

// SetRatio changes the ratio of a split node, clamped to [MinRatio, MaxRatio].
func (t *Tree) SetRatio(id NodeID, ratio float64) error {
	node, err := t.splitNode(id)
	if err != nil {
		return err
	}
	node.Ratio = ClampRatio(ratio)
	return nil
}

func (t *Tree) splitNode(id NodeID) (*Node, error) {
	n, ok := t.Node(id)
	if !ok {
		return nil, fmt.Errorf("node %d does not exist", id)
	}
	if n.Kind != KindSplit {
		return nil, fmt.Errorf("node %d is a %s, not a split", id, n.Kind)
	}
	return &t.nodes[id], nil
}

// Compact collapses every split that has an Empty child into its surviving
// sibling. A split whose children are both Empty becomes Empty itself. It
// returns the number of splits removed.
func (t *Tree) Compact() int {
	removed := 0
	t.root = t.compact(t.root, &removed)
	t.nodes[t.root].Parent = NoNode
	return removed
}

func (t *Tree) compact(n NodeID, removed *int) NodeID {
	node := t.nodes[n]
	if node.Kind != KindSplit {
		return n
	}
	l := t.compact(node.Left, removed)
	r := t.compact(node.Right, removed)
	lEmpty := t.nodes[l].Kind == KindEmpty
	rEmpty := t.nodes[r].Kind == KindEmpty

	switch {
	case lEmpty && rEmpty:
		t.release(l)
		t.release(r)
		t.nodes[n] = emptyNode(node.Parent)
		*removed++
		return n
	case lEmpty:
		t.release(l)
		t.release(n)
		t.nodes[r].Parent = node.Parent
		*removed++
		return r
	case rEmpty:
		t.release(r)
		t.release(n)
		t.nodes[l].Parent = node.Parent
		*removed++
		return l
	}

	t.nodes[n].Left = l
	t.nodes[n].Right = r
	t.nodes[l].Parent = n
	t.nodes[r].Parent = n
	return n
}

// Clone returns an independent copy of the tree.
func (t *Tree) Clone() *Tree {
	return &Tree{
		nodes: append([]Node(nil), t.nodes...),
		free:  append([]NodeID(nil), t.free...),
		root:  t.root,
	}
}

// Format renders the tree as an indented outline. label names leaves; a nil
// label prints record handles.
func (t *Tree) Format(label func(RecordID) string) string {
	if label == nil {
		label = func(r RecordID) string { return "#" + strconv.Itoa(int(r)) }
	}
	var b strings.Builder
	t.Walk(func(_ NodeID, n Node, depth int) {
		b.WriteString(strings.Repeat("  ", depth))
		switch n.Kind {
		case KindEmpty:
			b.WriteString("empty")
		case KindLeaf:
			b.WriteString("leaf ")
			b.WriteString(label(n.Record))
		case KindSplit:
			fmt.Fprintf(&b, "split %s %.2f", n.Split, n.Ratio)
		}
		b.WriteByte('\n')
	})
	return b.String()
}

func (t *Tree) String() string {
	return t.Format(nil)
}
