package bsp

import (
	"strings"
	"testing"
)

func buildTree(n int, split Orientation) *Tree {
	t := NewTree()
	for i := 0; i < n; i++ {
		t.Insert(RecordID(i), split, DefaultRatio)
	}
	return t
}

func TestInsert_LeafAndSplitCounts(t *testing.T) {
	for n := 0; n <= 12; n++ {
		tree := buildTree(n, Horizontal)
		if got := tree.LeafCount(); got != n {
			t.Fatalf("n=%d: expected %d leaves, got %d", n, n, got)
		}
		wantSplits := 0
		if n > 0 {
			wantSplits = n - 1
		}
		if got := tree.SplitCount(); got != wantSplits {
			t.Fatalf("n=%d: expected %d splits, got %d", n, wantSplits, got)
		}
	}
}

func TestInsert_EmptyTreeHasNoNodes(t *testing.T) {
	tree := NewTree()
	root, ok := tree.Node(tree.Root())
	if !ok {
		t.Fatalf("expected root node to exist")
	}
	if root.Kind != KindEmpty {
		t.Fatalf("expected empty root, got %s", root.Kind)
	}
	if _, ok := tree.Last(); ok {
		t.Fatalf("expected Last on empty tree to report false")
	}
}

func TestInsert_NewestIsRightmostLeaf(t *testing.T) {
	tree := NewTree()
	for i := 0; i < 6; i++ {
		tree.Insert(RecordID(i), Vertical, DefaultRatio)

		last, ok := tree.Last()
		if !ok || last != RecordID(i) {
			t.Fatalf("after insert %d: expected Last=%d, got %d (ok=%v)", i, i, last, ok)
		}
		leaves := tree.Leaves()
		if leaves[len(leaves)-1] != RecordID(i) {
			t.Fatalf("after insert %d: expected rightmost leaf %d, got %v", i, i, leaves)
		}
	}
}

func TestInsert_NestingDepth(t *testing.T) {
	tree := buildTree(5, Horizontal)
	id, ok := tree.Find(4)
	if !ok {
		t.Fatalf("expected to find record 4")
	}
	// The Nth leaf hangs below N-2 nested splits plus the root split.
	if got := tree.Depth(id); got != 4 {
		t.Fatalf("expected depth 4, got %d", got)
	}
	parent, _ := tree.Node(tree.Parent(id))
	if parent.Kind != KindSplit || parent.Right != id {
		t.Fatalf("expected newest leaf to be the right child of a split")
	}
}

func TestInsert_UsesGivenSplitParameters(t *testing.T) {
	tree := NewTree()
	tree.Insert(0, Horizontal, DefaultRatio)
	tree.Insert(1, Vertical, 0.3)

	root, _ := tree.Node(tree.Root())
	if root.Kind != KindSplit {
		t.Fatalf("expected split root, got %s", root.Kind)
	}
	if root.Split != Vertical || root.Ratio != 0.3 {
		t.Fatalf("expected vertical 0.30 split, got %s %.2f", root.Split, root.Ratio)
	}
	left, _ := tree.Node(root.Left)
	if left.Kind != KindLeaf || left.Record != 0 {
		t.Fatalf("expected existing record on the left, got %+v", left)
	}
}

func TestRemove_LeavesEmptyPlaceholder(t *testing.T) {
	tree := buildTree(3, Horizontal)
	if !tree.Remove(1) {
		t.Fatalf("expected record 1 to be removed")
	}
	if tree.LeafCount() != 2 {
		t.Fatalf("expected 2 leaves, got %d", tree.LeafCount())
	}
	if tree.SplitCount() != 2 {
		t.Fatalf("expected splits to be preserved, got %d", tree.SplitCount())
	}

	empties := 0
	tree.Walk(func(_ NodeID, n Node, _ int) {
		if n.Kind == KindEmpty {
			empties++
		}
	})
	if empties != 1 {
		t.Fatalf("expected one empty placeholder, got %d", empties)
	}
}

func TestRemove_AbsentIsNoOp(t *testing.T) {
	tree := buildTree(3, Horizontal)
	before := tree.String()
	if tree.Remove(42) {
		t.Fatalf("expected Remove of absent record to report false")
	}
	if after := tree.String(); after != before {
		t.Fatalf("tree changed:\nbefore:\n%s\nafter:\n%s", before, after)
	}
}

func TestRemove_OnlyLeafEmptiesTree(t *testing.T) {
	tree := buildTree(1, Horizontal)
	tree.Remove(0)
	root, _ := tree.Node(tree.Root())
	if root.Kind != KindEmpty {
		t.Fatalf("expected empty root, got %s", root.Kind)
	}
	if tree.LeafCount() != 0 {
		t.Fatalf("expected no leaves")
	}
}

func TestLast_FallsBackToLeftSubtree(t *testing.T) {
	tree := buildTree(3, Horizontal)
	tree.Remove(2)
	last, ok := tree.Last()
	if !ok || last != 1 {
		t.Fatalf("expected Last=1, got %d (ok=%v)", last, ok)
	}
	tree.Remove(1)
	last, ok = tree.Last()
	if !ok || last != 0 {
		t.Fatalf("expected Last=0, got %d (ok=%v)", last, ok)
	}
}

func TestInsert_AfterRemovalFillsRightSpine(t *testing.T) {
	tree := buildTree(2, Horizontal)
	tree.Remove(1)
	tree.Insert(7, Horizontal, DefaultRatio)

	leaves := tree.Leaves()
	if len(leaves) != 2 || leaves[1] != 7 {
		t.Fatalf("expected new record to reuse the empty right slot, got %v", leaves)
	}
	if tree.SplitCount() != 1 {
		t.Fatalf("expected 1 split, got %d", tree.SplitCount())
	}
}

func TestCompact_CollapsesEmptyChildren(t *testing.T) {
	tree := buildTree(4, Horizontal)
	tree.Remove(1)
	tree.Remove(3)

	removed := tree.Compact()
	if removed != 2 {
		t.Fatalf("expected 2 splits removed, got %d", removed)
	}
	if tree.SplitCount() != 1 || tree.LeafCount() != 2 {
		t.Fatalf("expected 1 split and 2 leaves, got %d and %d", tree.SplitCount(), tree.LeafCount())
	}
	root, _ := tree.Node(tree.Root())
	if root.Parent != NoNode {
		t.Fatalf("expected root without parent")
	}
	for _, id := range []NodeID{root.Left, root.Right} {
		if tree.Parent(id) != tree.Root() {
			t.Fatalf("expected child %d to point at root", id)
		}
	}
	got := tree.Leaves()
	if got[0] != 0 || got[1] != 2 {
		t.Fatalf("expected leaves [0 2], got %v", got)
	}
}

func TestCompact_AllEmptyBecomesEmptyRoot(t *testing.T) {
	tree := buildTree(3, Vertical)
	for i := 0; i < 3; i++ {
		tree.Remove(RecordID(i))
	}
	tree.Compact()
	root, _ := tree.Node(tree.Root())
	if root.Kind != KindEmpty {
		t.Fatalf("expected empty root, got %s", root.Kind)
	}

	// Freed slots are reused by later inserts.
	tree.Insert(9, Vertical, DefaultRatio)
	tree.Insert(10, Vertical, DefaultRatio)
	if tree.LeafCount() != 2 || tree.SplitCount() != 1 {
		t.Fatalf("expected rebuilt tree, got\n%s", tree)
	}
}

func TestSetSplitAndRatio(t *testing.T) {
	tree := buildTree(2, Horizontal)
	root := tree.Root()

	if err := tree.SetSplit(root, Vertical); err != nil {
		t.Fatalf("SetSplit: %v", err)
	}
	if err := tree.SetRatio(root, 0.99); err != nil {
		t.Fatalf("SetRatio: %v", err)
	}
	n, _ := tree.Node(root)
	if n.Split != Vertical || n.Ratio != MaxRatio {
		t.Fatalf("expected vertical %.2f, got %s %.2f", MaxRatio, n.Split, n.Ratio)
	}

	leaf, _ := tree.Find(0)
	if err := tree.SetRatio(leaf, 0.3); err == nil {
		t.Fatalf("expected error setting ratio on a leaf")
	}
}

func TestClone_IsIndependent(t *testing.T) {
	tree := buildTree(3, Horizontal)
	clone := tree.Clone()
	tree.Remove(0)
	if clone.LeafCount() != 3 {
		t.Fatalf("expected clone to keep 3 leaves, got %d", clone.LeafCount())
	}
}

func TestFormat(t *testing.T) {
	tree := buildTree(2, Vertical)
	out := tree.Format(func(r RecordID) string {
		return []string{"term", "editor"}[r]
	})
	want := "split vertical 0.50\n  leaf term\n  leaf editor\n"
	if out != want {
		t.Fatalf("unexpected format:\n%s", out)
	}
	if !strings.Contains(tree.String(), "leaf #1") {
		t.Fatalf("expected default labels, got:\n%s", tree.String())
	}
}

func TestParseOrientation(t *testing.T) {
	tests := []struct {
		in      string
		want    Orientation
		wantErr bool
	}{
		{in: "horizontal", want: Horizontal},
		{in: "H", want: Horizontal},
		{in: " vertical ", want: Vertical},
		{in: "v", want: Vertical},
		{in: "diagonal", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseOrientation(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseOrientation(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("ParseOrientation(%q) = %s, %v; want %s", tt.in, got, err, tt.want)
		}
	}
	if Horizontal.Flip() != Vertical || Vertical.Flip() != Horizontal {
		t.Fatalf("Flip is not an involution")
	}
}
