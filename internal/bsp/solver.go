package bsp

// Placement is the rectangle the solver assigned to one record
type Placement struct {
	Record RecordID
	Rect   Rect
}

// Solve assigns a rectangle to every leaf of t.
//
// The canvas is the output inset by gaps.Outer. Each split divides its
// cell by orientation and ratio: the left child gets floor(extent*ratio)
// and the right child the remainder, starting at the far edge of the left
// part. When more than one leaf is visible every leaf is inset by
// gaps.Inner, so neighbours are 2*Inner apart and the outer envelope is
// unchanged. Empty subtrees hand their whole cell to their sibling.
//
// Placements are returned in left-to-right leaf order. Solve does not
// modify the tree and is deterministic for a given tree, size and gaps.
func Solve(t *Tree, output Size, gaps Gaps) []Placement {
	s := solver{tree: t, gaps: gaps, visible: make(map[NodeID]int)}
	total := s.countVisible(t.root)
	if total == 0 {
		return nil
	}
	s.out = make([]Placement, 0, total)
	s.place(t.root, output.Rect().Inset(gaps.Outer), total > 1)
	return s.out
}

type solver struct {
	tree    *Tree
	gaps    Gaps
	visible map[NodeID]int
	out     []Placement
}

func (s *solver) countVisible(n NodeID) int {
	node := s.tree.nodes[n]
	c := 0
	switch node.Kind {
	case KindLeaf:
		c = 1
	case KindSplit:
		c = s.countVisible(node.Left) + s.countVisible(node.Right)
	}
	s.visible[n] = c
	return c
}

func (s *solver) place(n NodeID, cell Rect, shared bool) {
	node := s.tree.nodes[n]
	switch node.Kind {
	case KindLeaf:
		r := cell
		if shared {
			r = cell.Inset(s.gaps.Inner)
		}
		s.out = append(s.out, Placement{Record: node.Record, Rect: clampMin(r)})
	case KindSplit:
		switch {
		case s.visible[node.Left] == 0:
			s.place(node.Right, cell, shared)
		case s.visible[node.Right] == 0:
			s.place(node.Left, cell, shared)
		default:
			left, right := divide(cell, node.Split, node.Ratio)
			s.place(node.Left, left, shared)
			s.place(node.Right, right, shared)
		}
	}
}

// divide splits cell into two adjacent, non-overlapping parts whose union
// is cell.
func divide(cell Rect, o Orientation, ratio float64) (Rect, Rect) {
	if ratio <= 0 || ratio >= 1 {
		ratio = DefaultRatio
	}
	if o == Vertical {
		h := int(float64(cell.Height) * ratio)
		return Rect{X: cell.X, Y: cell.Y, Width: cell.Width, Height: h},
			Rect{X: cell.X, Y: cell.Y + h, Width: cell.Width, Height: cell.Height - h}
	}
	w := int(float64(cell.Width) * ratio)
	return Rect{X: cell.X, Y: cell.Y, Width: w, Height: cell.Height},
		Rect{X: cell.X + w, Y: cell.Y, Width: cell.Width - w, Height: cell.Height}
}

// clampMin keeps a window mappable on outputs too small for the gaps.
func clampMin(r Rect) Rect {
	if r.Width < 1 {
		r.Width = 1
	}
	if r.Height < 1 {
		r.Height = 1
	}
	return r
}
