package bsp

// WindowID is an opaque handle to a window owned by the display server
type WindowID uint32

// RecordID addresses a Record inside a Records arena. Handles stay valid
// until the record is deleted; freed slots are reused.
type RecordID int

// NoRecord is returned when no record applies.
const NoRecord RecordID = -1

const (
	DefaultRatio = 0.5
	MinRatio     = 0.05
	MaxRatio     = 0.95
)

// ClampRatio limits r to [MinRatio, MaxRatio].
func ClampRatio(r float64) float64 {
	if r < MinRatio {
		return MinRatio
	}
	if r > MaxRatio {
		return MaxRatio
	}
	return r
}

// Record is the tiling state of one window. Split and Ratio describe the
// next split that involves this window's leaf; Rect is the last rectangle
// assigned by the solver.
type Record struct {
	Window WindowID
	Split  Orientation
	Ratio  float64
	Rect   Rect
}

type slot struct {
	rec  Record
	live bool
}

// Records is an arena of window records indexed by RecordID with a
// secondary index by WindowID.
type Records struct {
	slots    []slot
	free     []RecordID
	byWindow map[WindowID]RecordID
}

func NewRecords() *Records {
	return &Records{byWindow: make(map[WindowID]RecordID)}
}

// Add stores rec and returns its handle. If the window already has a record
// the existing handle is returned and the record is left untouched.
func (rs *Records) Add(rec Record) (RecordID, bool) {
	if id, ok := rs.byWindow[rec.Window]; ok {
		return id, false
	}
	var id RecordID
	if n := len(rs.free); n > 0 {
		id = rs.free[n-1]
		rs.free = rs.free[:n-1]
		rs.slots[id] = slot{rec: rec, live: true}
	} else {
		id = RecordID(len(rs.slots))
		rs.slots = append(rs.slots, slot{rec: rec, live: true})
	}
	rs.byWindow[rec.Window] = id
	return id, true
}

// Get returns the record for id. The pointer is only valid until the next
// Add, which may grow the arena.
func (rs *Records) Get(id RecordID) (*Record, bool) {
	if id < 0 || int(id) >= len(rs.slots) || !rs.slots[id].live {
		return nil, false
	}
	return &rs.slots[id].rec, true
}

// Lookup finds the record handle of a window.
func (rs *Records) Lookup(w WindowID) (RecordID, bool) {
	id, ok := rs.byWindow[w]
	return id, ok
}

// Delete frees the record slot. Deleting an unknown handle is a no-op.
func (rs *Records) Delete(id RecordID) bool {
	rec, ok := rs.Get(id)
	if !ok {
		return false
	}
	delete(rs.byWindow, rec.Window)
	rs.slots[id] = slot{}
	rs.free = append(rs.free, id)
	return true
}

// Len returns the number of live records.
func (rs *Records) Len() int {
	return len(rs.byWindow)
}

// Clone returns an independent copy of the arena.
func (rs *Records) Clone() *Records {
	out := &Records{
		slots:    append([]slot(nil), rs.slots...),
		free:     append([]RecordID(nil), rs.free...),
		byWindow: make(map[WindowID]RecordID, len(rs.byWindow)),
	}
	for w, id := range rs.byWindow {
		out.byWindow[w] = id
	}
	return out
}
