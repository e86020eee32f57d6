package hook

import "slices"

// frame is the bookkeeping of one in-flight pass over a Registry: the
// priority levels present when the pass started and a cursor into them.
type frame struct {
	snapshot []int
	pos      int

	// current is the priority the pass last started running.
	// Only filter and action passes record it.
	current int
	tracked bool
}

func newFrame(priorities []int, tracked bool) *frame {
	return &frame{snapshot: slices.Clone(priorities), tracked: tracked}
}

// at returns the priority under the cursor.
func (f *frame) at() (int, bool) {
	if f.pos < 0 || f.pos >= len(f.snapshot) {
		return 0, false
	}
	return f.snapshot[f.pos], true
}

// advance moves the cursor forward. Once past the end it stays there.
func (f *frame) advance() (int, bool) {
	if f.pos < len(f.snapshot) {
		f.pos++
	}
	return f.at()
}

// atEnd reports whether the cursor has moved past the last element.
func (f *frame) atEnd() bool {
	_, ok := f.at()
	return !ok
}

// reset replaces the snapshot and rewinds the cursor.
func (f *frame) reset(snapshot []int) {
	f.snapshot = snapshot
	f.pos = 0
}

// stepBack moves the cursor to the previous element, or to the last element
// when it is past the end, and moves forward again unless that element is
// priority. At the start of the snapshot it simply rewinds.
func (f *frame) stepBack(priority int) {
	var prev int
	switch {
	case f.atEnd():
		f.pos = len(f.snapshot) - 1
		prev = f.snapshot[f.pos]
	case f.pos == 0:
		f.reset(f.snapshot)
		return
	default:
		f.pos--
		prev = f.snapshot[f.pos]
	}

	if prev != priority {
		f.pos++
	}
}
