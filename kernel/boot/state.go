package boot

// State tracks how far the boot sequence has progressed.
type State uint8

// Boot states, in the only order in which they can be entered.
const (
	Uninitialized State = iota
	SegmentTableActive
	InterruptTableActive
	PICRemapped
	Demonstrating
	Halted
)

var stateNames = [...]string{
	Uninitialized:        "Uninitialized",
	SegmentTableActive:   "SegmentTableActive",
	InterruptTableActive: "InterruptTableActive",
	PICRemapped:          "PICRemapped",
	Demonstrating:        "Demonstrating",
	Halted:               "Halted",
}

// String returns the name of s.
func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "Invalid"
}

// canAdvance reports whether the sequence may move from s to next. Each
// state can only be followed by its successor. Halted is reachable from
// every state except itself, since any fault during setup ends in a halt.
func (s State) canAdvance(next State) bool {
	if s == Halted {
		return false
	}
	return next == s+1 || next == Halted
}
