package ui

// RepeatMode controls what happens when a track finishes.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatOne
	RepeatAll
)

// Next cycles off, one, all.
func (r RepeatMode) Next() RepeatMode {
	return (r + 1) % 3
}

func (r RepeatMode) String() string {
	switch r {
	case RepeatOne:
		return "one"
	case RepeatAll:
		return "all"
	default:
		return "off"
	}
}

// Icon is shown in the status line; empty when repeat is off.
func (r RepeatMode) Icon() string {
	if r == RepeatOff {
		return ""
	}
	return "[repeat " + r.String() + "]"
}
