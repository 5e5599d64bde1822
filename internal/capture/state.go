package capture

import "fmt"

// State is a capture session's position in its lifecycle.
type State int

const (
	Idle State = iota
	EnumeratingDisplays
	Filtering
	Streaming
	FrameCaptured
	Stopped
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case EnumeratingDisplays:
		return "enumerating-displays"
	case Filtering:
		return "filtering"
	case Streaming:
		return "streaming"
	case FrameCaptured:
		return "frame-captured"
	case Stopped:
		return "stopped"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether no further transitions are allowed.
func (s State) Terminal() bool {
	return s == Stopped || s == Failed
}

var transitions = map[State][]State{
	Idle:                {EnumeratingDisplays, Failed},
	EnumeratingDisplays: {Filtering, Failed},
	Filtering:           {Streaming, Failed},
	Streaming:           {FrameCaptured, Failed},
	FrameCaptured:       {Stopped, Failed},
}

// CanTransition reports whether from → to is a valid edge.
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
