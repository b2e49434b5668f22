package model

// Mode is the resilience tier used to reach the chat model. Modes only move
// forward (Stateful → Stateless → Degraded) until the session is reset.
type Mode int

const (
	// Stateful resends the whole history on every call.
	Stateful Mode = iota
	// Stateless sends single-shot calls without history.
	Stateless
	// Degraded is Stateless with the outgoing text truncated.
	Degraded
)

func (m Mode) String() string {
	switch m {
	case Stateful:
		return "stateful"
	case Stateless:
		return "stateless"
	case Degraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// Next is the mode to fall back to after a failure in m.
func (m Mode) Next() Mode {
	if m >= Degraded {
		return Degraded
	}
	return m + 1
}
