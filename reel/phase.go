package reel

// Phase is the reel state machine position
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseSpinning
	PhaseDecelerating
)

// String returns the phase name
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSpinning:
		return "spinning"
	case PhaseDecelerating:
		return "decelerating"
	default:
		return "unknown"
	}
}

// StopKind records what ended a spin
type StopKind int32

const (
	StopNone StopKind = iota
	// StopAuto is the fallback after the spin duration elapses
	StopAuto
	// StopManual stops at the next symbol boundary on request
	StopManual
	// StopQuick travels one more visible window before stopping
	StopQuick
)

// String returns the stop kind name
func (k StopKind) String() string {
	switch k {
	case StopAuto:
		return "auto"
	case StopManual:
		return "manual"
	case StopQuick:
		return "quick"
	default:
		return "none"
	}
}

// ParseStopKind is the inverse of String; unknown names map to StopNone
func ParseStopKind(s string) StopKind {
	switch s {
	case "auto":
		return StopAuto
	case "manual":
		return StopManual
	case "quick":
		return StopQuick
	default:
		return StopNone
	}
}
