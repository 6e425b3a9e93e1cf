package core

// Action is a host-level command, abstracted from physical key presses.
// Gameplay is driven by stream events; these only steer the session.
type Action int

const (
	ActionNone       Action = iota
	ActionPause      // P - pause/resume the active mode
	ActionNextMode   // N, Tab - swap to the next registered mode
	ActionReset      // R - reset the active mode
	ActionScreenshot // Ctrl+S - dump the current frame to a file
	ActionBack       // B, Escape - back to the mode picker
	ActionQuit       // Q, Ctrl+C - end the session
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionPause:
		return "Pause"
	case ActionNextMode:
		return "NextMode"
	case ActionReset:
		return "Reset"
	case ActionScreenshot:
		return "Screenshot"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}
