package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/live-arcade/internal/core"
)

// KeyMapper translates Bubble Tea key messages to host actions.
// Gameplay never reads the keyboard; keys only steer the session.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to a host action.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) core.Action {
	switch msg.String() {
	case "ctrl+c", "q":
		return core.ActionQuit
	case "p", " ":
		return core.ActionPause
	case "n", "tab":
		return core.ActionNextMode
	case "r":
		return core.ActionReset
	case "ctrl+s":
		return core.ActionScreenshot
	case "b", "esc":
		return core.ActionBack
	}
	return core.ActionNone
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionResults
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "tab":
		return MenuActionResults
	}
	return MenuActionNone
}
