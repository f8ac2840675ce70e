package tui

import "github.com/charmbracelet/bubbles/help"

// HelpBindings returns the help.KeyMap for the given mode,
// providing context-aware help bar content.
func HelpBindings(mode Mode) help.KeyMap {
	switch mode {
	case ModeAdd:
		return FormKeyMap()
	case ModePrompt:
		return PromptKeyMap()
	case ModeConfirm:
		return ConfirmKeyMap()
	case ModeResult:
		return ResultKeyMap()
	default:
		return BrowseKeyMap()
	}
}
