package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// keyMap holds the bindings handled by Model outside of the form dialog.
type keyMap struct {
	Open      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

var keys = keyMap{
	Open: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "leave a review"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

// hint renders bindings as "key: desc" pairs separated by two spaces.
func hint(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+": "+h.Desc)
	}
	return strings.Join(parts, "  ")
}
