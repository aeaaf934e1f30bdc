package tuitest

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestStripANSI(t *testing.T) {
	in := "\x1b[1mbold\x1b[0m   \nnext  \n\n"
	assert.Equal(t, "bold\nnext", StripANSI(in))
}

func TestKeyHelpers(t *testing.T) {
	assert.Equal(t, "r", KeyPress('r').String())
	assert.Equal(t, "hello", Type("hello").String())
	assert.Equal(t, "tab", Key(tea.KeyTab).String())
	assert.Equal(t, "enter", KeyEnter().String())
}

type ping struct{ n int }

func TestDrain(t *testing.T) {
	cmd := tea.Batch(
		func() tea.Msg { return ping{1} },
		tea.Batch(
			func() tea.Msg { return ping{2} },
			func() tea.Msg { return nil },
		),
	)

	assert.ElementsMatch(t, []tea.Msg{ping{1}, ping{2}}, Drain(cmd))
	assert.Nil(t, Drain(nil))
}
