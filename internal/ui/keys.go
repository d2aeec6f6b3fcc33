package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Pause      key.Binding
	SeekBack   key.Binding
	SeekFwd    key.Binding
	VolumeUp   key.Binding
	VolumeDown key.Binding
	Repeat     key.Binding
	Next       key.Binding
	Prev       key.Binding
	Quit       key.Binding

	hasQueue bool
}

var keys = keyMap{
	Pause:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause")),
	SeekBack:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "seek")),
	SeekFwd:    key.NewBinding(key.WithKeys("right", "l")),
	VolumeUp:   key.NewBinding(key.WithKeys("up", "k", "+", "="), key.WithHelp("↑/↓", "volume")),
	VolumeDown: key.NewBinding(key.WithKeys("down", "j", "-")),
	Repeat:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "repeat")),
	Next:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n/p", "track")),
	Prev:       key.NewBinding(key.WithKeys("p")),
	Quit:       key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// clickHelp documents mouse seeking, which has no key of its own.
var clickHelp = key.NewBinding(key.WithKeys("click"), key.WithHelp("click", "seek"))

func (k keyMap) ShortHelp() []key.Binding {
	b := []key.Binding{k.Pause, k.SeekBack, clickHelp, k.VolumeUp, k.Repeat}
	if k.hasQueue {
		b = append(b, k.Next)
	}
	return append(b, k.Quit)
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func newHelp() help.Model {
	h := help.New()
	h.Styles.ShortKey = helpStyle
	h.Styles.ShortDesc = helpStyle
	h.Styles.ShortSeparator = helpStyle
	h.ShortSeparator = "  "
	return h
}

func helpText(h help.Model, hasQueue bool) string {
	k := keys
	k.hasQueue = hasQueue
	return h.View(k)
}
