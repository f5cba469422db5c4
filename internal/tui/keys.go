package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Generate key.Binding
	Focus    key.Binding
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Advanced key.Binding
	ChooseA  key.Binding
	ChooseB  key.Binding
	Tie      key.Binding
	Another  key.Binding
	Export   key.Binding
	Refresh  key.Binding
	Dismiss  key.Binding
	Quit     key.Binding
	ForceQ   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Generate: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "generate")),
		Focus:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "focus")),
		Up:       key.NewBinding(key.WithKeys("up"), key.WithHelp("↑/↓", "field")),
		Down:     key.NewBinding(key.WithKeys("down")),
		Left:     key.NewBinding(key.WithKeys("left"), key.WithHelp("←/→", "adjust")),
		Right:    key.NewBinding(key.WithKeys("right")),
		Advanced: key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "advanced")),
		ChooseA:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "prefer A")),
		ChooseB:  key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "prefer B")),
		Tie:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tie")),
		Another:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "try another")),
		Export:   key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "export")),
		Refresh:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "stats")),
		Dismiss:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
		Quit:     key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQ:   key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Generate, k.Focus, k.ChooseA, k.ChooseB, k.Tie, k.Another, k.Export, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Generate, k.Focus, k.Up, k.Left, k.Advanced},
		{k.ChooseA, k.ChooseB, k.Tie, k.Another},
		{k.Export, k.Refresh, k.Dismiss, k.Quit},
	}
}
