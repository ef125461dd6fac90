package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap declares every binding the shell itself handles; the tree and the
// editor consume their own keys after these.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Toggle   key.Binding
	Scroll   key.Binding
	Requests key.Binding
	PrevForm key.Binding
	NextForm key.Binding
	Submit   key.Binding
	Help     key.Binding
	Back     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "toggle"),
		),
		Scroll: key.NewBinding(
			key.WithKeys("pgup", "pgdown"),
			key.WithHelp("pgup/pgdn", "scroll"),
		),
		Requests: key.NewBinding(
			key.WithKeys("e", "2"),
			key.WithHelp("e", "requests"),
		),
		PrevForm: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev op"),
		),
		NextForm: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next op"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "submit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// stateKeys is the short help row for the state page.
func (k keyMap) stateKeys() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Scroll, k.Requests, k.Help, k.Quit}
}

// formKeys is the short help row for the requests page.
func (k keyMap) formKeys() []key.Binding {
	return []key.Binding{k.PrevForm, k.NextForm, k.Submit, k.Back}
}

// helpKeys is the short help row for the help page.
func (k keyMap) helpKeys() []key.Binding {
	return []key.Binding{k.Back, k.Quit}
}
