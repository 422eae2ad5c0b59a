package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit    key.Binding
	Cancel  key.Binding
	Up      key.Binding
	Down    key.Binding
	PrevDay key.Binding
	NextDay key.Binding
	Today   key.Binding
	Goto    key.Binding
	Assign  key.Binding
	Plan    key.Binding
	DayOff  key.Binding
	Clear   key.Binding
	Fill    key.Binding
	Shake   key.Binding
	Nudge   key.Binding
	Submit  key.Binding
	Refresh key.Binding
	Help    key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Assign, k.Submit, k.Quit, k.Help}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevDay, k.NextDay, k.Today, k.Goto},
		{k.Assign, k.Plan, k.DayOff, k.Clear},
		{k.Fill, k.Shake, k.Submit, k.Refresh},
		{k.Help, k.Quit},
	}
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PrevDay: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous day"),
		),
		NextDay: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next day"),
		),
		Today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "today"),
		),
		Goto: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "go to date"),
		),
		Assign: key.NewBinding(
			key.WithKeys("enter", "a"),
			key.WithHelp("enter", "assign job"),
		),
		Plan: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "plan"),
		),
		DayOff: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "day off"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "clear"),
		),
		Fill: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "auto-fill"),
		),
		Shake: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "shake to fill"),
		),
		Nudge: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "shake"),
		),
		Submit: key.NewBinding(
			key.WithKeys("S", "ctrl+s"),
			key.WithHelp("S", "submit"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
	}
}
