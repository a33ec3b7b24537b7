package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap lists the dashboard key bindings.
type KeyMap struct {
	Decrease      key.Binding
	Increase      key.Binding
	SwitchHandle  key.Binding
	ZeroMap       key.Binding
	InfraInsights key.Binding
	DebtInsights  key.Binding
	PrevStep      key.Binding
	NextStep      key.Binding
	AllSteps      key.Binding
	Reload        key.Binding
	Quit          key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Decrease:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "lower handle value")),
		Increase:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "raise handle value")),
		SwitchHandle:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch min/max handle")),
		ZeroMap:       key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "zero-initiative districts")),
		InfraInsights: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "infrastructure insights")),
		DebtInsights:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "debt insights")),
		PrevStep:      key.NewBinding(key.WithKeys("["), key.WithHelp("[", "previous year")),
		NextStep:      key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next year")),
		AllSteps:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "whole series")),
		Reload:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (keyMap KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		keyMap.Decrease, keyMap.Increase, keyMap.SwitchHandle,
		keyMap.ZeroMap, keyMap.InfraInsights, keyMap.DebtInsights,
		keyMap.PrevStep, keyMap.NextStep, keyMap.AllSteps, keyMap.Quit,
	}
}
