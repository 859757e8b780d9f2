package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	quit         key.Binding
	nextFocus    key.Binding
	submit       key.Binding
	improve      key.Binding
	prevPage     key.Binding
	nextPage     key.Binding
	up           key.Binding
	down         key.Binding
	copySettings key.Binding
	download     key.Binding
	downloadPage key.Binding
	remove       key.Binding
	preview      key.Binding
	copyURL      key.Binding
	confirm      key.Binding
	closeOverlay key.Binding
	cycleLeft    key.Binding
	cycleRight   key.Binding
	toggleHelp   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		nextFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "generate"),
		),
		improve: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "improve prompt"),
		),
		prevPage: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "prev page"),
		),
		nextPage: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "next page"),
		),
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑", "select"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓", "select"),
		),
		copySettings: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy settings"),
		),
		download: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "download"),
		),
		downloadPage: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "download page"),
		),
		remove: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete"),
		),
		preview: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "preview"),
		),
		copyURL: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy url"),
		),
		confirm: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y", "confirm"),
		),
		closeOverlay: key.NewBinding(
			key.WithKeys("esc", "n"),
			key.WithHelp("esc", "close"),
		),
		cycleLeft: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "previous option"),
		),
		cycleRight: key.NewBinding(
			key.WithKeys("right", " "),
			key.WithHelp("→", "next option"),
		),
		toggleHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.nextFocus,
		k.submit,
		k.improve,
		k.prevPage,
		k.nextPage,
		k.preview,
		k.toggleHelp,
		k.quit,
	}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.nextFocus, k.submit, k.improve, k.cycleLeft, k.cycleRight},
		{k.prevPage, k.nextPage, k.up, k.down},
		{k.preview, k.copySettings, k.download, k.downloadPage},
		{k.remove, k.copyURL, k.closeOverlay},
		{k.toggleHelp, k.quit},
	}
}
