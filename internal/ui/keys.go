package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Open             key.Binding
	Toggle           key.Binding
	Focus            key.Binding
	Load             key.Binding
	Unload           key.Binding
	CloseTop         key.Binding
	CloseAll         key.Binding
	CloseAllParallel key.Binding
	CloseAllNow      key.Binding
	Flush            key.Binding
	Clear            key.Binding
	SkipAnimation    key.Binding
	Immediate        key.Binding
	Inspector        key.Binding
	Back             key.Binding
	Quit             key.Binding

	Up     key.Binding
	Down   key.Binding
	Submit key.Binding
	Cancel key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Open:             key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
		Toggle:           key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle")),
		Focus:            key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "focus")),
		Load:             key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "load")),
		Unload:           key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "unload")),
		CloseTop:         key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "close top")),
		CloseAll:         key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "close all")),
		CloseAllParallel: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "close all (parallel)")),
		CloseAllNow:      key.NewBinding(key.WithKeys("!"), key.WithHelp("!", "close all now")),
		Flush:            key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "flush")),
		Clear:            key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "clear queue")),
		SkipAnimation:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "skip anim")),
		Immediate:        key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "immediate")),
		Inspector:        key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "inspect")),
		Back:             key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:             key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),

		Up:     key.NewBinding(key.WithKeys("up", "ctrl+p")),
		Down:   key.NewBinding(key.WithKeys("down", "ctrl+n")),
		Submit: key.NewBinding(key.WithKeys("enter")),
		Cancel: key.NewBinding(key.WithKeys("esc", "ctrl+c")),
	}
}

func (k keyMap) footer() []key.Binding {
	return []key.Binding{
		k.Open, k.Toggle, k.Focus, k.Load, k.Unload, k.CloseTop, k.CloseAll,
		k.CloseAllParallel, k.CloseAllNow, k.Flush, k.Clear, k.SkipAnimation,
		k.Immediate, k.Inspector, k.Back, k.Quit,
	}
}

func helpLine(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, "  ")
}
