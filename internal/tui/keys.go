package tui

import "github.com/charmbracelet/bubbles/key"

type chatKeyMap struct {
	Send        key.Binding
	AttachImage key.Binding
	RemoveImage key.Binding
	SignOut     key.Binding
	Quit        key.Binding
}

var chatKeys = chatKeyMap{
	Send:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
	AttachImage: key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "image")),
	RemoveImage: key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "remove image")),
	SignOut:     key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "sign out")),
	Quit:        key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
}

type loginKeyMap struct {
	Next     key.Binding
	Prev     key.Binding
	Login    key.Binding
	Register key.Binding
	Dismiss  key.Binding
	Quit     key.Binding
}

var loginKeys = loginKeyMap{
	Next:     key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	Prev:     key.NewBinding(key.WithKeys("shift+tab", "up")),
	Login:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "login")),
	Register: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "register")),
	Dismiss:  key.NewBinding(key.WithKeys("esc")),
	Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
}
