package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"chatroom/internal/permission"
	"chatroom/internal/picker"
)

// ImagePicker is satisfied by *picker.Picker.
type ImagePicker interface {
	Pick(ctx context.Context, opts picker.Options) (string, bool, error)
}

type imagePickedMsg struct {
	image  string
	ok     bool
	denied bool
	err    error
}

// pickImageCommand asks for gallery access and runs the picker while the
// program has released the terminal, so survey prompts can use it.
type pickImageCommand struct {
	ctx     context.Context
	gallery permission.Helper
	picker  ImagePicker
	opts    picker.Options

	result imagePickedMsg
}

func (c *pickImageCommand) Run() error {
	granted, err := c.gallery.RequestGalleryAccess(c.ctx)
	if err != nil {
		return err
	}
	if !granted {
		c.result.denied = true
		return nil
	}

	image, ok, err := c.picker.Pick(c.ctx, c.opts)
	if err != nil {
		return err
	}
	c.result.image, c.result.ok = image, ok
	return nil
}

func (c *pickImageCommand) SetStdin(io.Reader)  {}
func (c *pickImageCommand) SetStdout(io.Writer) {}
func (c *pickImageCommand) SetStderr(io.Writer) {}

func (m *chatModel) pickImage() tea.Cmd {
	if m.picking {
		return nil
	}
	if m.gallery == nil || m.picker == nil {
		m.banner = msgNoPicker
		return nil
	}
	m.picking = true

	c := &pickImageCommand{ctx: m.ctx, gallery: m.gallery, picker: m.picker, opts: m.pickOpts}
	return tea.Exec(c, func(err error) tea.Msg {
		c.result.err = err
		return c.result
	})
}

type signedOutMsg struct{ err error }

func signOut(ctx context.Context, out func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return signedOutMsg{err: out(ctx)}
	}
}
