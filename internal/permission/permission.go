// Package permission answers whether the client may read the user's photo gallery.
package permission

import (
	"context"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
)

// GalleryMessage is the rationale shown when asking for gallery access.
const GalleryMessage = "Aplikasi perlu akses galeri"

// Helper requests gallery access and reports whether it was granted.
type Helper interface {
	RequestGalleryAccess(ctx context.Context) (bool, error)
}

// Static always answers Granted.
type Static struct {
	Granted bool
}

func (s Static) RequestGalleryAccess(ctx context.Context) (bool, error) {
	return s.Granted, ctx.Err()
}

// Directory grants access when Path is a readable directory.
type Directory struct {
	Path string
}

func (d Directory) RequestGalleryAccess(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	info, err := os.Stat(d.Path)
	if err != nil || !info.IsDir() {
		return false, nil
	}
	f, err := os.Open(d.Path)
	if err != nil {
		return false, nil
	}
	f.Close()
	return true, nil
}

// Prompt asks the user on the terminal, then defers to Next when confirmed.
// Next may be nil.
type Prompt struct {
	Next Helper
	Opts []survey.AskOpt

	ask func(p survey.Prompt, response interface{}, opts ...survey.AskOpt) error
}

func (p Prompt) RequestGalleryAccess(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	ask := p.ask
	if ask == nil {
		ask = survey.AskOne
	}

	granted := false
	q := &survey.Confirm{Message: GalleryMessage, Default: true}
	if err := ask(q, &granted, p.Opts...); err != nil {
		return false, fmt.Errorf("gallery permission prompt: %w", err)
	}
	if !granted || p.Next == nil {
		return granted, nil
	}
	return p.Next.RequestGalleryAccess(ctx)
}
