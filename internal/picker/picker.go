// Package picker turns a gallery photo into the base64 JPEG payload a
// message carries.
package picker

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"chatroom/internal/common"
)

const MediaTypePhoto = "photo"

var ErrUnsupportedMediaType = errors.New("picker: only photos are supported")

// Options mirrors the mobile image picker's launch options.
type Options struct {
	MediaType string
	// Quality is the JPEG quality in (0, 1].
	Quality float64
	// IncludeBase64 returns the encoded bytes; otherwise Pick returns the path.
	IncludeBase64 bool
}

// DefaultOptions is what the chat screen asks for.
func DefaultOptions(quality float64) Options {
	return Options{MediaType: MediaTypePhoto, Quality: quality, IncludeBase64: true}
}

// Chooser selects a file under dir. ok is false when the user cancelled.
type Chooser func(ctx context.Context, dir string) (path string, ok bool, err error)

// FixedPath always chooses path.
func FixedPath(path string) Chooser {
	return func(context.Context, string) (string, bool, error) {
		if strings.TrimSpace(path) == "" {
			return "", false, nil
		}
		return path, true, nil
	}
}

// SurveyChooser lists the images in dir with a terminal select prompt.
func SurveyChooser(opts ...survey.AskOpt) Chooser {
	return func(ctx context.Context, dir string) (string, bool, error) {
		files, err := ListImages(dir)
		if err != nil {
			return "", false, err
		}
		if len(files) == 0 {
			return "", false, nil
		}

		const cancel = "(cancel)"
		choice := ""
		q := &survey.Select{Message: "Pick a photo", Options: append(files, cancel)}
		if err := survey.AskOne(q, &choice, opts...); err != nil {
			return "", false, fmt.Errorf("photo prompt: %w", err)
		}
		if choice == cancel {
			return "", false, nil
		}
		return filepath.Join(dir, choice), true, nil
	}
}

// ListImages returns the image file names directly under dir, sorted.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read gallery %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(common.ContentTypeFor(e.Name()), "image/") {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

// Picker reads photos from a gallery directory.
type Picker struct {
	Dir    string
	Choose Chooser
}

func New(dir string, choose Chooser) *Picker {
	return &Picker{Dir: dir, Choose: choose}
}

// Pick asks Choose for a file and re-encodes it as JPEG at opts.Quality.
// It returns ok=false without error when nothing was picked.
func (p *Picker) Pick(ctx context.Context, opts Options) (string, bool, error) {
	if opts.MediaType != "" && opts.MediaType != MediaTypePhoto {
		return "", false, ErrUnsupportedMediaType
	}

	path, ok, err := p.Choose(ctx, p.Dir)
	if err != nil || !ok {
		return "", false, err
	}
	if !filepath.IsAbs(path) && p.Dir != "" && !fileExists(path) {
		path = filepath.Join(p.Dir, path)
	}
	if !opts.IncludeBase64 {
		return path, true, nil
	}

	data, err := Encode(path, opts.Quality)
	if err != nil {
		return "", false, err
	}
	return base64.StdEncoding.EncodeToString(data), true, nil
}

// Encode decodes the image at path and re-encodes it as JPEG.
func Encode(path string, quality float64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open photo: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode photo %s: %w", filepath.Base(path), err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality(quality)}); err != nil {
		return nil, fmt.Errorf("encode photo: %w", err)
	}
	return buf.Bytes(), nil
}

func jpegQuality(q float64) int {
	if q <= 0 || q > 1 {
		return jpeg.DefaultQuality
	}
	v := int(q*100 + 0.5)
	if v < 1 {
		v = 1
	}
	return v
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
