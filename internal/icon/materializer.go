// Package icon turns bubble descriptors into presentable payloads: a square
// icon bitmap, a badged variant for shortcuts and a dot colour sampled from
// the icon.
package icon

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rs/zerolog"
	xdraw "golang.org/x/image/draw"

	"github.com/Dallionking/bubblebar/internal/bubble"
)

const (
	defaultSize      = 48
	defaultBadgeSize = 20
)

// Options configures a FileMaterializer.
type Options struct {
	// Dir holds "<package>.png" app icons and relative icon paths.
	Dir       string
	Size      int
	BadgeSize int
}

// FileMaterializer loads icons from disk. It is safe for concurrent use.
type FileMaterializer struct {
	opts Options
	log  zerolog.Logger
}

// NewFileMaterializer returns a materializer reading from opts.Dir.
func NewFileMaterializer(opts Options, log zerolog.Logger) *FileMaterializer {
	if opts.Size <= 0 {
		opts.Size = defaultSize
	}
	if opts.BadgeSize <= 0 || opts.BadgeSize > opts.Size {
		opts.BadgeSize = min(defaultBadgeSize, opts.Size)
	}
	return &FileMaterializer{opts: opts, log: log.With().Str("component", "icon").Logger()}
}

// Materialize builds the payload for d. It reports false when neither an
// icon file nor a tint resolves, which is how an uninstalled app shows up.
func (m *FileMaterializer) Materialize(ctx context.Context, d bubble.Descriptor) (bubble.Payload, bool) {
	if ctx.Err() != nil {
		return bubble.Payload{}, false
	}
	base, err := m.load(d)
	if err != nil {
		m.log.Debug().Err(err).Str("key", d.Key).Msg("icon unresolved")
		return bubble.Payload{}, false
	}
	icon := imaging.Fill(base, m.opts.Size, m.opts.Size, imaging.Center, imaging.Lanczos)

	p := bubble.Payload{
		Icon:     icon,
		Badge:    icon,
		DotColor: Dominant(icon),
		DotPath:  "circle",
		AppName:  d.AppName,
		Flyout:   bubble.Flyout{Title: d.Title, Message: d.Message},
	}
	if p.AppName == "" {
		p.AppName = d.PackageName
	}

	// Shortcut bubbles carry the conversation's own icon; the app icon is
	// stamped into the corner as a badge.
	if d.ShortcutID != "" && d.IconPath != "" {
		if app, err := m.open(m.appIconPath(d.PackageName)); err == nil {
			p.Badge = Compose(icon, app, m.opts.BadgeSize)
		}
	}
	return p, true
}

func (m *FileMaterializer) load(d bubble.Descriptor) (image.Image, error) {
	path := d.IconPath
	if path == "" {
		path = m.appIconPath(d.PackageName)
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(m.opts.Dir, path)
	}
	img, err := m.open(path)
	if err == nil {
		return img, nil
	}
	if d.Tint == "" || !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	c, perr := ParseTint(d.Tint)
	if perr != nil {
		return nil, perr
	}
	return imaging.New(m.opts.Size, m.opts.Size, c), nil
}

func (m *FileMaterializer) open(path string) (image.Image, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat icon: %w", err)
	}
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("decoding icon %s: %w", path, err)
	}
	return img, nil
}

func (m *FileMaterializer) appIconPath(pkg string) string {
	return filepath.Join(m.opts.Dir, pkg+".png")
}

// ParseTint parses a "#rrggbb" colour.
func ParseTint(s string) (color.NRGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("parsing tint %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// Dominant returns the average colour of img, used for the unseen dot.
func Dominant(img image.Image) color.RGBA {
	if img == nil || img.Bounds().Empty() {
		return color.RGBA{}
	}
	px := imaging.Resize(img, 1, 1, imaging.Box).NRGBAAt(0, 0)
	return color.RGBA{R: px.R, G: px.G, B: px.B, A: 0xff}
}

// Compose draws badge, scaled to size, over the bottom-right corner of a
// copy of icon.
func Compose(icon, badge image.Image, size int) image.Image {
	b := icon.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), icon, b.Min, xdraw.Src)

	corner := image.Rect(b.Dx()-size, b.Dy()-size, b.Dx(), b.Dy())
	xdraw.CatmullRom.Scale(dst, corner, badge, badge.Bounds(), xdraw.Over, nil)
	return dst
}
