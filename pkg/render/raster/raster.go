// Package raster renders a frame as a PNG image.
//
// The frame is painted at one pixel per module and then scaled with
// nearest-neighbor sampling to Size x Size pixels, so module edges stay
// sharp. Colors accept CSS names ("white", "rebeccapurple") and hex
// notation ("#fff", "#1d4ed8").
package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
	"golang.org/x/image/draw"

	"github.com/matzehuels/scannable/pkg/errors"
	"github.com/matzehuels/scannable/pkg/frame"
)

// DefaultSize is the output side length in pixels.
const DefaultSize = 256

// Options configure a raster render. Zero-valued fields fall back to the
// defaults.
type Options struct {
	Frame frame.Options `json:"frame"`

	BackgroundColor string   `json:"background_color,omitempty"`
	BackgroundAlpha *float64 `json:"background_alpha,omitempty"`
	ForegroundColor string   `json:"foreground_color,omitempty"`
	ForegroundAlpha *float64 `json:"foreground_alpha,omitempty"`

	Size int `json:"size,omitempty"`
}

// DefaultOptions returns a fully populated option set with an empty value.
func DefaultOptions() Options {
	one := 1.0
	return Options{
		Frame:           frame.DefaultOptions(),
		BackgroundColor: "white",
		BackgroundAlpha: &one,
		ForegroundColor: "black",
		ForegroundAlpha: &one,
		Size:            DefaultSize,
	}
}

// Merge overlays over on o key by key.
func (o Options) Merge(over Options) Options {
	o.Frame = o.Frame.Merge(over.Frame)
	if over.BackgroundColor != "" {
		o.BackgroundColor = over.BackgroundColor
	}
	if over.BackgroundAlpha != nil {
		a := *over.BackgroundAlpha
		o.BackgroundAlpha = &a
	}
	if over.ForegroundColor != "" {
		o.ForegroundColor = over.ForegroundColor
	}
	if over.ForegroundAlpha != nil {
		a := *over.ForegroundAlpha
		o.ForegroundAlpha = &a
	}
	if over.Size > 0 {
		o.Size = over.Size
	}
	return o
}

// Renderer draws frames obtained from Provider.
type Renderer struct {
	Provider frame.Provider
}

// New returns a renderer backed by p, or by frame.Default when p is nil.
func New(p frame.Provider) *Renderer {
	if p == nil {
		p = frame.Default
	}
	return &Renderer{Provider: p}
}

// Render encodes opts with the default provider and returns PNG bytes.
func Render(opts Options) ([]byte, error) {
	return New(nil).Render(opts)
}

// Render returns the PNG encoding of the frame for opts.
func (r *Renderer) Render(opts Options) ([]byte, error) {
	img, err := r.Image(opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

// Image returns the scaled frame as an image.
func (r *Renderer) Image(opts Options) (image.Image, error) {
	opts = DefaultOptions().Merge(opts)

	fg, err := ParseColor(opts.ForegroundColor, *opts.ForegroundAlpha)
	if err != nil {
		return nil, err
	}
	bg, err := ParseColor(opts.BackgroundColor, *opts.BackgroundAlpha)
	if err != nil {
		return nil, err
	}

	f, err := r.Provider.Frame(opts.Frame)
	if err != nil {
		return nil, err
	}

	dst := image.NewNRGBA(image.Rect(0, 0, opts.Size, opts.Size))
	if f.Size == 0 {
		draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
		return dst, nil
	}

	src := image.NewNRGBA(image.Rect(0, 0, f.Size, f.Size))
	for row := 0; row < f.Size; row++ {
		for col := 0; col < f.Size; col++ {
			c := bg
			if f.Buffer[row*f.Size+col] == frame.Set {
				c = fg
			}
			src.SetNRGBA(col, row, c)
		}
	}
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

// ParseColor resolves a CSS color name or hex string and applies alpha,
// which is clamped to [0, 1].
func ParseColor(s string, alpha float64) (color.NRGBA, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	var c color.NRGBA
	if named, ok := colornames.Map[name]; ok {
		c = color.NRGBA{R: named.R, G: named.G, B: named.B}
	} else {
		hex, err := colorful.Hex(name)
		if err != nil {
			return color.NRGBA{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "unknown color: %q", s)
		}
		c.R, c.G, c.B = hex.RGB255()
	}
	c.A = uint8(math.Round(math.Max(0, math.Min(1, alpha)) * 255))
	return c, nil
}
