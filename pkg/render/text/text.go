package text

import (
	"strings"

	"github.com/matzehuels/scannable/pkg/frame"
)

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

// Render encodes in with the default provider and returns the text block.
func Render(in Input) (string, error) {
	return New(nil).Render(in)
}

// Render resolves in, asks the provider for a frame and packs every pair of
// rows into one line of glyphs. Provider errors are returned as is.
func (r *Renderer) Render(in Input) (string, error) {
	opts := resolve(in)
	f, err := r.Provider.Frame(opts.Frame)
	if err != nil {
		return "", err
	}
	return draw(f, opts), nil
}

func draw(f frame.Frame, opts Options) string {
	var b strings.Builder
	for row := 0; row < f.Size; row += 2 {
		for col := 0; col < f.Size; col++ {
			top := f.Buffer[row*f.Size+col]
			// An odd-sized frame has no partner for its last row.
			bottom := frame.Unset
			if row+1 < f.Size {
				bottom = f.Buffer[(row+1)*f.Size+col]
			}
			b.WriteString(glyph(opts, top, bottom))
		}
		if row+2 < f.Size {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func glyph(opts Options, t, b frame.Module) string {
	top, bottom := bool(t), bool(b)
	switch {
	case top && bottom:
		return opts.Solid
	case !top && bottom:
		return opts.SolidBottom
	case top && !bottom:
		return opts.SolidTop
	default:
		return opts.Empty
	}
}

