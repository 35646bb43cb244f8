package text

import "github.com/matzehuels/scannable/pkg/frame"

// Default glyphs: full block, upper half block, lower half block, space.
const (
	DefaultSolid       = "█"
	DefaultSolidTop    = "▀"
	DefaultSolidBottom = "▄"
	DefaultEmpty       = " "
)

// Options configure a block render. Each glyph should be a single
// character; empty glyphs fall back to the defaults.
type Options struct {
	Frame frame.Options `json:"frame"`

	Solid       string `json:"solid,omitempty"`        // top and bottom set
	SolidTop    string `json:"solid_top,omitempty"`    // only top set
	SolidBottom string `json:"solid_bottom,omitempty"` // only bottom set
	Empty       string `json:"empty,omitempty"`        // neither set
}

// DefaultOptions returns a fully populated option set with an empty value.
func DefaultOptions() Options {
	return Options{
		Frame:       frame.DefaultOptions(),
		Solid:       DefaultSolid,
		SolidTop:    DefaultSolidTop,
		SolidBottom: DefaultSolidBottom,
		Empty:       DefaultEmpty,
	}
}

// Merge overlays over on o key by key.
func (o Options) Merge(over Options) Options {
	o.Frame = o.Frame.Merge(over.Frame)
	if over.Solid != "" {
		o.Solid = over.Solid
	}
	if over.SolidTop != "" {
		o.SolidTop = over.SolidTop
	}
	if over.SolidBottom != "" {
		o.SolidBottom = over.SolidBottom
	}
	if over.Empty != "" {
		o.Empty = over.Empty
	}
	return o
}

// Input is either a bare Value or a full Options.
type Input interface {
	options() Options
}

// Value is a bare string to encode with every other option at default.
type Value string

func (v Value) options() Options {
	return Options{Frame: frame.Options{Value: string(v)}}
}

func (o Options) options() Options { return o }

func resolve(in Input) Options {
	opts := DefaultOptions()
	if in == nil {
		return opts
	}
	return opts.Merge(in.options())
}
