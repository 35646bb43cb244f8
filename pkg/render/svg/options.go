package svg

import "github.com/matzehuels/scannable/pkg/frame"

// Default rendering values applied on top of the frame defaults.
const (
	DefaultBackgroundColor = "white"
	DefaultForegroundColor = "black"
	DefaultAlpha           = 1.0
	DefaultWidth           = 100.0
	DefaultHeight          = 100.0
)

// Options configure a vector render. Zero-valued fields fall back to the
// defaults; the alphas and dimensions are pointers so an explicit 0 is kept.
type Options struct {
	Frame frame.Options `json:"frame"`

	BackgroundColor string   `json:"background_color,omitempty"`
	BackgroundAlpha *float64 `json:"background_alpha,omitempty"`
	ForegroundColor string   `json:"foreground_color,omitempty"`
	ForegroundAlpha *float64 `json:"foreground_alpha,omitempty"`

	// Width and Height are the document size in pixels. They are
	// independent of the frame size; the per-module scale is derived.
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
}

// DefaultOptions returns a fully populated option set with an empty value.
func DefaultOptions() Options {
	return Options{
		Frame:           frame.DefaultOptions(),
		BackgroundColor: DefaultBackgroundColor,
		BackgroundAlpha: Alpha(DefaultAlpha),
		ForegroundColor: DefaultForegroundColor,
		ForegroundAlpha: Alpha(DefaultAlpha),
		Width:           Length(DefaultWidth),
		Height:          Length(DefaultHeight),
	}
}

// Merge overlays over on o key by key. Nested frame options are merged
// field by field as well.
func (o Options) Merge(over Options) Options {
	o.Frame = o.Frame.Merge(over.Frame)
	if over.BackgroundColor != "" {
		o.BackgroundColor = over.BackgroundColor
	}
	if over.BackgroundAlpha != nil {
		o.BackgroundAlpha = Alpha(*over.BackgroundAlpha)
	}
	if over.ForegroundColor != "" {
		o.ForegroundColor = over.ForegroundColor
	}
	if over.ForegroundAlpha != nil {
		o.ForegroundAlpha = Alpha(*over.ForegroundAlpha)
	}
	if over.Width != nil {
		o.Width = Length(*over.Width)
	}
	if over.Height != nil {
		o.Height = Length(*over.Height)
	}
	return o
}

// Alpha returns a pointer to v for the optional opacity fields.
func Alpha(v float64) *float64 { return &v }

// Length returns a pointer to v for Width and Height.
func Length(v float64) *float64 { return &v }

// Input is what Render accepts: either a bare Value or a full Options.
type Input interface {
	options() Options
}

// Value is a bare string to encode with every other option at default.
type Value string

func (v Value) options() Options {
	return Options{Frame: frame.Options{Value: string(v)}}
}

func (o Options) options() Options { return o }

// resolve applies provider defaults, then renderer defaults, then the
// caller's fields.
func resolve(in Input) Options {
	opts := DefaultOptions()
	if in == nil {
		return opts
	}
	return opts.Merge(in.options())
}
