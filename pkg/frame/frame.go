package frame

import (
	"strings"

	"github.com/matzehuels/scannable/pkg/errors"
)

// Module is one cell of a frame.
type Module bool

const (
	Unset Module = false // light module
	Set   Module = true  // dark module
)

// Frame is a square module bitmap. Buffer is row-major with
// len(Buffer) == Size*Size.
type Frame struct {
	Size   int
	Buffer []Module
}

// FromInts builds a frame of the given size from 0/1 cells in row-major
// order. Non-zero cells are Set. Missing cells are Unset and extra cells
// are dropped, so the result always satisfies the length invariant.
func FromInts(size int, cells ...int) Frame {
	if size < 0 {
		size = 0
	}
	buf := make([]Module, size*size)
	for i := 0; i < len(cells) && i < len(buf); i++ {
		buf[i] = cells[i] != 0
	}
	return Frame{Size: size, Buffer: buf}
}

// Count returns the number of Set modules.
func (f Frame) Count() int {
	n := 0
	for _, m := range f.Buffer {
		if m {
			n++
		}
	}
	return n
}

// Level is an error-correction level understood by the QR provider.
type Level string

const (
	LevelLow      Level = "L" // ~7% recovery
	LevelMedium   Level = "M" // ~15% recovery
	LevelQuartile Level = "Q" // ~25% recovery
	LevelHigh     Level = "H" // ~30% recovery
)

// DefaultLevel is used when Options.Level is empty.
const DefaultLevel = LevelMedium

// DefaultMargin is the quiet zone, in modules, added on every side when
// Options.Margin is nil.
const DefaultMargin = 4

// ParseLevel accepts the single-letter names (any case) and the long names
// "low", "medium", "quartile" and "high".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultLevel, nil
	case "l", "low":
		return LevelLow, nil
	case "m", "medium":
		return LevelMedium, nil
	case "q", "quartile":
		return LevelQuartile, nil
	case "h", "high":
		return LevelHigh, nil
	}
	return "", errors.New(errors.ErrCodeInvalidLevel, "unknown error-correction level: %q (must be one of: L, M, Q, H)", s)
}

// Options are the frame-level options. Renderers pass them through
// untouched.
type Options struct {
	Value  string `json:"value" toml:"value"`
	Level  Level  `json:"level,omitempty" toml:"level"`
	Margin *int   `json:"margin,omitempty" toml:"margin"`
}

// DefaultOptions returns the provider defaults. Value is left empty.
func DefaultOptions() Options {
	margin := DefaultMargin
	return Options{Level: DefaultLevel, Margin: &margin}
}

// Merge overlays over on o key by key: every non-zero field of over wins.
func (o Options) Merge(over Options) Options {
	if over.Value != "" {
		o.Value = over.Value
	}
	if over.Level != "" {
		o.Level = over.Level
	}
	if over.Margin != nil {
		m := *over.Margin
		o.Margin = &m
	}
	return o
}

// WithDefaults returns DefaultOptions().Merge(o).
func (o Options) WithDefaults() Options {
	return DefaultOptions().Merge(o)
}

// MarginOrDefault dereferences Margin, falling back to DefaultMargin.
func (o Options) MarginOrDefault() int {
	if o.Margin == nil {
		return DefaultMargin
	}
	return *o.Margin
}

// Int returns a pointer to v, for optional integer fields such as Margin.
func Int(v int) *int { return &v }

// Provider produces frames. Implementations must be deterministic and
// return a buffer the caller may keep.
type Provider interface {
	Frame(opts Options) (Frame, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(opts Options) (Frame, error)

// Frame calls fn(opts).
func (fn ProviderFunc) Frame(opts Options) (Frame, error) { return fn(opts) }

// Static returns a provider that ignores its options and yields a copy of f
// on every call.
func Static(f Frame) Provider {
	return ProviderFunc(func(Options) (Frame, error) {
		buf := make([]Module, len(f.Buffer))
		copy(buf, f.Buffer)
		return Frame{Size: f.Size, Buffer: buf}, nil
	})
}

// Default is the provider used by the package-level render functions.
var Default Provider = QRCode{}
