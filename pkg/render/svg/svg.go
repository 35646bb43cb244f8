package svg

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/scannable/pkg/frame"
)

const namespace = "http://www.w3.org/2000/svg"

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

// Render encodes in with the default provider and returns the document.
func Render(in Input) (string, error) {
	return New(nil).Render(in)
}

// Render resolves in, asks the provider for a frame and returns an SVG
// document with one rect per module. Provider errors are returned as is.
func (r *Renderer) Render(in Input) (string, error) {
	opts := resolve(in)
	f, err := r.Provider.Frame(opts.Frame)
	if err != nil {
		return "", err
	}
	return draw(f, opts), nil
}

type module struct {
	x, y    float64
	enabled bool
}

func draw(f frame.Frame, opts Options) string {
	width, height := *opts.Width, *opts.Height
	moduleWidth := width / float64(f.Size)
	moduleHeight := height / float64(f.Size)

	modules := make([]module, 0, f.Size*f.Size)
	for col := 0; col < f.Size; col++ {
		for row := 0; row < f.Size; row++ {
			modules = append(modules, module{
				x:       moduleWidth * float64(col),
				y:       moduleHeight * float64(row),
				enabled: f.Buffer[row*f.Size+col] == frame.Set,
			})
		}
	}

	w, h := formatNumber(moduleWidth), formatNumber(moduleHeight)
	fg := style(opts.ForegroundColor, *opts.ForegroundAlpha)
	bg := style(opts.BackgroundColor, *opts.BackgroundAlpha)

	var buf bytes.Buffer
	buf.Grow(64 + len(modules)*80)
	fmt.Fprintf(&buf, `<svg width="%s" height="%s" xmlns="%s">`,
		formatNumber(width), formatNumber(height), namespace)
	for _, m := range modules {
		s := bg
		if m.enabled {
			s = fg
		}
		fmt.Fprintf(&buf, `<rect width="%s" height="%s" x="%s" y="%s" style="%s"></rect>`,
			w, h, formatNumber(m.x), formatNumber(m.y), s)
	}
	buf.WriteString("</svg>")
	return buf.String()
}

func style(color string, alpha float64) string {
	return html.EscapeString("fill:" + color + ";opacity:" + formatNumber(alpha))
}

// formatNumber prints v the way JavaScript's Number#toString does: shortest
// round-trip digits (50, 0.5, 33.333333333333336), exponent notation from
// 1e21 up and below 1e-6 (1e+21, 1.5e-7), and NaN or Infinity.
func formatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0" // also folds -0
	}
	if abs := math.Abs(v); abs >= 1e21 || abs < 1e-6 {
		return formatExponent(v)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatExponent trims Go's two-digit exponent ("1e-07") to JavaScript's
// minimal one ("1e-7").
func formatExponent(v float64) string {
	s := strconv.FormatFloat(v, 'e', -1, 64)
	i := strings.IndexByte(s, 'e')
	mantissa, sign, digits := s[:i], s[i+1], strings.TrimLeft(s[i+2:], "0")
	if digits == "" {
		digits = "0"
	}
	return mantissa + "e" + string(sign) + digits
}
