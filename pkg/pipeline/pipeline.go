// Package pipeline turns a render request into artifacts.
//
// A request names a value, frame options and one or more output formats.
// The [Runner] validates the request, fills in defaults, consults the
// artifact cache and renders whatever is missing with the renderers in
// [github.com/matzehuels/scannable/pkg/render]:
//
//   - "svg": vector document (package svg)
//   - "txt": half-block text (package text)
//   - "png": raster image (package raster)
//
// # Usage
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Value:   "https://example.com",
//	    Formats: []string{"svg", "txt"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"strings"
	"time"

	"github.com/matzehuels/scannable/pkg/cache"
	"github.com/matzehuels/scannable/pkg/errors"
	"github.com/matzehuels/scannable/pkg/frame"
	"github.com/matzehuels/scannable/pkg/render/raster"
	"github.com/matzehuels/scannable/pkg/render/svg"
	"github.com/matzehuels/scannable/pkg/render/text"
)

// =============================================================================
// Formats
// =============================================================================

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatText = "txt"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatText: true,
	FormatPNG:  true,
}

// MaxMargin bounds the quiet zone accepted from requests.
const MaxMargin = 64

// MaxRasterSize bounds the PNG side length accepted from requests.
const MaxRasterSize = 4096

// ContentType returns the MIME type for a format.
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	default:
		return "text/plain; charset=utf-8"
	}
}

// =============================================================================
// Options - Render Request
// =============================================================================

// Options contains one render request. It supports JSON serialization for
// API requests; zero-valued fields take the renderer defaults.
type Options struct {
	// Frame options
	Value  string `json:"value"`
	Level  string `json:"level,omitempty"`
	Margin *int   `json:"margin,omitempty"`

	Formats []string `json:"formats,omitempty"`

	// Colors apply to svg and png
	BackgroundColor string   `json:"background_color,omitempty"`
	BackgroundAlpha *float64 `json:"background_alpha,omitempty"`
	ForegroundColor string   `json:"foreground_color,omitempty"`
	ForegroundAlpha *float64 `json:"foreground_alpha,omitempty"`

	// Document size for svg
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// Side length in pixels for png
	Size int `json:"size,omitempty"`

	// Glyphs for txt
	Solid       string `json:"solid,omitempty"`
	SolidTop    string `json:"solid_top,omitempty"`
	SolidBottom string `json:"solid_bottom,omitempty"`
	Empty       string `json:"empty,omitempty"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which formats came from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	RenderTime time.Duration
	Bytes      int
}

// CacheInfo tracks cache hits per format.
type CacheInfo struct {
	Hits      map[string]bool
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, txt, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list, defaulting to svg.
func ParseFormats(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{FormatSVG}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the request and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	o.validated = true
	return nil
}

// ValidateForRender checks every field that a renderer would otherwise pass
// through uninterpreted.
func (o *Options) ValidateForRender() error {
	if err := errors.ValidateValue(o.Value); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if _, err := frame.ParseLevel(o.Level); err != nil {
		return err
	}
	if o.Margin != nil && (*o.Margin < 0 || *o.Margin > MaxMargin) {
		return errors.New(errors.ErrCodeInvalidInput, "margin must be between 0 and %d: %d", MaxMargin, *o.Margin)
	}
	if err := errors.ValidateDimension("width", o.Width); err != nil {
		return err
	}
	if err := errors.ValidateDimension("height", o.Height); err != nil {
		return err
	}
	if o.Size < 0 || o.Size > MaxRasterSize {
		return errors.New(errors.ErrCodeInvalidInput, "size must be between 0 and %d: %d", MaxRasterSize, o.Size)
	}
	if err := errors.ValidateAlpha("background_alpha", o.BackgroundAlpha); err != nil {
		return err
	}
	if err := errors.ValidateAlpha("foreground_alpha", o.ForegroundAlpha); err != nil {
		return err
	}
	glyphs := [][2]string{
		{"solid", o.Solid}, {"solid_top", o.SolidTop}, {"solid_bottom", o.SolidBottom}, {"empty", o.Empty},
	}
	for _, g := range glyphs {
		if err := errors.ValidateGlyph(g[0], g[1]); err != nil {
			return err
		}
	}
	if o.wants(FormatPNG) {
		if _, err := raster.ParseColor(orDefault(o.BackgroundColor, svg.DefaultBackgroundColor), 1); err != nil {
			return err
		}
		if _, err := raster.ParseColor(orDefault(o.ForegroundColor, svg.DefaultForegroundColor), 1); err != nil {
			return err
		}
	}
	return nil
}

// SetRenderDefaults fills every zero-valued field with the renderer
// defaults so cache keys always see concrete values.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if level, err := frame.ParseLevel(o.Level); err == nil {
		o.Level = string(level)
	}
	if o.Margin == nil {
		o.Margin = frame.Int(frame.DefaultMargin)
	}

	sd := svg.DefaultOptions()
	o.BackgroundColor = orDefault(o.BackgroundColor, sd.BackgroundColor)
	o.ForegroundColor = orDefault(o.ForegroundColor, sd.ForegroundColor)
	if o.BackgroundAlpha == nil {
		o.BackgroundAlpha = svg.Alpha(*sd.BackgroundAlpha)
	}
	if o.ForegroundAlpha == nil {
		o.ForegroundAlpha = svg.Alpha(*sd.ForegroundAlpha)
	}
	if o.Width == 0 {
		o.Width = *sd.Width
	}
	if o.Height == 0 {
		o.Height = *sd.Height
	}
	if o.Size == 0 {
		o.Size = raster.DefaultSize
	}

	td := text.DefaultOptions()
	o.Solid = orDefault(o.Solid, td.Solid)
	o.SolidTop = orDefault(o.SolidTop, td.SolidTop)
	o.SolidBottom = orDefault(o.SolidBottom, td.SolidBottom)
	o.Empty = orDefault(o.Empty, td.Empty)
}

// orDefault returns s, or def when s is empty.
func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func (o *Options) wants(format string) bool {
	for _, f := range o.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// FrameOptions returns the options handed to the frame provider.
func (o Options) FrameOptions() frame.Options {
	return frame.Options{Value: o.Value, Level: frame.Level(o.Level), Margin: o.Margin}
}

// SVGOptions returns the vector renderer options.
func (o Options) SVGOptions() svg.Options {
	return svg.Options{
		Frame:           o.FrameOptions(),
		BackgroundColor: o.BackgroundColor,
		BackgroundAlpha: o.BackgroundAlpha,
		ForegroundColor: o.ForegroundColor,
		ForegroundAlpha: o.ForegroundAlpha,
		Width:           svg.Length(o.Width),
		Height:          svg.Length(o.Height),
	}
}

// TextOptions returns the block renderer options.
func (o Options) TextOptions() text.Options {
	return text.Options{
		Frame:       o.FrameOptions(),
		Solid:       o.Solid,
		SolidTop:    o.SolidTop,
		SolidBottom: o.SolidBottom,
		Empty:       o.Empty,
	}
}

// RasterOptions returns the PNG renderer options.
func (o Options) RasterOptions() raster.Options {
	return raster.Options{
		Frame:           o.FrameOptions(),
		BackgroundColor: o.BackgroundColor,
		BackgroundAlpha: o.BackgroundAlpha,
		ForegroundColor: o.ForegroundColor,
		ForegroundAlpha: o.ForegroundAlpha,
		Size:            o.Size,
	}
}

// ArtifactKeyOpts returns cache key options for one format. Call it after
// SetRenderDefaults so every field is concrete.
func (o Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format: format,
		Value:  o.Value,
		Level:  o.Level,
		Margin: o.FrameOptions().MarginOrDefault(),
	}
	switch format {
	case FormatSVG, FormatPNG:
		k.BackgroundColor = o.BackgroundColor
		k.ForegroundColor = o.ForegroundColor
		if o.BackgroundAlpha != nil {
			k.BackgroundAlpha = *o.BackgroundAlpha
		}
		if o.ForegroundAlpha != nil {
			k.ForegroundAlpha = *o.ForegroundAlpha
		}
		if format == FormatSVG {
			k.Width, k.Height = o.Width, o.Height
		} else {
			k.Size = o.Size
		}
	case FormatText:
		k.Glyphs = [4]string{o.Solid, o.SolidTop, o.SolidBottom, o.Empty}
	}
	return k
}
