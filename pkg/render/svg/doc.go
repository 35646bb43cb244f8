// Package svg renders a frame as a standalone SVG document.
//
// Every module becomes one rect of size Width/Size by Height/Size, placed at
// (col*moduleWidth, row*moduleHeight). Module sizes are not rounded, so
// dimensions that do not divide evenly produce fractional boundaries. Set
// modules use the foreground color and alpha, unset modules the background
// ones.
//
// Input is either a bare [Value] or an [Options]:
//
//	doc, err := svg.Render(svg.Value("hello"))
//
//	doc, err = svg.Render(svg.Options{
//	    Frame:           frame.Options{Value: "hello", Level: frame.LevelHigh},
//	    ForegroundColor: "#1d4ed8",
//	    Width:           svg.Length(256),
//	    Height:          svg.Length(256),
//	})
//
// Options are resolved in three tiers: frame defaults, then the renderer
// defaults (white background, black foreground, opacity 1, 100x100), then
// the caller's set fields. Alphas and dimensions are pointers, so
// svg.Length(0) is a real zero. Nothing is validated: a zero width yields a
// zero-sized document and a zero-sized frame yields an empty one.
package svg
