// Package render groups the frame renderers.
//
// Each renderer asks a [frame.Provider] for a frame and maps its modules to
// an output format:
//
//   - [svg]: one <rect> per module in an SVG document
//   - [text]: two frame rows per line using half-block glyphs (█ ▀ ▄)
//   - [raster]: a PNG image scaled with nearest-neighbour sampling
//
// The svg and text renderers accept either a bare value or a full Options
// struct; unset options fall back to the provider defaults and then to the
// renderer defaults. They do not validate options; callers that accept
// untrusted input go through the pipeline package, which does.
//
// All renderers are stateless and safe for concurrent use.
package render
