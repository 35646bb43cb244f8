// Package pkg holds the scannable libraries.
//
// # Overview
//
// Scannable turns a text value into a QR code and renders the code's module
// grid in three forms. The pkg directory is organized as:
//
//  1. [frame] - Frame model and the QR frame provider
//  2. [render] - Renderers: SVG ([render/svg]), half-block text
//     ([render/text]) and PNG ([render/raster])
//  3. [pipeline] - Validated multi-format rendering with caching
//  4. [cache] - Artifact cache backends (none, file, Redis)
//  5. [errors] - Coded errors shared by every layer
//  6. [observability] - Hook registry for metrics and tracing
//
// # Architecture
//
// The data flow for a single render:
//
//	value + options
//	       ↓
//	[frame] provider (QR encoding, quiet zone)
//	       ↓
//	[render/svg] | [render/text] | [render/raster]
//	       ↓
//	SVG / text / PNG
//
// The [pipeline] package wraps this flow with validation, defaults and an
// artifact [cache]; the HTTP service in internal/server calls the pipeline.
//
// # Quick Start
//
//	doc, err := svg.Render(svg.Value("https://example.com"))
//	block, err := text.Render(text.Value("https://example.com"))
//
// With options:
//
//	doc, err := svg.Render(svg.Options{
//	    Frame:           frame.Options{Value: "hello", Level: frame.LevelHigh},
//	    ForegroundColor: "#1d3557",
//	    Width:           svg.Length(256),
//	    Height:          svg.Length(256),
//	})
package pkg
