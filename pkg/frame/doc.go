// Package frame defines the square module bitmap that the renderers in
// [github.com/matzehuels/scannable/pkg/render] draw, and the Provider
// contract that produces it.
//
// # Frames
//
// A [Frame] is a square grid of modules stored as a flat, row-major buffer:
// the module at (row, col) lives at index row*Size+col. A valid frame
// always satisfies len(Buffer) == Size*Size.
//
// # Providers
//
// Renderers never build frames themselves. They ask a [Provider] for one,
// passing [Options] they do not interpret. The default provider, [QRCode],
// encodes the value as a QR code:
//
//	f, err := frame.QRCode{}.Frame(frame.Options{Value: "hello"})
//
// [Static] returns a fixed frame and is handy for tests and examples:
//
//	p := frame.Static(frame.FromInts(2, 1, 0, 0, 1))
//
// Providers must be deterministic: the same options always yield the same
// frame. Every call returns a fresh buffer that the caller owns.
package frame
