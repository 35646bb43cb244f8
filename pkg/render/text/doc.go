// Package text renders a frame as a compact block of Unicode half blocks.
//
// Rows are consumed in pairs: row r is the top half of an output line and
// row r+1 the bottom half, so a frame of size n renders to ceil(n/2) lines of
// n glyphs, joined by "\n" without a trailing newline. When n is odd the last
// line has no bottom row and it is treated as unset.
//
//	block, err := text.Render(text.Value("hello"))
//	fmt.Println(block)
//
// The four glyphs can be replaced, for example for terminals that render
// half blocks badly:
//
//	block, err = text.Render(text.Options{
//	    Frame:       frame.Options{Value: "hello"},
//	    Solid:       "#",
//	    SolidTop:    "^",
//	    SolidBottom: "v",
//	    Empty:       ".",
//	})
package text
