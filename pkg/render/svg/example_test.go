package svg_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/scannable/pkg/frame"
	"github.com/matzehuels/scannable/pkg/render/svg"
)

func ExampleRenderer_Render() {
	f := frame.FromInts(2, 1, 0, 0, 1)
	doc, _ := svg.New(frame.Static(f)).Render(svg.Options{Width: svg.Length(20), Height: svg.Length(20)})
	fmt.Println(strings.ReplaceAll(doc, "><", ">\n<"))
	// Output:
	// <svg width="20" height="20" xmlns="http://www.w3.org/2000/svg">
	// <rect width="10" height="10" x="0" y="0" style="fill:black;opacity:1">
	// </rect>
	// <rect width="10" height="10" x="0" y="10" style="fill:white;opacity:1">
	// </rect>
	// <rect width="10" height="10" x="10" y="0" style="fill:white;opacity:1">
	// </rect>
	// <rect width="10" height="10" x="10" y="10" style="fill:black;opacity:1">
	// </rect>
	// </svg>
}

func ExampleRender() {
	doc, err := svg.Render(svg.Value("https://example.com"))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(strings.HasPrefix(doc, "<svg"), strings.Count(doc, "<rect") > 0)
	// Output:
	// true true
}
