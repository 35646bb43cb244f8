package pipeline

import (
	"github.com/matzehuels/scannable/pkg/errors"
	"github.com/matzehuels/scannable/pkg/frame"
	"github.com/matzehuels/scannable/pkg/render/raster"
	"github.com/matzehuels/scannable/pkg/render/svg"
	"github.com/matzehuels/scannable/pkg/render/text"
)

// Render produces one artifact. Each call asks the provider for a fresh
// frame; errors from the provider are returned unchanged.
func Render(p frame.Provider, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		doc, err := svg.New(p).Render(opts.SVGOptions())
		if err != nil {
			return nil, err
		}
		return []byte(doc), nil
	case FormatText:
		block, err := text.New(p).Render(opts.TextOptions())
		if err != nil {
			return nil, err
		}
		return []byte(block), nil
	case FormatPNG:
		return raster.New(p).Render(opts.RasterOptions())
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
	}
}
