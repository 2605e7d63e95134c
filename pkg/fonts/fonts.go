// Package fonts provides the font faces used by the raster exporter.
//
// The faces are built from the Go font family shipped with
// golang.org/x/image, so rendering needs no system fonts. Parsed fonts are
// cached after first use; faces are created per call because a font.Face is
// not safe for concurrent use.
package fonts

import (
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Weight selects between the regular and bold Go fonts.
type Weight int

const (
	Regular Weight = iota
	Bold
)

// Cache for parsed fonts (computed once on first access).
var (
	parseOnce   sync.Once
	regularFont *truetype.Font
	boldFont    *truetype.Font
	parseErr    error
)

func load() error {
	parseOnce.Do(func() {
		regularFont, parseErr = truetype.Parse(goregular.TTF)
		if parseErr != nil {
			return
		}
		boldFont, parseErr = truetype.Parse(gobold.TTF)
	})
	return parseErr
}

// Face returns a new face of the given weight at size points (72 DPI, so one
// point is one pixel).
func Face(w Weight, size float64) (font.Face, error) {
	if err := load(); err != nil {
		return nil, err
	}
	f := regularFont
	if w == Bold {
		f = boldFont
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
