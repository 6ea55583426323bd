package gifmaker

import (
	"fmt"
	"image"
	"image/color"

	"github.com/ArminGh02/ventmap/pkg/util/coord"
	"github.com/ArminGh02/ventmap/pkg/ventmap/heat"
)

var levelPalette = color.Palette{
	heat.Empty.Color(),
	heat.Covered.Color(),
	heat.Dangerous.Color(),
}

// frameSize returns the pixel size of a frame showing min..max, or
// ErrFrameTooLarge when a side would exceed MaxFrameSide.
func frameSize(min, max coord.Coord, cellSize int) (width, height int, err error) {
	cells := MaxFrameSide / cellSize
	dx, dy := max.X-min.X, max.Y-min.Y
	if dx < 0 || dy < 0 || dx >= cells || dy >= cells {
		return 0, 0, fmt.Errorf("%w: %v .. %v", ErrFrameTooLarge, min, max)
	}
	return (dx + 1) * cellSize, (dy + 1) * cellSize, nil
}

func newBlankFrame(width, height int) *image.Paletted {
	// index 0 of levelPalette is the empty level
	return image.NewPaletted(image.Rect(0, 0, width, height), levelPalette)
}

func cloneImage(src *image.Paletted) *image.Paletted {
	clone := *src
	clone.Pix = make([]uint8, len(src.Pix))
	copy(clone.Pix, src.Pix)
	return &clone
}
