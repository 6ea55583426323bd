// Package gifmaker replays a vent map as an animated GIF, one frame per
// recorded segment.
package gifmaker

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"io"
	"os"

	"github.com/ArminGh02/ventmap/pkg/util/coord"
	"github.com/ArminGh02/ventmap/pkg/ventmap"
	"github.com/ArminGh02/ventmap/pkg/ventmap/coverage"
	"github.com/ArminGh02/ventmap/pkg/ventmap/heat"
)

const (
	// MaxFrameSide bounds the width and height of a frame in pixels.
	MaxFrameSide = 4096
	// maxReplayPixels bounds the pixels of all frames together.
	maxReplayPixels = 1 << 28
)

var ErrFrameTooLarge = errors.New("map is too large to draw")

type Options struct {
	// CellSize is the side of one point in pixels.
	CellSize int
	// Delay between frames, in hundredths of a second.
	Delay int
}

var DefaultOptions = Options{
	CellSize: 8,
	Delay:    20,
}

func Make(outputFilename string, m *ventmap.Map, opts Options) error {
	out, err := os.Create(outputFilename)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := Encode(out, m, opts); err != nil {
		return fmt.Errorf("encoding %s: %w", outputFilename, err)
	}
	return out.Close()
}

func Encode(w io.Writer, m *ventmap.Map, opts Options) error {
	if opts.CellSize < 1 {
		opts.CellSize = DefaultOptions.CellSize
	}

	frames, err := getMapFrames(m, opts)
	if err != nil {
		return err
	}
	delays := make([]int, len(frames))
	for i := range delays {
		delays[i] = opts.Delay
	}

	return gif.EncodeAll(w, &gif.GIF{
		Image: frames,
		Delay: delays,
	})
}

func getMapFrames(m *ventmap.Map, opts Options) ([]*image.Paletted, error) {
	min, max, ok := m.Coverage().Bounds()
	width, height, err := frameSize(min, max, opts.CellSize)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []*image.Paletted{newBlankFrame(width, height)}, nil
	}

	history := m.History()
	if len(history)+1 > maxReplayPixels/(width*height) {
		return nil, fmt.Errorf("%w: %d frames of %dx%d", ErrFrameTooLarge, len(history)+1, width, height)
	}
	replay := coverage.New()

	res := make([]*image.Paletted, 0, len(history)+1)
	res = append(res, newBlankFrame(width, height))
	for _, s := range history {
		points, err := s.Trace()
		if err != nil {
			continue
		}
		replay.Record(points)

		frame := cloneImage(res[len(res)-1])
		for _, p := range points {
			drawCell(frame, coord.Minus(p, min), opts.CellSize, heat.Of(replay.CountAt(p)))
		}
		res = append(res, frame)
	}
	return res, nil
}

// drawCell paints the cell at offset from the top left corner of the map.
func drawCell(frame *image.Paletted, offset coord.Coord, cellSize int, level heat.Level) {
	x := offset.X * cellSize
	y := offset.Y * cellSize
	draw.Draw(
		frame,
		image.Rect(x, y, x+cellSize, y+cellSize),
		image.NewUniform(level.Color()),
		image.Point{},
		draw.Src,
	)
}
