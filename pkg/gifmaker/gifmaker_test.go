package gifmaker

import (
	"bytes"
	"image/color"
	"image/gif"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArminGh02/ventmap/pkg/util/coord"
	"github.com/ArminGh02/ventmap/pkg/ventmap"
	"github.com/ArminGh02/ventmap/pkg/ventmap/heat"
	"github.com/ArminGh02/ventmap/pkg/ventmap/segment"
)

func solve(t *testing.T, lines ...string) *ventmap.Map {
	t.Helper()
	segments := make([]segment.Segment, len(lines))
	for i, line := range lines {
		segments[i] = segment.MustParse(line)
	}
	m, err := ventmap.Solve(segments, ventmap.All)
	require.NoError(t, err)
	return m
}

func TestEncodeFrames(t *testing.T) {
	m := solve(t, "1,2 -> 1,4", "1,3 -> 4,3")

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, m, Options{CellSize: 2, Delay: 10}))

	g, err := gif.DecodeAll(&buf)
	require.NoError(t, err)
	require.Len(t, g.Image, 3)
	assert.Equal(t, []int{10, 10, 10}, g.Delay)

	// bounds are 1,2 .. 4,4: four columns and three rows of 2px cells
	assert.Equal(t, 8, g.Image[0].Bounds().Dx())
	assert.Equal(t, 6, g.Image[0].Bounds().Dy())

	first, last := g.Image[0], g.Image[2]
	assert.Equal(t, heat.Empty.Color(), toRGBA(first.At(0, 0)))

	// 1,3 is dangerous after the second segment: pixel (0, 2)
	assert.Equal(t, heat.Covered.Color(), toRGBA(g.Image[1].At(0, 2)))
	assert.Equal(t, heat.Dangerous.Color(), toRGBA(last.At(1, 3)))
	assert.Equal(t, heat.Covered.Color(), toRGBA(last.At(7, 2)))
	assert.Equal(t, heat.Empty.Color(), toRGBA(last.At(7, 0)))
}

func TestEncodeEmptyMap(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, ventmap.New(ventmap.All), Options{}))

	g, err := gif.DecodeAll(&buf)
	require.NoError(t, err)
	require.Len(t, g.Image, 1)
	assert.Equal(t, DefaultOptions.CellSize, g.Image[0].Bounds().Dx())
}

func TestEncodeFarApartPoints(t *testing.T) {
	m := solve(t, "0,0 -> 0,0", "2000000000,2000000000 -> 2000000000,2000000000")

	var buf bytes.Buffer
	err := Encode(&buf, m, DefaultOptions)
	assert.ErrorIs(t, err, ErrFrameTooLarge)
	assert.Zero(t, buf.Len())
}

func TestEncodeTooManyLargeFrames(t *testing.T) {
	lines := []string{"0,0 -> 511,511"}
	for i := 0; i < 16; i++ {
		lines = append(lines, "0,0 -> 0,511")
	}
	m := solve(t, lines...)

	var buf bytes.Buffer
	assert.ErrorIs(t, Encode(&buf, m, DefaultOptions), ErrFrameTooLarge)
}

func TestFrameSize(t *testing.T) {
	w, h, err := frameSize(coord.New(10, 20), coord.New(13, 22), 2)
	require.NoError(t, err)
	assert.Equal(t, 8, w)
	assert.Equal(t, 6, h)

	w, h, err = frameSize(coord.New(0, 0), coord.New(511, 0), 8)
	require.NoError(t, err)
	assert.Equal(t, MaxFrameSide, w)
	assert.Equal(t, 8, h)

	_, _, err = frameSize(coord.New(0, 0), coord.New(0, 512), 8)
	assert.ErrorIs(t, err, ErrFrameTooLarge)

	_, _, err = frameSize(coord.New(0, 0), coord.New(0, 0), MaxFrameSide+1)
	assert.ErrorIs(t, err, ErrFrameTooLarge)
}

func TestMake(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "replay.gif")
	require.NoError(t, Make(filename, solve(t, "0,0 -> 2,2"), DefaultOptions))
	assert.FileExists(t, filename)
}

func TestCloneImageIsIndependent(t *testing.T) {
	src := newBlankFrame(8, 8)
	clone := cloneImage(src)
	clone.Pix[0] = 2
	assert.Zero(t, src.Pix[0])
}

func toRGBA(c color.Color) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}
