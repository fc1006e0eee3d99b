package state

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PaintBoard/internal/document"
)

func TestNewTool(t *testing.T) {
	tool, err := NewTool(red, 4)
	require.NoError(t, err)
	assert.Equal(t, red, tool.Active)
	assert.Equal(t, red, tool.Remembered)
	assert.Equal(t, 4, tool.Width)
	assert.Equal(t, ModeBrush, tool.Mode)

	_, err = NewTool(red, 0)
	assert.ErrorIs(t, err, ErrInvalidWidth)
	_, err = NewTool(red, 11)
	assert.ErrorIs(t, err, ErrInvalidWidth)
}

func TestTool_SetWidthBounds(t *testing.T) {
	tool, err := NewTool(black, 1)
	require.NoError(t, err)
	for w := MinBrushWidth; w <= MaxBrushWidth; w++ {
		require.NoError(t, tool.SetWidth(w))
		assert.Equal(t, w, tool.Width)
	}
	assert.Error(t, tool.SetWidth(MaxBrushWidth+1))
	assert.Equal(t, MaxBrushWidth, tool.Width)
}

func TestTool_EraserTwiceKeepsBrushColour(t *testing.T) {
	tool, err := NewTool(red, 1)
	require.NoError(t, err)

	tool.UseEraser()
	tool.UseEraser()
	assert.Equal(t, document.Background, tool.Active)
	assert.Equal(t, "eraser", tool.Mode.String())

	tool.UseBrush()
	assert.Equal(t, red, tool.Active)
	assert.Equal(t, "brush", tool.Mode.String())
}

func TestTool_BrushWithoutEraserKeepsColour(t *testing.T) {
	tool, err := NewTool(blue, 2)
	require.NoError(t, err)
	tool.UseBrush()
	assert.Equal(t, blue, tool.Active)
}

func TestTool_SetColorLeavesEraser(t *testing.T) {
	tool, err := NewTool(red, 1)
	require.NoError(t, err)
	tool.UseEraser()

	tool.SetColor(color.NRGBA{G: 200, A: 10})
	want := color.NRGBA{G: 200, A: 255}
	assert.Equal(t, want, tool.Active, "ink is always opaque")
	assert.Equal(t, want, tool.Remembered)
	assert.Equal(t, ModeBrush, tool.Mode)
}

func TestClock_StampsInOrder(t *testing.T) {
	c := NewClock()
	assert.NotEmpty(t, c.Session())
	assert.NotEqual(t, c.Session(), NewClock().Session())

	var a, b Segment
	c.Stamp(&a)
	c.Stamp(&b)
	assert.Equal(t, uint64(1), a.Seq)
	assert.Equal(t, uint64(2), b.Seq)
	assert.Equal(t, uint64(2), c.Last())
}

func TestSegment_String(t *testing.T) {
	seg := Segment{From: image.Pt(1, 2), To: image.Pt(3, 4), Color: red, Width: 5, Seq: 7}
	assert.Equal(t, "#7 (1,2)->(3,4) #ff0000 w5", seg.String())
}
