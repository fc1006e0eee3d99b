package state

import (
	"errors"
	"fmt"
	"image/color"

	"PaintBoard/internal/document"
)

const (
	MinBrushWidth = 1
	MaxBrushWidth = 10
)

var ErrInvalidWidth = errors.New("invalid brush width")

type Mode int

const (
	ModeBrush Mode = iota
	ModeEraser
)

func (m Mode) String() string {
	if m == ModeEraser {
		return "eraser"
	}
	return "brush"
}

// Tool holds the ink the next segment will be drawn with. Remembered is the
// brush colour set aside while the eraser is active.
type Tool struct {
	Active     color.NRGBA
	Remembered color.NRGBA
	Width      int
	Mode       Mode
}

func NewTool(ink color.NRGBA, width int) (Tool, error) {
	t := Tool{Active: ink, Remembered: ink, Width: MinBrushWidth}
	if err := t.SetWidth(width); err != nil {
		return Tool{}, err
	}
	return t, nil
}

// UseEraser switches to background ink. The brush colour is only set aside
// when it is not the background already, so pressing the eraser twice keeps
// the real brush colour.
func (t *Tool) UseEraser() {
	if t.Active != document.Background {
		t.Remembered = t.Active
	}
	t.Active = document.Background
	t.Mode = ModeEraser
}

// UseBrush restores the colour set aside by UseEraser.
func (t *Tool) UseBrush() {
	t.Active = t.Remembered
	t.Mode = ModeBrush
}

// SetColor picks new brush ink. Choosing a colour always returns to the brush.
func (t *Tool) SetColor(c color.NRGBA) {
	c.A = 255
	t.Active = c
	t.Remembered = c
	t.Mode = ModeBrush
}

func (t *Tool) SetWidth(w int) error {
	if w < MinBrushWidth || w > MaxBrushWidth {
		return fmt.Errorf("%w: %d not in [%d,%d]", ErrInvalidWidth, w, MinBrushWidth, MaxBrushWidth)
	}
	t.Width = w
	return nil
}
