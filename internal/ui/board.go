package ui

import (
	"image"
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"PaintBoard/internal/state"
)

// BoardWidget is the Display Surface: it renders each segment as soon as the
// Controller emits it and turns pointer input into Controller events. It
// keeps no pixels of its own beyond the backdrop it was last reset to.
type BoardWidget struct {
	widget.BaseWidget
	content *fyne.Container
	size    fyne.Size
	drawing bool

	OnEvent func(state.Event)
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Cursorable = (*BoardWidget)(nil)
var _ state.Surface = (*BoardWidget)(nil)

func NewBoardWidget() *BoardWidget {
	b := &BoardWidget{
		content: container.NewWithoutLayout(),
		size:    fyne.NewSize(300, 300),
	}
	b.ExtendBaseWidget(b)
	return b
}

// DrawSegment implements state.Surface. Round caps are drawn as dabs at both
// ends of the line.
func (b *BoardWidget) DrawSegment(seg state.Segment) {
	width := float32(seg.Width)
	p1, p2 := pixelCentre(seg.From), pixelCentre(seg.To)

	line := canvas.NewLine(seg.Color)
	line.StrokeWidth = width
	line.Position1 = p1
	line.Position2 = p2

	b.content.Add(line)
	b.content.Add(dab(p1, width, seg.Color))
	b.content.Add(dab(p2, width, seg.Color))
	b.content.Refresh()
}

// Reset implements state.Surface.
func (b *BoardWidget) Reset(backdrop image.Image) {
	bounds := backdrop.Bounds()
	b.size = fyne.NewSize(float32(bounds.Dx()), float32(bounds.Dy()))

	bg := canvas.NewImageFromImage(backdrop)
	bg.ScaleMode = canvas.ImageScalePixels
	bg.Move(fyne.NewPos(0, 0))
	bg.Resize(b.size)

	b.content.Objects = []fyne.CanvasObject{bg}
	b.content.Resize(b.size)
	b.Refresh()
}

// Strokes returns the number of canvas objects drawn on top of the backdrop.
func (b *BoardWidget) Strokes() int {
	return len(b.content.Objects) - 1
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	switch e.Button {
	case desktop.MouseButtonPrimary:
		b.drawing = true
		b.emit(state.EventPointerDown, e.Position)
	case desktop.MouseButtonSecondary:
		b.emit(state.EventPickColor, e.Position)
	}
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		b.endStroke()
	}
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	if b.drawing {
		b.emit(state.EventPointerMove, e.Position)
	}
}

// DragEnd may arrive instead of, or as well as, MouseUp.
func (b *BoardWidget) DragEnd() {
	b.endStroke()
}

func (b *BoardWidget) Cursor() desktop.Cursor {
	return desktop.CrosshairCursor
}

func (b *BoardWidget) endStroke() {
	if !b.drawing {
		return
	}
	b.drawing = false
	b.emit(state.EventPointerUp, fyne.Position{})
}

func (b *BoardWidget) emit(kind state.EventKind, pos fyne.Position) {
	if b.OnEvent != nil {
		b.OnEvent(state.Event{Kind: kind, Point: pixelAt(pos)})
	}
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	return &boardWidgetRenderer{board: b}
}

type boardWidgetRenderer struct {
	board *BoardWidget
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.board.content}
}

func (r *boardWidgetRenderer) Layout(fyne.Size) {
	r.board.content.Resize(r.board.size)
}

func (r *boardWidgetRenderer) MinSize() fyne.Size {
	return r.board.size
}

func (r *boardWidgetRenderer) Refresh() {
	r.board.content.Resize(r.board.size)
	canvas.Refresh(r.board.content)
}

func (r *boardWidgetRenderer) Destroy() {}

func dab(centre fyne.Position, width float32, c color.Color) *canvas.Circle {
	r := width / 2
	circle := canvas.NewCircle(c)
	circle.Position1 = fyne.NewPos(centre.X-r, centre.Y-r)
	circle.Position2 = fyne.NewPos(centre.X+r, centre.Y+r)
	return circle
}

// pixelAt maps a widget position to the document pixel under it.
func pixelAt(pos fyne.Position) image.Point {
	return image.Pt(int(math.Floor(float64(pos.X))), int(math.Floor(float64(pos.Y))))
}

func pixelCentre(p image.Point) fyne.Position {
	return fyne.NewPos(float32(p.X)+0.5, float32(p.Y)+0.5)
}
