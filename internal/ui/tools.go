package ui

import (
	"image/color"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"PaintBoard/internal/state"
)

// --- Custom Widget for the current colour ---
type colorSwatch struct {
	widget.BaseWidget
	rect     *canvas.Rectangle
	OnTapped func()
}

func newColorSwatch(c color.Color, tapped func()) *colorSwatch {
	rect := canvas.NewRectangle(c)
	rect.SetMinSize(fyne.NewSize(32, 32))
	rect.StrokeColor = color.Gray{Y: 150}
	rect.StrokeWidth = 1

	s := &colorSwatch{rect: rect, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) SetColor(c color.Color) {
	s.rect.FillColor = c
	s.rect.Refresh()
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(s.rect)
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped()
	}
}

// Toolbar is the control strip: clear, colour, brush, eraser, width, save.
type Toolbar struct {
	swatch  *colorSwatch
	hex     *widget.Label
	widths  *widget.Select
	content fyne.CanvasObject
}

func NewToolbar(tool state.Tool, dispatch func(state.Event)) *Toolbar {
	send := func(kind state.EventKind) func() {
		return func() { dispatch(state.Event{Kind: kind}) }
	}

	t := &Toolbar{
		swatch: newColorSwatch(tool.Active, send(state.EventChooseColor)),
		hex:    widget.NewLabel(""),
	}

	tools := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentCreateIcon(), send(state.EventUseBrush)), // Brush
		widget.NewToolbarAction(theme.ContentClearIcon(), send(state.EventUseEraser)),  // Eraser
	)

	options := make([]string, 0, state.MaxBrushWidth)
	for w := state.MinBrushWidth; w <= state.MaxBrushWidth; w++ {
		options = append(options, strconv.Itoa(w))
	}
	t.widths = widget.NewSelect(options, nil)
	t.widths.SetSelected(strconv.Itoa(tool.Width))
	t.widths.OnChanged = func(s string) {
		w, err := strconv.Atoi(s)
		if err != nil {
			return
		}
		dispatch(state.Event{Kind: state.EventSetWidth, Width: w})
	}

	t.content = container.NewHBox(
		widget.NewButtonWithIcon("Clear", theme.ViewRefreshIcon(), send(state.EventClear)),
		widget.NewButtonWithIcon("Choose colour", theme.ColorPaletteIcon(), send(state.EventChooseColor)),
		t.swatch,
		t.hex,
		widget.NewSeparator(),
		widget.NewLabel("Tool:"),
		tools,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		t.widths,
		layout.NewSpacer(),
		widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), send(state.EventSave)),
	)
	t.Update(tool)
	return t
}

// Update echoes the tool state: swatch, hex code and mode.
func (t *Toolbar) Update(tool state.Tool) {
	t.swatch.SetColor(tool.Active)
	t.hex.SetText(state.HexColor(tool.Active) + " " + tool.Mode.String())
	if w := strconv.Itoa(tool.Width); t.widths.Selected != w {
		t.widths.Selected = w
		t.widths.Refresh()
	}
}

func (t *Toolbar) Object() fyne.CanvasObject {
	return t.content
}
