package ui

import (
	"errors"
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"PaintBoard/internal/document"
	"PaintBoard/internal/state"
)

// Window is the application window: menu, drawing region, control strip and
// status bar.
type Window struct {
	win       fyne.Window
	Board     *BoardWidget
	statusBar *widget.Label
	docInfo   *widget.Label
}

func NewWindow(a fyne.App, title string) *Window {
	w := &Window{
		win:       a.NewWindow(title),
		Board:     NewBoardWidget(),
		statusBar: widget.NewLabel("Ready"),
		docInfo:   widget.NewLabel(""),
	}
	w.win.Resize(fyne.NewSize(1024, 768))
	return w
}

// Prompter returns the dialog collaborator for the Controller.
func (w *Window) Prompter() state.Prompter {
	return &dialogPrompter{win: w.win}
}

// Bind wires the widgets to ctrl. A read-only window (a viewer of a shared
// board) gets no drawing tools, only saving.
func (w *Window) Bind(ctrl *state.Controller, readOnly bool) {
	dispatch := func(ev state.Event) {
		if err := ctrl.HandleEvent(ev); err != nil && !errors.Is(err, document.ErrOutOfBounds) {
			log.Printf("[BOARD] %s: %v", ev.Kind, err)
		}
	}
	send := func(kind state.EventKind) func() {
		return func() { dispatch(state.Event{Kind: kind}) }
	}
	ctrl.OnDocumentChange = w.showDocument
	w.showDocument(ctrl.Document())

	save := fyne.NewMenuItem("Save", send(state.EventSave))
	w.win.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { dispatch(state.Event{Kind: state.EventSave}) })

	bottom := []fyne.CanvasObject{}
	if readOnly {
		w.win.SetMainMenu(fyne.NewMainMenu(fyne.NewMenu("File", save)))
	} else {
		w.Board.OnEvent = dispatch

		toolbar := NewToolbar(ctrl.Tool(), dispatch)
		ctrl.OnToolChange = toolbar.Update
		bottom = append(bottom, toolbar.Object())

		w.win.SetMainMenu(fyne.NewMainMenu(fyne.NewMenu("File",
			fyne.NewMenuItem("New image", send(state.EventNewDocument)),
			fyne.NewMenuItemSeparator(),
			save,
		)))
		w.win.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyC, Modifier: fyne.KeyModifierShortcutDefault},
			func(fyne.Shortcut) { dispatch(state.Event{Kind: state.EventChooseColor}) })
	}
	bottom = append(bottom, container.NewHBox(w.statusBar, w.docInfo))

	content := container.NewBorder(nil, container.NewVBox(bottom...), nil, nil, container.NewScroll(w.Board))
	w.win.SetContent(content)
}

// SetStatus may be called from any goroutine.
func (w *Window) SetStatus(text string) {
	fyne.Do(func() {
		w.statusBar.SetText(text)
	})
}

func (w *Window) ShowAndRun() {
	w.win.ShowAndRun()
}

func (w *Window) showDocument(doc *document.Document) {
	w.docInfo.SetText(fmt.Sprintf("%d × %d", doc.Width(), doc.Height()))
}
