package ui

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"PaintBoard/internal/document"
	"PaintBoard/internal/state"
)

// dialogPrompter answers Controller prompts with Fyne dialogs. Dialog
// callbacks run on the UI goroutine, like every other Controller event.
type dialogPrompter struct {
	win fyne.Window
}

var _ state.Prompter = (*dialogPrompter)(nil)

func (p *dialogPrompter) ChooseColor(current color.NRGBA, done func(color.NRGBA, bool)) {
	picker := dialog.NewColorPicker("Choose colour", "Brush colour", func(c color.Color) {
		done(state.Opaque(c), true)
	}, p.win)
	picker.Advanced = true
	picker.SetColor(current)
	picker.Show()
}

func (p *dialogPrompter) ChooseSavePath(done func(string, bool)) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			p.Alert(err)
			done("", false)
			return
		}
		if writer == nil {
			done("", false)
			return
		}
		path := writer.URI().Path()
		if err := writer.Close(); err != nil {
			log.Printf("Error closing writer: %v", err)
		}
		// The dialog creates the chosen file. When the name lacks the
		// extension the export goes to name.png, so drop the empty stub.
		if !strings.EqualFold(filepath.Ext(path), ".png") {
			if fi, err := os.Stat(path); err == nil && fi.Size() == 0 {
				os.Remove(path)
			}
		}
		done(path, true)
	}, p.win)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".png"}))
	d.SetFileName("drawing.png")
	d.Show()
}

func (p *dialogPrompter) ChooseSize(width, height int, done func(int, int, bool)) {
	w := sizeEntry(width, document.MinWidth, document.MaxWidth)
	h := sizeEntry(height, document.MinHeight, document.MaxHeight)
	items := []*widget.FormItem{
		widget.NewFormItem("Width", w),
		widget.NewFormItem("Height", h),
	}
	dialog.ShowForm("New image", "Create", "Cancel", items, func(ok bool) {
		if !ok {
			done(0, 0, false)
			return
		}
		done(atoi(w.Text), atoi(h.Text), true)
	}, p.win)
}

func (p *dialogPrompter) Inform(message string) {
	dialog.ShowInformation("Information", message, p.win)
}

func (p *dialogPrompter) Alert(err error) {
	dialog.ShowError(err, p.win)
}

func sizeEntry(value, lo, hi int) *widget.Entry {
	e := widget.NewEntry()
	e.SetText(strconv.Itoa(value))
	e.SetPlaceHolder(fmt.Sprintf("%d-%d", lo, hi))
	e.Validator = intRange(lo, hi)
	return e
}

func intRange(lo, hi int) fyne.StringValidator {
	return func(s string) error {
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return errors.New("enter a whole number")
		}
		if v < lo || v > hi {
			return fmt.Errorf("must be between %d and %d", lo, hi)
		}
		return nil
	}
}

// atoi yields 0 for unparsable input, which size validation then rejects.
func atoi(s string) int {
	v, _ := strconv.Atoi(strings.TrimSpace(s))
	return v
}
