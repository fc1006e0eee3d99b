package state

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"path/filepath"
	"strings"

	"PaintBoard/internal/document"
)

// Prompter is the set of dialogs the Controller needs. Every prompt reports
// back through done with ok set to false on cancellation; a dialog that cannot
// tell cancellation apart may simply never call done.
type Prompter interface {
	ChooseColor(current color.NRGBA, done func(c color.NRGBA, ok bool))
	ChooseSavePath(done func(path string, ok bool))
	ChooseSize(width, height int, done func(width, height int, ok bool))
	Inform(message string)
	Alert(err error)
}

// Controller owns the document, the tool and the pointer track, and feeds
// every segment to the document and all surfaces in the same order.
//
// It is not safe for concurrent use; all events are expected on the UI
// goroutine.
type Controller struct {
	doc      *document.Document
	display  Surface
	mirrors  []Surface
	prompter Prompter
	clock    *Clock

	tool     Tool
	last     image.Point
	stroking bool

	Verbose          bool
	OnToolChange     func(Tool)
	OnDocumentChange func(*document.Document)
}

// NewController takes ownership of doc and paints it onto display.
func NewController(doc *document.Document, tool Tool, display Surface, prompter Prompter) *Controller {
	c := &Controller{
		doc:      doc,
		display:  display,
		prompter: prompter,
		clock:    NewClock(),
		tool:     tool,
	}
	display.Reset(doc.Snapshot())
	return c
}

// AddSurface registers an extra surface (a live mirror) and brings it up to
// date with the current document.
func (c *Controller) AddSurface(s Surface) {
	s.Reset(c.doc.Snapshot())
	c.mirrors = append(c.mirrors, s)
}

func (c *Controller) Document() *document.Document { return c.doc }
func (c *Controller) Tool() Tool                    { return c.tool }
func (c *Controller) Clock() *Clock                 { return c.clock }

// Stroking reports whether a pointer is down.
func (c *Controller) Stroking() bool { return c.stroking }

// HandleEvent is the single entry point for pointer input and tool commands.
// User-facing failures are also reported through the Prompter; the returned
// error is for callers that want to branch on it.
func (c *Controller) HandleEvent(ev Event) error {
	switch ev.Kind {
	case EventPointerDown:
		c.last = ev.Point
		c.stroking = true
	case EventPointerMove:
		if !c.stroking {
			return nil
		}
		c.emit(c.last, ev.Point)
		c.last = ev.Point
	case EventPointerUp:
		c.stroking = false
		c.last = image.Point{}
	case EventPickColor:
		return c.pickColor(ev.Point)
	case EventUseBrush:
		c.tool.UseBrush()
		c.toolChanged()
	case EventUseEraser:
		c.tool.UseEraser()
		c.toolChanged()
	case EventSetColor:
		c.tool.SetColor(ev.Color)
		c.toolChanged()
	case EventSetWidth:
		if err := c.tool.SetWidth(ev.Width); err != nil {
			c.prompter.Alert(err)
			return err
		}
		c.toolChanged()
	case EventChooseColor:
		c.prompter.ChooseColor(c.tool.Active, func(col color.NRGBA, ok bool) {
			if !ok {
				return
			}
			c.HandleEvent(Event{Kind: EventSetColor, Color: col})
		})
	case EventClear:
		doc, err := document.New(c.doc.Width(), c.doc.Height(), document.Background)
		if err != nil {
			return err
		}
		log.Printf("[BOARD] Cleared %dx%d document", doc.Width(), doc.Height())
		c.install(doc)
	case EventNewDocument:
		c.promptSize(c.doc.Width(), c.doc.Height())
	case EventResize:
		return c.resize(ev.Size.X, ev.Size.Y)
	case EventSave:
		c.prompter.ChooseSavePath(func(path string, ok bool) {
			if !ok {
				return
			}
			c.HandleEvent(Event{Kind: EventExport, Path: path})
		})
	case EventExport:
		return c.export(ev.Path)
	default:
		return fmt.Errorf("unknown event %v", ev.Kind)
	}
	return nil
}

// ApplySegment draws a segment produced elsewhere, leaving the tool and the
// pointer track alone.
func (c *Controller) ApplySegment(seg Segment) {
	c.apply(seg)
}

// Replace swaps in a whole new document, as "new document" does.
func (c *Controller) Replace(doc *document.Document) {
	c.install(doc)
}

func (c *Controller) emit(from, to image.Point) {
	seg := Segment{From: from, To: to, Color: c.tool.Active, Width: c.tool.Width}
	c.clock.Stamp(&seg)
	c.apply(seg)
}

func (c *Controller) apply(seg Segment) {
	if c.Verbose {
		log.Printf("[BOARD] segment %v", seg)
	}
	c.doc.DrawSegment(seg.From, seg.To, seg.Color, seg.Width)
	c.display.DrawSegment(seg)
	for _, m := range c.mirrors {
		m.DrawSegment(seg)
	}
}

func (c *Controller) install(doc *document.Document) {
	c.doc = doc
	backdrop := doc.Snapshot()
	c.display.Reset(backdrop)
	for _, m := range c.mirrors {
		m.Reset(backdrop)
	}
	if c.OnDocumentChange != nil {
		c.OnDocumentChange(doc)
	}
}

func (c *Controller) pickColor(p image.Point) error {
	px, err := c.doc.Pixel(p.X, p.Y)
	if err != nil {
		log.Printf("[BOARD] Eyedropper ignored: %v", err)
		return fmt.Errorf("pick colour: %w", err)
	}
	c.tool.SetColor(px)
	log.Printf("[BOARD] Picked %s at %v", HexColor(px), p)
	c.toolChanged()
	return nil
}

func (c *Controller) promptSize(width, height int) {
	c.prompter.ChooseSize(width, height, func(w, h int, ok bool) {
		if !ok {
			log.Println("[BOARD] New document cancelled")
			return
		}
		if err := c.resize(w, h); errors.Is(err, document.ErrInvalidSize) {
			c.promptSize(w, h)
		}
	})
}

func (c *Controller) resize(width, height int) error {
	if err := document.ValidateSize(width, height); err != nil {
		c.prompter.Alert(err)
		return err
	}
	doc, err := document.New(width, height, document.Background)
	if err != nil {
		c.prompter.Alert(err)
		return err
	}
	log.Printf("[BOARD] New %dx%d document", width, height)
	c.install(doc)
	return nil
}

func (c *Controller) export(path string) error {
	if !strings.EqualFold(filepath.Ext(path), ".png") {
		path += ".png"
	}
	if err := c.doc.Export(path); err != nil {
		log.Printf("[BOARD] Export failed: %v", err)
		c.prompter.Alert(fmt.Errorf("could not save image: %w", err))
		return err
	}
	log.Printf("[BOARD] Exported %dx%d document to %s", c.doc.Width(), c.doc.Height(), path)
	c.prompter.Inform("Image saved to " + path)
	return nil
}

func (c *Controller) toolChanged() {
	if c.OnToolChange != nil {
		c.OnToolChange(c.tool)
	}
}
