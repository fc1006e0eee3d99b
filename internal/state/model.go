package state

import (
	"fmt"
	"image"
	"image/color"
)

// Segment is a single straight draw command between two consecutive pointer
// positions of a stroke.
type Segment struct {
	From  image.Point `json:"from"`
	To    image.Point `json:"to"`
	Color color.NRGBA `json:"color"`
	Width int         `json:"width"`
	Seq   uint64      `json:"seq"`
}

func (s Segment) String() string {
	return fmt.Sprintf("#%d %v->%v %s w%d", s.Seq, s.From, s.To, HexColor(s.Color), s.Width)
}

// Surface consumes the segments a stroke produces. The Display Surface and
// any live mirror implement it; the Document Buffer is driven directly.
type Surface interface {
	DrawSegment(seg Segment)
	// Reset discards everything drawn so far and repaints backdrop, which
	// also fixes the surface size.
	Reset(backdrop image.Image)
}

type EventKind int

const (
	EventPointerDown EventKind = iota
	EventPointerMove
	EventPointerUp
	EventPickColor
	EventUseBrush
	EventUseEraser
	EventSetColor
	EventSetWidth
	EventChooseColor
	EventClear
	EventNewDocument
	EventResize
	EventSave
	EventExport
)

var eventNames = [...]string{
	EventPointerDown: "pointer_down",
	EventPointerMove: "pointer_move",
	EventPointerUp:   "pointer_up",
	EventPickColor:   "pick_color",
	EventUseBrush:    "use_brush",
	EventUseEraser:   "use_eraser",
	EventSetColor:    "set_color",
	EventSetWidth:    "set_width",
	EventChooseColor: "choose_color",
	EventClear:       "clear",
	EventNewDocument: "new_document",
	EventResize:      "resize",
	EventSave:        "save",
	EventExport:      "export",
}

func (k EventKind) String() string {
	if k >= 0 && int(k) < len(eventNames) {
		return eventNames[k]
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event is the payload of Controller.HandleEvent. Only the fields relevant to
// Kind are read.
type Event struct {
	Kind  EventKind
	Point image.Point // pointer events, pick_color
	Color color.NRGBA // set_color
	Width int         // set_width
	Size  image.Point // resize
	Path  string      // export
}
