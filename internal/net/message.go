package net

import (
	"bytes"
	"fmt"

	"PaintBoard/internal/document"
	"PaintBoard/internal/state"
)

// BoardPath is where a shared board accepts websocket viewers.
const BoardPath = "/board"

const (
	MsgSnapshot = "snapshot"
	MsgSegment  = "segment"
)

// Message is one JSON frame sent to viewers. A snapshot carries the PNG
// encoding of the whole board and the sequence number of the last segment it
// already contains.
type Message struct {
	Type    string         `json:"type"`
	Segment *state.Segment `json:"segment,omitempty"`
	Width   int            `json:"width,omitempty"`
	Height  int            `json:"height,omitempty"`
	Image   []byte         `json:"image,omitempty"`
	Seq     uint64         `json:"seq,omitempty"`
}

func snapshotMessage(doc *document.Document, seq uint64) (Message, error) {
	var buf bytes.Buffer
	if err := doc.Encode(&buf); err != nil {
		return Message{}, fmt.Errorf("encode snapshot: %w", err)
	}
	return Message{
		Type:   MsgSnapshot,
		Width:  doc.Width(),
		Height: doc.Height(),
		Image:  buf.Bytes(),
		Seq:    seq,
	}, nil
}

// Document decodes the board carried by a snapshot message.
func (m Message) Document() (*document.Document, error) {
	if m.Type != MsgSnapshot {
		return nil, fmt.Errorf("%s message carries no image", m.Type)
	}
	doc, err := document.Decode(bytes.NewReader(m.Image))
	if err != nil {
		return nil, err
	}
	if doc.Width() != m.Width || doc.Height() != m.Height {
		return nil, fmt.Errorf("snapshot is %dx%d, header says %dx%d", doc.Width(), doc.Height(), m.Width, m.Height)
	}
	return doc, nil
}
