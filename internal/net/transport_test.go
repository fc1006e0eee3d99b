package net

import (
	"context"
	"image"
	"image/color"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PaintBoard/internal/document"
	"PaintBoard/internal/state"
)

var black = color.NRGBA{A: 255}

func newSharedHub(t *testing.T, w, h int) (*Hub, string) {
	t.Helper()
	doc, err := document.New(w, h, document.Background)
	require.NoError(t, err)
	hub := NewHub()
	hub.Reset(doc.Snapshot())

	srv := httptest.NewServer(hub)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, strings.TrimPrefix(srv.URL, "http://")
}

// join starts a viewer and returns its message stream and a stop func that
// waits for Join to return.
func join(t *testing.T, addr string) (<-chan Message, func() error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	msgs := make(chan Message, 64)
	done := make(chan error, 1)
	go func() {
		done <- Join(ctx, addr, func(m Message) { msgs <- m })
	}()
	stop := func() error {
		cancel()
		select {
		case err := <-done:
			return err
		case <-time.After(5 * time.Second):
			t.Fatal("Join did not return")
			return nil
		}
	}
	t.Cleanup(func() { cancel() })
	return msgs, stop
}

func next(t *testing.T, msgs <-chan Message) Message {
	t.Helper()
	select {
	case m := <-msgs:
		return m
	case <-time.After(5 * time.Second):
		t.Fatal("no message from host")
		return Message{}
	}
}

func TestHub_SnapshotThenSegments(t *testing.T) {
	hub, addr := newSharedHub(t, 120, 100)
	msgs, stop := join(t, addr)

	first := next(t, msgs)
	require.Equal(t, MsgSnapshot, first.Type)
	doc, err := first.Document()
	require.NoError(t, err)
	assert.Equal(t, 120, doc.Width())
	assert.Equal(t, 100, doc.Height())
	assert.Equal(t, 1, hub.Viewers())

	seg := state.Segment{From: image.Pt(10, 10), To: image.Pt(50, 10), Color: black, Width: 3, Seq: 1}
	hub.DrawSegment(seg)

	m := next(t, msgs)
	require.Equal(t, MsgSegment, m.Type)
	require.NotNil(t, m.Segment)
	assert.Equal(t, seg, *m.Segment)

	assert.NoError(t, stop())
	require.Eventually(t, func() bool { return hub.Viewers() == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestHub_LateViewerSeesEarlierStrokes(t *testing.T) {
	hub, addr := newSharedHub(t, 120, 100)
	hub.DrawSegment(state.Segment{From: image.Pt(10, 20), To: image.Pt(90, 20), Color: black, Width: 5, Seq: 1})
	hub.DrawSegment(state.Segment{From: image.Pt(90, 20), To: image.Pt(90, 80), Color: black, Width: 5, Seq: 2})

	msgs, stop := join(t, addr)
	first := next(t, msgs)
	require.Equal(t, MsgSnapshot, first.Type)
	assert.Equal(t, uint64(2), first.Seq)

	doc, err := first.Document()
	require.NoError(t, err)
	px, err := doc.Pixel(50, 20)
	require.NoError(t, err)
	assert.Equal(t, black, px)
	px, err = doc.Pixel(90, 60)
	require.NoError(t, err)
	assert.Equal(t, black, px)

	assert.NoError(t, stop())
}

func TestHub_ResetSendsNewSnapshot(t *testing.T) {
	hub, addr := newSharedHub(t, 120, 100)
	msgs, stop := join(t, addr)
	require.Equal(t, MsgSnapshot, next(t, msgs).Type)

	fresh, err := document.New(300, 200, document.Background)
	require.NoError(t, err)
	hub.Reset(fresh.Snapshot())

	m := next(t, msgs)
	require.Equal(t, MsgSnapshot, m.Type)
	assert.Equal(t, 300, m.Width)
	assert.Equal(t, 200, m.Height)

	assert.NoError(t, stop())
}

func TestHub_CloseEndsJoin(t *testing.T) {
	hub, addr := newSharedHub(t, 100, 100)
	msgs, stop := join(t, addr)
	require.Equal(t, MsgSnapshot, next(t, msgs).Type)

	hub.Close()
	assert.Equal(t, 0, hub.Viewers())
	assert.NoError(t, stop())
}

func TestHub_ServeStopsWithContext(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.Serve(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not stop")
	}
}

func TestJoin_DialFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := Join(ctx, "127.0.0.1:1", func(Message) {})
	assert.Error(t, err)
}

func TestShareLink(t *testing.T) {
	link := ShareLink("192.168.1.7", 8888)
	assert.Equal(t, "paintboard://192.168.1.7:8888", link)

	addr, err := ParseLink(link)
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.7:8888", addr)

	addr, err = ParseLink("localhost:9000/")
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", addr)

	for _, bad := range []string{"", CustomURLScheme, "paintboard://a b:1", "paintboard://host:1/x"} {
		_, err := ParseLink(bad)
		assert.Error(t, err, bad)
	}
}

func TestMessage_Document(t *testing.T) {
	doc, err := document.New(40, 30, document.Background)
	require.NoError(t, err)
	msg, err := snapshotMessage(doc, 9)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), msg.Seq)

	got, err := msg.Document()
	require.NoError(t, err)
	assert.Equal(t, doc.Snapshot().Pix, got.Snapshot().Pix)

	msg.Width = 41
	_, err = msg.Document()
	assert.Error(t, err)

	_, err = Message{Type: MsgSegment}.Document()
	assert.Error(t, err)
}
