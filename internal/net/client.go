package net

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
)

// CustomURLScheme prefixes share links handed out by a sharing board.
const CustomURLScheme = "paintboard://"

// ShareLink builds the link a viewer can be started with.
func ShareLink(host string, port int) string {
	return fmt.Sprintf("%s%s:%d", CustomURLScheme, host, port)
}

// ParseLink extracts host:port from a share link. Bare host:port is accepted too.
func ParseLink(link string) (string, error) {
	addr := strings.TrimPrefix(link, CustomURLScheme)
	addr = strings.TrimSuffix(addr, "/")
	if addr == "" || strings.ContainsAny(addr, "/ ") {
		return "", fmt.Errorf("bad share link %q", link)
	}
	return addr, nil
}

// Join connects to a shared board at addr and hands every message to apply,
// in order, until ctx is cancelled or the host goes away.
func Join(ctx context.Context, addr string, apply func(Message)) error {
	u := url.URL{Scheme: "ws", Host: addr, Path: BoardPath}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", u.String(), err)
	}
	defer conn.Close()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	log.Printf("[VIEWER] Connected to %s", addr)
	var last uint64
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return fmt.Errorf("read from %s: %w", addr, err)
		}
		switch msg.Type {
		case MsgSnapshot:
			last = msg.Seq
		case MsgSegment:
			if msg.Segment == nil {
				continue
			}
			if msg.Segment.Seq > last+1 {
				log.Printf("[VIEWER] Missed %d segments before #%d", msg.Segment.Seq-last-1, msg.Segment.Seq)
			}
			last = msg.Segment.Seq
		default:
			log.Printf("[VIEWER] Ignoring %q message", msg.Type)
			continue
		}
		apply(msg)
	}
}
