package main

import (
	"context"
	"fmt"
	"image/color"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/tdewolff/argp"

	"PaintBoard/internal/document"
	"PaintBoard/internal/net"
	"PaintBoard/internal/state"
	"PaintBoard/internal/ui"
)

const (
	AppID          = "io.paintboard"
	DiscoverLink   = "discover"
	DiscoverWindow = 3 * time.Second
)

type Options struct {
	Width   int    `default:"600" desc:"Canvas width in pixels (100-1500)"`
	Height  int    `default:"400" desc:"Canvas height in pixels (100-800)"`
	Color   string `short:"c" default:"black" desc:"Brush colour, a name or #rrggbb"`
	Brush   int    `short:"b" default:"1" desc:"Brush width (1-10)"`
	Share   bool   `short:"s" desc:"Share the board with viewers on the local network"`
	Port    int    `short:"p" default:"8888" desc:"Port to share the board on"`
	Verbose bool   `short:"v" desc:"Log every segment"`
	Join    string `index:"0" desc:"Share link to watch, or 'discover' to find one"`
}

func main() {
	root := argp.NewCmd(&Options{}, "PaintBoard: freehand raster drawing with PNG export")
	root.Parse()
	root.PrintHelp()
}

func (o *Options) Run() error {
	if err := document.ValidateSize(o.Width, o.Height); err != nil {
		return err
	}
	ink, err := state.ParseColor(o.Color)
	if err != nil {
		return err
	}
	tool, err := state.NewTool(ink, o.Brush)
	if err != nil {
		return err
	}
	doc, err := document.New(o.Width, o.Height, document.Background)
	if err != nil {
		return err
	}

	if o.Join != "" {
		return runViewer(o, doc)
	}
	return runEditor(o, doc, tool)
}

func runEditor(o *Options, doc *document.Document, tool state.Tool) error {
	log.Println("Starting PaintBoard")
	w := ui.NewWindow(app.NewWithID(AppID), "PaintBoard")
	ctrl := state.NewController(doc, tool, w.Board, w.Prompter())
	ctrl.Verbose = o.Verbose
	w.Bind(ctrl, false)

	if o.Share {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		hub := net.NewHub()
		ctrl.AddSurface(hub)
		go func() {
			if err := hub.Serve(ctx, fmt.Sprintf(":%d", o.Port)); err != nil {
				log.Printf("[HUB] %v", err)
				w.SetStatus(fmt.Sprintf("Sharing failed: %v", err))
			}
		}()

		if server, err := net.Advertise(o.Port); err != nil {
			log.Printf("[MDNS] %v", err)
		} else {
			defer server.Shutdown()
		}

		link := net.ShareLink(net.OutgoingIP(), o.Port)
		log.Printf("[HUB] Share link: %s", link)
		w.SetStatus("Sharing at " + link)
	}

	w.ShowAndRun()
	return nil
}

func runViewer(o *Options, doc *document.Document) error {
	addr, err := resolveJoin(o.Join)
	if err != nil {
		return err
	}
	log.Println("Starting PaintBoard viewer for", addr)

	tool, _ := state.NewTool(color.NRGBA{A: 255}, state.MinBrushWidth)
	w := ui.NewWindow(app.NewWithID(AppID), "PaintBoard viewer")
	ctrl := state.NewController(doc, tool, w.Board, w.Prompter())
	ctrl.Verbose = o.Verbose
	w.Bind(ctrl, true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		w.SetStatus("Connecting to " + addr)
		err := net.Join(ctx, addr, func(msg net.Message) {
			switch msg.Type {
			case net.MsgSnapshot:
				snapshot, err := msg.Document()
				if err != nil {
					log.Printf("[VIEWER] Bad snapshot: %v", err)
					return
				}
				fyne.Do(func() { ctrl.Replace(snapshot) })
				w.SetStatus("Watching " + addr)
			case net.MsgSegment:
				seg := *msg.Segment
				fyne.Do(func() { ctrl.ApplySegment(seg) })
			}
		})
		if err != nil {
			log.Printf("[VIEWER] %v", err)
			w.SetStatus(fmt.Sprintf("Disconnected from host: %v", err))
			return
		}
		w.SetStatus("Host closed the board")
	}()

	w.ShowAndRun()
	return nil
}

func resolveJoin(link string) (string, error) {
	if link != DiscoverLink {
		return net.ParseLink(link)
	}
	log.Println("[MDNS] Looking for a shared board...")
	return net.Discover(DiscoverWindow)
}
