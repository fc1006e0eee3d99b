package document

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// Bounds accepted by the "new document" prompt.
const (
	MinWidth  = 100
	MaxWidth  = 1500
	MinHeight = 100
	MaxHeight = 800

	DefaultWidth  = 600
	DefaultHeight = 400
)

// Background is the paper colour of every fresh document and the eraser ink.
var Background = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

var (
	ErrInvalidSize = errors.New("invalid document size")
	ErrOutOfBounds = errors.New("point outside document")
)

// Document is the authoritative pixel grid that gets exported.
type Document struct {
	img *image.NRGBA
}

// New creates a width x height document with every pixel set to fill.
func New(width, height int, fill color.Color) (*Document, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return &Document{img: imaging.New(width, height, opaque(fill))}, nil
}

// ValidateSize checks a user-chosen size against the new-document bounds.
func ValidateSize(width, height int) error {
	if width < MinWidth || width > MaxWidth || height < MinHeight || height > MaxHeight {
		return fmt.Errorf("%w: %dx%d (width %d-%d, height %d-%d)",
			ErrInvalidSize, width, height, MinWidth, MaxWidth, MinHeight, MaxHeight)
	}
	return nil
}

// FromImage copies img into a new document anchored at the origin.
// Transparent pixels are flattened onto the background.
func FromImage(img image.Image) (*Document, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, b.Dx(), b.Dy())
	}
	flat := imaging.New(b.Dx(), b.Dy(), Background)
	flat = imaging.Overlay(flat, img, image.Pt(0, 0), 1.0)
	return &Document{img: flat}, nil
}

// Decode reads an image (PNG or any format imaging understands) as a document.
func Decode(r io.Reader) (*Document, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return FromImage(img)
}

// Load reads a previously exported file.
func Load(path string) (*Document, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return FromImage(img)
}

func (d *Document) Width() int  { return d.img.Rect.Dx() }
func (d *Document) Height() int { return d.img.Rect.Dy() }

func (d *Document) Bounds() image.Rectangle { return d.img.Rect }

// Pixel returns the colour at (x, y).
func (d *Document) Pixel(x, y int) (color.NRGBA, error) {
	if !image.Pt(x, y).In(d.img.Rect) {
		return color.NRGBA{}, fmt.Errorf("%w: (%d,%d) not in %dx%d", ErrOutOfBounds, x, y, d.Width(), d.Height())
	}
	return d.img.NRGBAAt(x, y), nil
}

// Snapshot returns an independent copy of the pixels.
func (d *Document) Snapshot() *image.NRGBA {
	return imaging.Clone(d.img)
}

// Encode writes the document as an RGB PNG.
func (d *Document) Encode(w io.Writer) error {
	return imaging.Encode(w, d.img, imaging.PNG)
}

// Export writes the document as a PNG at path. The file is written next to
// its destination and renamed into place, so a failed export leaves neither a
// partial file nor a modified document behind.
func (d *Document) Export(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".paintboard-*.png")
	if err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := d.Encode(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("export %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	return nil
}

func opaque(c color.Color) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = 255
	return n
}
