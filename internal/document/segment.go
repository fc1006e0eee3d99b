package document

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/vector"
)

// coverageThreshold is the mask value from which a pixel takes the ink colour.
// Strokes are hard-edged so exports stay flat-coloured.
const coverageThreshold = 0x80

// DrawSegment paints a line of the given width from one pixel to another with
// round caps. Pointer coordinates address pixel centres, so a width-1 line
// between two points of the same column fills exactly that column, and a
// segment whose endpoints coincide leaves a round dab. The stroke is clipped
// to the document.
func (d *Document) DrawSegment(from, to image.Point, c color.NRGBA, width int) {
	if width < 1 {
		width = 1
	}
	c.A = 255
	r := float64(width) / 2

	x0, y0 := float64(from.X)+0.5, float64(from.Y)+0.5
	x1, y1 := float64(to.X)+0.5, float64(to.Y)+0.5

	box := image.Rect(
		int(math.Floor(math.Min(x0, x1)-r)), int(math.Floor(math.Min(y0, y1)-r)),
		int(math.Ceil(math.Max(x0, x1)+r)), int(math.Ceil(math.Max(y0, y1)+r)),
	).Intersect(d.img.Rect)
	if box.Empty() {
		return
	}

	ras := vector.NewRasterizer(box.Dx(), box.Dy())
	ox, oy := float64(box.Min.X), float64(box.Min.Y)
	capsule(ras, x0-ox, y0-oy, x1-ox, y1-oy, r)

	mask := image.NewAlpha(image.Rect(0, 0, box.Dx(), box.Dy()))
	ras.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	for y := 0; y < box.Dy(); y++ {
		row := mask.Pix[y*mask.Stride : y*mask.Stride+box.Dx()]
		for x, a := range row {
			if a >= coverageThreshold {
				d.img.SetNRGBA(box.Min.X+x, box.Min.Y+y, c)
			}
		}
	}
}

// capsule traces the outline of a stroked segment: a half circle around the
// end point, the far edge, a half circle around the start point and the near
// edge. With coincident endpoints the two halves form a full circle.
func capsule(ras *vector.Rasterizer, x0, y0, x1, y1, r float64) {
	theta := math.Atan2(y1-y0, x1-x0)
	steps := int(math.Max(8, math.Ceil(r*4)))

	first := true
	arc := func(cx, cy, start float64) {
		for i := 0; i <= steps; i++ {
			a := start + math.Pi*float64(i)/float64(steps)
			px, py := float32(cx+r*math.Cos(a)), float32(cy+r*math.Sin(a))
			if first {
				ras.MoveTo(px, py)
				first = false
				continue
			}
			ras.LineTo(px, py)
		}
	}
	arc(x1, y1, theta-math.Pi/2)
	arc(x0, y0, theta+math.Pi/2)
	ras.ClosePath()
}
