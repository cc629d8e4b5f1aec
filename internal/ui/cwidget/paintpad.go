package cwidget

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/disintegration/imaging"
	"golang.org/x/image/vector"
)

const diskSegments = 16

// PaintPad is a square freehand drawing surface: black ink on white.
type PaintPad struct {
	widget.BaseWidget

	size   int
	img    *image.RGBA
	raster *canvas.Raster

	// BrushWidth is read on every stroke so settings apply immediately.
	BrushWidth func() int
	onStroke   func()

	last    fyne.Position
	drawing bool
}

func NewPaintPad(size int, brushWidth func() int) *PaintPad {
	pad := &PaintPad{
		size:       size,
		img:        image.NewRGBA(image.Rect(0, 0, size, size)),
		BrushWidth: brushWidth,
	}

	pad.raster = canvas.NewRasterFromImage(pad.img)
	pad.raster.ScaleMode = canvas.ImageScalePixels
	pad.raster.SetMinSize(fyne.NewSize(float32(size), float32(size)))
	pad.fill()

	pad.ExtendBaseWidget(pad)

	return pad
}

func (p *PaintPad) CreateRenderer() fyne.WidgetRenderer {
	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = theme.Color(theme.ColorNameSeparator)
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(p.raster, border))
}

func (p *PaintPad) Dragged(e *fyne.DragEvent) {
	pos := p.toPixel(e.Position)
	if p.drawing {
		p.segment(p.last, pos)
	} else {
		p.dot(pos)
	}
	p.last = pos
	p.drawing = true
	p.changed()
}

func (p *PaintPad) DragEnd() {
	p.drawing = false
}

func (p *PaintPad) Tapped(e *fyne.PointEvent) {
	p.dot(p.toPixel(e.Position))
	p.changed()
}

// Clear erases every stroke.
func (p *PaintPad) Clear() {
	p.drawing = false
	p.fill()
	p.raster.Refresh()
}

// Export returns the drawing scaled to width x height.
func (p *PaintPad) Export(width, height int) image.Image {
	return imaging.Resize(p.img, width, height, imaging.Box)
}

// empty reports whether nothing has been drawn since the last Clear.
func (p *PaintPad) empty() bool {
	for i := 0; i < len(p.img.Pix); i++ {
		if p.img.Pix[i] != 0xff {
			return false
		}
	}
	return true
}

func (p *PaintPad) fill() {
	draw.Draw(p.img, p.img.Bounds(), image.White, image.Point{}, draw.Src)
}

func (p *PaintPad) changed() {
	p.raster.Refresh()
	if p.onStroke != nil {
		p.onStroke()
	}
}

func (p *PaintPad) toPixel(pos fyne.Position) fyne.Position {
	sz := p.Size()
	if sz.Width <= 0 || sz.Height <= 0 {
		return pos
	}
	return fyne.NewPos(pos.X*float32(p.size)/sz.Width, pos.Y*float32(p.size)/sz.Height)
}

func (p *PaintPad) radius() float32 {
	w := 1
	if p.BrushWidth != nil && p.BrushWidth() > 0 {
		w = p.BrushWidth()
	}
	return float32(w) / 2
}

// Each shape is rasterized on its own: overlapping paths of opposite
// winding would cancel inside a single rasterizer pass.
func (p *PaintPad) dot(c fyne.Position) {
	r := p.radius()
	z := vector.NewRasterizer(p.size, p.size)
	for i := 0; i <= diskSegments; i++ {
		a := 2 * math.Pi * float64(i) / diskSegments
		x := c.X + r*float32(math.Cos(a))
		y := c.Y + r*float32(math.Sin(a))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
	z.Draw(p.img, p.img.Bounds(), image.Black, image.Point{})
}

func (p *PaintPad) segment(a, b fyne.Position) {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := float32(math.Hypot(float64(dx), float64(dy)))
	if l > 0 {
		r := p.radius()
		nx, ny := -dy/l*r, dx/l*r

		z := vector.NewRasterizer(p.size, p.size)
		z.MoveTo(a.X+nx, a.Y+ny)
		z.LineTo(b.X+nx, b.Y+ny)
		z.LineTo(b.X-nx, b.Y-ny)
		z.LineTo(a.X-nx, a.Y-ny)
		z.ClosePath()
		z.Draw(p.img, p.img.Bounds(), image.Black, image.Point{})
	}
	p.dot(b)
}
