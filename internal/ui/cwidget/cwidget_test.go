package cwidget

import (
	"image"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inkAt(img image.Image, x, y int) bool {
	r, g, b, _ := img.At(x, y).RGBA()
	return r != 0xffff || g != 0xffff || b != 0xffff
}

func newPad(t *testing.T) *PaintPad {
	test.NewTempApp(t)

	pad := NewPaintPad(280, func() int { return 20 })
	pad.Resize(fyne.NewSize(140, 140))
	return pad
}

func TestPaintPadStartsBlank(t *testing.T) {
	pad := newPad(t)

	assert.True(t, pad.empty())
	small := pad.Export(28, 28)
	require.Equal(t, image.Rect(0, 0, 28, 28), small.Bounds())
	for y := 0; y < 28; y++ {
		for x := 0; x < 28; x++ {
			require.False(t, inkAt(small, x, y), "pixel %d,%d", x, y)
		}
	}
}

func TestPaintPadTapScalesToPixels(t *testing.T) {
	pad := newPad(t)
	strokes := 0
	pad.onStroke = func() { strokes++ }

	// widget is half the backing size, so (35, 35) lands on pixel (70, 70)
	pad.Tapped(&fyne.PointEvent{Position: fyne.NewPos(35, 35)})

	assert.False(t, pad.empty())
	assert.Equal(t, 1, strokes)
	assert.True(t, inkAt(pad.img, 70, 70))
	assert.False(t, inkAt(pad.img, 35, 35))

	small := pad.Export(28, 28)
	assert.True(t, inkAt(small, 7, 7))
	assert.False(t, inkAt(small, 20, 20))
}

func TestPaintPadDragDrawsLine(t *testing.T) {
	pad := newPad(t)

	pad.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(10, 70)}})
	pad.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(130, 70)}})
	pad.DragEnd()

	for x := 20; x <= 260; x += 20 {
		assert.True(t, inkAt(pad.img, x, 140), "x=%d", x)
	}
	assert.False(t, inkAt(pad.img, 140, 40))
}

func TestPaintPadClear(t *testing.T) {
	pad := newPad(t)

	pad.Tapped(&fyne.PointEvent{Position: fyne.NewPos(70, 70)})
	require.False(t, pad.empty())

	pad.Clear()
	assert.True(t, pad.empty())
}

func TestIntInput(t *testing.T) {
	test.NewTempApp(t)

	var got []int
	in := NewIntInput("Brush", 18, 1, 60, func(v int) { got = append(got, v) })
	w := test.NewWindow(in)
	defer w.Close()

	assert.Equal(t, "Brush: 18", in.Label())

	in.SetText("25")
	assert.Equal(t, []int{25}, got)
	assert.Equal(t, "Brush: 25", in.Label())
	assert.Empty(t, in.Error())

	in.SetText("abc")
	assert.Contains(t, in.Error(), "not a number")
	assert.Equal(t, []int{25}, got)

	in.SetText("99")
	assert.Contains(t, in.Error(), "between 1 and 60")

	in.SetText("")
	assert.Equal(t, []int{25, 18}, got)
	assert.Empty(t, in.Error())
}
