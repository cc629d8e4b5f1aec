package recognizer

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"calculator/internal/models"
)

var ErrImageSize = errors.New("image must be 28x28")

// ToTensor binarizes a 28x28 image in row-major order: pure white pixels
// become 0, everything else 1.
func ToTensor(img image.Image) (models.Tensor, error) {
	var t models.Tensor

	b := img.Bounds()
	if b.Dx() != models.ImgSize || b.Dy() != models.ImgSize {
		return t, errors.Wrapf(ErrImageSize, "got %dx%d", b.Dx(), b.Dy())
	}

	for y := 0; y < models.ImgSize; y++ {
		for x := 0; x < models.ImgSize; x++ {
			if !isWhite(img.At(b.Min.X+x, b.Min.Y+y)) {
				t[y*models.ImgSize+x] = 1
			}
		}
	}

	return t, nil
}

func isWhite(c color.Color) bool {
	r, g, b, a := c.RGBA()
	return r == 0xffff && g == 0xffff && b == 0xffff && a == 0xffff
}

// Fit scales an arbitrary image down to the 28x28 sample size. Any blending
// at stroke edges yields non-white pixels, which count as ink.
func Fit(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() == models.ImgSize && b.Dy() == models.ImgSize {
		return img
	}
	flat := imaging.New(b.Dx(), b.Dy(), color.White)
	flat = imaging.Overlay(flat, img, image.Pt(0, 0), 1.0)
	return imaging.Resize(flat, models.ImgSize, models.ImgSize, imaging.Box)
}
