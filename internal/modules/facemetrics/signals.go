package facemetrics

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
	"gonum.org/v1/gonum/stat"
)

const DefaultMaxImageSide = 2048

// Signals are whole-image capture measurements consumed by the quality gate.
type Signals struct {
	Brightness float64 `json:"brightness"`
	Sharpness  float64 `json:"sharpness"`
}

// DecodeImage decodes a JPEG, PNG or WebP payload.
func DecodeImage(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty payload", ErrDecodeFailure)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}
	return img, format, nil
}

// Downscale shrinks img so its long side is at most maxSide. Smaller images are returned as is.
func Downscale(img image.Image, maxSide int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSide <= 0 || (w <= maxSide && h <= maxSide) {
		return img
	}
	scale := float64(maxSide) / float64(max(w, h))
	nw := max(1, int(math.Round(float64(w)*scale)))
	nh := max(1, int(math.Round(float64(h)*scale)))
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// MeasureImage computes mean luma and the population variance of the 4-neighbour Laplacian.
func MeasureImage(img image.Image) Signals {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return Signals{}
	}
	gray := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			gray[y*w+x] = math.Round(0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(bl>>8))
		}
	}

	lap := make([]float64, w*h)
	at := func(x, y int) float64 {
		return gray[reflect101(y, h)*w+reflect101(x, w)]
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			lap[y*w+x] = at(x-1, y) + at(x+1, y) + at(x, y-1) + at(x, y+1) - 4*at(x, y)
		}
	}

	_, variance := stat.PopMeanVariance(lap, nil)
	return Signals{
		Brightness: stat.Mean(gray, nil),
		Sharpness:  variance,
	}
}

// reflect101 mirrors an out-of-range index without repeating the edge sample (dcb|abcd|cba).
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*(n-1) - i
		}
	}
	return i
}
