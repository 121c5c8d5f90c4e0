package pkg

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/go-errors/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/kubesail/pibox-epaper/mono"
)

// DefaultImagePath is the weather report written by the weather command.
const DefaultImagePath = "../weather/weather.png"

// NormalizeOpts controls the 1 bit conversion.
type NormalizeOpts struct {
	// Threshold selects a plain 50% cut instead of Floyd-Steinberg dithering.
	Threshold bool
}

// LoadImage opens and decodes an image file. Failures are *IOError.
func LoadImage(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, ioErr("open "+path, err)
	}
	b := img.Bounds()
	logDebug("image loaded", "path", path, "width", b.Dx(), "height", b.Dy())
	return img, nil
}

// Normalize converts img to 1 bit and stretches it to exactly w x h.
// The aspect ratio is not preserved.
func Normalize(img image.Image, w, h int, opts NormalizeOpts) (*mono.Image, error) {
	if w <= 0 || h <= 0 {
		return nil, errors.Errorf("invalid target size %dx%d", w, h)
	}
	if img.Bounds().Empty() {
		return nil, errors.New("empty image")
	}
	var bw *mono.Image
	if opts.Threshold {
		bw = mono.Threshold(img, 0x80)
	} else {
		bw = mono.Dither(img)
	}
	if b := bw.Bounds(); b.Dx() == w && b.Dy() == h && b.Min == (image.Point{}) {
		return bw, nil
	}
	resized := imaging.Resize(bw, w, h, imaging.NearestNeighbor)
	return mono.Threshold(resized, 0x80), nil
}
