// Package mono implements a packed 1 bit per pixel image.
//
// Rows are stored top to bottom, 8 pixels per byte with the leftmost pixel in
// the most significant bit. A set bit is white. This is the layout the
// Waveshare 7.5" controller expects for its "old data" plane, so Bytes() can
// be written to the panel as-is.
package mono

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Image is a 1 bit per pixel image.
type Image struct {
	// Pix holds the packed pixels, Stride bytes per row.
	Pix    []byte
	Stride int
	Rect   image.Rectangle
}

// New returns an all black image of the given bounds.
func New(r image.Rectangle) *Image {
	stride := (r.Dx() + 7) / 8
	return &Image{
		Pix:    make([]byte, stride*r.Dy()),
		Stride: stride,
		Rect:   r,
	}
}

// NewWhite returns an all white image of the given bounds.
func NewWhite(r image.Rectangle) *Image {
	i := New(r)
	i.Fill(image1bit.On)
	return i
}

// ColorModel implements image.Image.
func (i *Image) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements image.Image.
func (i *Image) Bounds() image.Rectangle {
	return i.Rect
}

// At implements image.Image.
func (i *Image) At(x, y int) color.Color {
	return i.BitAt(x, y)
}

// BitAt is the typed version of At. Pixels outside the bounds are black.
func (i *Image) BitAt(x, y int) image1bit.Bit {
	if !(image.Point{x, y}.In(i.Rect)) {
		return image1bit.Off
	}
	offset, mask := i.PixOffset(x, y)
	return i.Pix[offset]&mask != 0
}

// Set implements draw.Image.
func (i *Image) Set(x, y int, c color.Color) {
	i.SetBit(x, y, convertBit(c))
}

// SetBit is the typed version of Set. Pixels outside the bounds are ignored.
func (i *Image) SetBit(x, y int, b image1bit.Bit) {
	if !(image.Point{x, y}.In(i.Rect)) {
		return
	}
	offset, mask := i.PixOffset(x, y)
	if b {
		i.Pix[offset] |= mask
	} else {
		i.Pix[offset] &^= mask
	}
}

// PixOffset returns the index of the byte holding pixel (x, y) and the mask
// selecting its bit.
func (i *Image) PixOffset(x, y int) (int, byte) {
	dx := x - i.Rect.Min.X
	return (y-i.Rect.Min.Y)*i.Stride + dx/8, 0x80 >> uint(dx%8)
}

// Fill sets every pixel to b.
func (i *Image) Fill(b image1bit.Bit) {
	v := byte(0x00)
	if b {
		v = 0xFF
	}
	for j := range i.Pix {
		i.Pix[j] = v
	}
}

// Bytes returns the packed pixels.
func (i *Image) Bytes() []byte {
	return i.Pix
}

// Paletted returns a two colour copy of the image, which image/png encodes at
// 1 bit depth.
func (i *Image) Paletted() *image.Paletted {
	p := image.NewPaletted(i.Rect, color.Palette{color.Black, color.White})
	for y := i.Rect.Min.Y; y < i.Rect.Max.Y; y++ {
		for x := i.Rect.Min.X; x < i.Rect.Max.X; x++ {
			if i.BitAt(x, y) {
				p.SetColorIndex(x, y, 1)
			}
		}
	}
	return p
}

// Threshold converts src to 1 bit. A pixel is white when its luminance is at
// least level.
func Threshold(src image.Image, level uint8) *Image {
	r := src.Bounds()
	dst := New(r)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			g := color.GrayModel.Convert(src.At(x, y)).(color.Gray)
			if g.Y >= level {
				dst.SetBit(x, y, image1bit.On)
			}
		}
	}
	return dst
}

// Dither converts src to 1 bit with Floyd-Steinberg error diffusion.
func Dither(src image.Image) *Image {
	r := src.Bounds()
	gray := image.NewGray(r)
	draw.Draw(gray, r, src, r.Min, draw.Src)

	p := image.NewPaletted(r, color.Palette{color.Black, color.White})
	xdraw.FloydSteinberg.Draw(p, r, gray, r.Min)

	dst := New(r)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if p.ColorIndexAt(x, y) == 1 {
				dst.SetBit(x, y, image1bit.On)
			}
		}
	}
	return dst
}

func convertBit(c color.Color) image1bit.Bit {
	if b, ok := c.(image1bit.Bit); ok {
		return b
	}
	g := color.GrayModel.Convert(c).(color.Gray)
	return g.Y >= 0x80
}

var _ draw.Image = (*Image)(nil)
