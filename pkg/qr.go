package pkg

import (
	"github.com/fogleman/gg"
	"github.com/go-errors/errors"
	"github.com/skip2/go-qrcode"

	"github.com/kubesail/pibox-epaper/mono"
)

// RenderQR draws content as a QR code centred on a white w x h canvas. When
// caption is set it is written under the code in the given font.
func RenderQR(content string, w, h int, caption string, font FontSpec) (*mono.Image, error) {
	if content == "" {
		return nil, errors.New("empty QR content")
	}
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	q.DisableBorder = true

	size := min(w, h) - 4*DefaultMargin
	if caption != "" {
		size -= int(font.Size) * 2
	}
	if size <= 0 {
		return nil, errors.Errorf("canvas %dx%d too small for a QR code", w, h)
	}

	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	top := (h - size) / 2
	if caption != "" {
		top -= int(font.Size)
	}
	dc.DrawImage(q.Image(size), (w-size)/2, top)

	if caption != "" {
		face, err := LoadFont(font)
		if err != nil {
			return nil, err
		}
		defer face.Close()
		dc.SetFontFace(face)
		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored(caption, float64(w)/2, float64(top+size)+font.Size/2, 0.5, 1)
	}
	logDebug("qr rendered", "content", content, "size", size)
	return mono.Threshold(dc.Image(), 0x80), nil
}
