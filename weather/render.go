package weather

import (
	"image"
	"strings"

	"github.com/fogleman/gg"
	"github.com/go-errors/errors"

	"github.com/kubesail/pibox-epaper/pkg"
)

// Render draws the report in two columns, header and daily forecast on the
// left and hourly forecast on the right, on a white w x h image.
func Render(r Report, w, h int, font pkg.FontSpec) (image.Image, error) {
	face, err := pkg.LoadFont(font)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)
	dc.SetFontFace(face)

	left := append(append([]string{}, r.Header...), "", "Daily Forecasts:")
	// Panel fonts have no emoji glyphs.
	left[0] = strings.TrimPrefix(left[0], "📍 ")
	left = append(left, r.Daily...)
	right := append([]string{"Hourly Forecasts:"}, r.Hourly...)

	advance := font.Size * 1.3
	margin := float64(pkg.DefaultMargin)
	column := func(lines []string, x float64) {
		y := margin
		for _, l := range lines {
			if y+font.Size > float64(h) {
				return
			}
			dc.DrawStringAnchored(l, x, y, 0, 1)
			y += advance
		}
	}
	column(left, margin)
	column(right, float64(w)/2+margin)
	return dc.Image(), nil
}

// SavePNG renders the report and writes it to path.
func SavePNG(r Report, path string, font pkg.FontSpec) error {
	img, err := Render(r, pkg.DefaultScreenWidth, pkg.DefaultScreenHeight, font)
	if err != nil {
		return err
	}
	if err := gg.SavePNG(path, img); err != nil {
		return errors.WrapPrefix(err, "write "+path, 0)
	}
	return nil
}
