package pkg

import (
	"os"
	"strings"

	"github.com/go-errors/errors"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// builtinPrefix names a font compiled into the binary instead of a file.
const builtinPrefix = "builtin:"

var builtinFonts = map[string][]byte{
	"goregular": goregular.TTF,
	"gomono":    gomono.TTF,
}

// FontSpec identifies a TrueType font and the pixel size to render it at.
type FontSpec struct {
	// Path is a .ttf file, or builtin:goregular / builtin:gomono.
	Path string
	Size float64
}

// LoadFont reads and parses the font. Any failure is a *ResourceError.
func LoadFont(spec FontSpec) (font.Face, error) {
	if spec.Size <= 0 {
		return nil, resourceErr("font "+spec.Path, errors.Errorf("invalid size %v", spec.Size))
	}
	var data []byte
	if name, ok := strings.CutPrefix(spec.Path, builtinPrefix); ok {
		data, ok = builtinFonts[name]
		if !ok {
			return nil, resourceErr("font "+spec.Path, errors.Errorf("unknown builtin font %q", name))
		}
	} else {
		var err error
		data, err = os.ReadFile(spec.Path)
		if err != nil {
			return nil, resourceErr("font "+spec.Path, err)
		}
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, resourceErr("font "+spec.Path, err)
	}
	logDebug("font loaded", "path", spec.Path, "size", spec.Size, "name", f.Name(truetype.NameIDFontFullName))
	return truetype.NewFace(f, &truetype.Options{Size: spec.Size}), nil
}
