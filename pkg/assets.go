package pkg

//go:generate statik -src=../assets -include=*.txt -dest=.. -f

import (
	"github.com/rakyll/statik/fs"

	_ "github.com/kubesail/pibox-epaper/statik"
)

// DefaultQuotation returns the quotation embedded in the binary.
func DefaultQuotation() (string, error) {
	statikFS, err := fs.New()
	if err != nil {
		return "", resourceErr("embedded assets", err)
	}
	data, err := fs.ReadFile(statikFS, "/quotation.txt")
	if err != nil {
		return "", resourceErr("embedded quotation", err)
	}
	return string(data), nil
}
