package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"

	"github.com/kubesail/pibox-epaper/pkg"
)

func init() {
	f := quoteCmd.Flags()
	f.StringVar(&quoteTextFile, "text-file", "", "read the text from this file instead of the built in quotation")
	f.StringVar(&quoteFont, "font", pkg.DefaultFontPath, "TrueType font file, or builtin:goregular / builtin:gomono")
	f.Float64Var(&quoteFontSize, "font-size", pkg.DefaultFontSize, "font size in pixels")
	f.IntVar(&quoteMargin, "margin", pkg.DefaultMargin, "left and top margin in pixels")
	f.IntVar(&quoteWrap, "wrap", pkg.DefaultWrap, "maximum characters per line, 0 to disable wrapping")
	f.IntVar(&quoteLineGap, "line-gap", pkg.DefaultLineGap, "pixels between lines")
	rootCmd.AddCommand(quoteCmd)
}

var (
	quoteTextFile string
	quoteFont     string
	quoteFontSize float64
	quoteMargin   int
	quoteWrap     int
	quoteLineGap  int
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "render word wrapped text and show it",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(quote)
	},
}

func quote(ctx context.Context, cfg *pkg.Config) error {
	var text string
	if quoteTextFile != "" {
		data, err := os.ReadFile(quoteTextFile)
		if err != nil {
			return errors.Wrap(err, 0)
		}
		text = string(data)
	} else {
		var err error
		if text, err = pkg.DefaultQuotation(); err != nil {
			return err
		}
	}

	layout := pkg.DefaultTextLayout(text)
	layout.Font = pkg.FontSpec{Path: quoteFont, Size: quoteFontSize}
	layout.Margin = quoteMargin
	layout.WrapWidth = quoteWrap
	layout.LineGap = quoteLineGap

	canvas, n, err := pkg.RenderText(layout)
	if err != nil {
		return err
	}
	fmt.Printf("Rendered %d lines\n", n)
	return pkg.Show(ctx, cfg.Open(), canvas, cfg.Pause)
}
