package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kubesail/pibox-epaper/pkg"
)

func init() {
	qrCmd.Flags().StringVar(&qrCaption, "caption", "", "text under the code")
	rootCmd.AddCommand(qrCmd)
}

var qrCaption string

var qrCmd = &cobra.Command{
	Use:   "qr <content>",
	Short: "show a QR code",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, cfg *pkg.Config) error {
			canvas, err := pkg.RenderQR(args[0], pkg.DefaultScreenWidth, pkg.DefaultScreenHeight, qrCaption,
				pkg.FontSpec{Path: "builtin:goregular", Size: pkg.DefaultFontSize})
			if err != nil {
				return err
			}
			return pkg.Show(ctx, cfg.Open(), canvas, cfg.Pause)
		})
	},
}
