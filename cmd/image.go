package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kubesail/pibox-epaper/pkg"
)

func init() {
	imageCmd.Flags().BoolVar(&imageThreshold, "threshold", false, "plain 50% threshold instead of dithering")
	rootCmd.AddCommand(imageCmd)
}

var imageThreshold bool

var imageCmd = &cobra.Command{
	Use:   "image [path]",
	Short: "convert an image to black and white and show it (default " + pkg.DefaultImagePath + ")",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := pkg.DefaultImagePath
		if len(args) == 1 {
			path = args[0]
		}
		run(func(ctx context.Context, cfg *pkg.Config) error {
			return showImage(ctx, cfg, path)
		})
	},
}

func showImage(ctx context.Context, cfg *pkg.Config, path string) error {
	img, err := pkg.LoadImage(path)
	if err != nil {
		return err
	}
	canvas, err := pkg.Normalize(img, pkg.DefaultScreenWidth, pkg.DefaultScreenHeight, pkg.NormalizeOpts{Threshold: imageThreshold})
	if err != nil {
		return err
	}
	return pkg.Show(ctx, cfg.Open(), canvas, cfg.Pause)
}
