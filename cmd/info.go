package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kubesail/pibox-epaper/pkg"
)

func init() {
	infoCmd.Flags().BoolVar(&infoShow, "show", false, "also show the diagnostics on the panel")
	rootCmd.AddCommand(infoCmd)
}

var infoShow bool

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "print host and panel diagnostics",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(info)
	},
}

func info(ctx context.Context, cfg *pkg.Config) error {
	now := time.Now()
	stats := pkg.CollectStats(ctx)
	stats.Print(os.Stdout, now)
	if !infoShow {
		return nil
	}
	layout := pkg.DefaultTextLayout(strings.Join(stats.Lines(now), "\n\n"))
	layout.Font.Path = "builtin:gomono"
	canvas, _, err := pkg.RenderText(layout)
	if err != nil {
		return err
	}
	return pkg.Show(ctx, cfg.Open(), canvas, cfg.Pause)
}
