package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kubesail/pibox-epaper/pkg"
	"github.com/kubesail/pibox-epaper/weather"
)

func init() {
	f := weatherCmd.Flags()
	f.StringVar(&weatherEnvFile, "env-file", ".env", "dotenv file with "+weather.APIKeyEnv)
	f.StringVar(&weatherPlace, "place", weather.DefaultLocation, "place name for the report header")
	f.Float64Var(&weatherLat, "lat", weather.DefaultLat, "latitude")
	f.Float64Var(&weatherLon, "lon", weather.DefaultLon, "longitude")
	f.StringVar(&weatherPNG, "png", "", "also render the report to this PNG file")
	f.BoolVar(&weatherShow, "show", false, "show the rendered report on the panel")
	f.StringVar(&weatherFont, "font", "builtin:goregular", "font for the rendered report")
	rootCmd.AddCommand(weatherCmd)
}

var (
	weatherEnvFile string
	weatherPlace   string
	weatherLat     float64
	weatherLon     float64
	weatherPNG     string
	weatherShow    bool
	weatherFont    string
)

var weatherCmd = &cobra.Command{
	Use:   "weather",
	Short: "print the OpenWeatherMap forecast",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(forecast)
	},
}

func forecast(ctx context.Context, cfg *pkg.Config) error {
	key, err := weather.APIKey(weatherEnvFile)
	if err != nil {
		return err
	}
	c := weather.NewClient(key)
	c.Logger = pkg.Logger()
	w, err := c.Fetch(ctx, weatherLat, weatherLon, weather.DefaultUnits)
	if err != nil {
		return err
	}
	report := weather.NewReport(w, weatherPlace, time.Local)
	report.Print(os.Stdout)

	font := pkg.FontSpec{Path: weatherFont, Size: 16}
	if weatherPNG != "" {
		if err := weather.SavePNG(report, weatherPNG, font); err != nil {
			return err
		}
		fmt.Println("Weather written to " + weatherPNG)
	}
	if !weatherShow {
		return nil
	}
	img, err := weather.Render(report, pkg.DefaultScreenWidth, pkg.DefaultScreenHeight, font)
	if err != nil {
		return err
	}
	canvas, err := pkg.Normalize(img, pkg.DefaultScreenWidth, pkg.DefaultScreenHeight, pkg.NormalizeOpts{Threshold: true})
	if err != nil {
		return err
	}
	return pkg.Show(ctx, cfg.Open(), canvas, cfg.Pause)
}
