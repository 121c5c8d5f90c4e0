package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"

	"github.com/kubesail/pibox-epaper/pkg"
)

var rootCmd = &cobra.Command{
	Use:          "pibox-epaper",
	Short:        "show a quotation, an image or a QR code on a 7.5\" e-paper panel",
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
		os.Exit(1)
	},
}

var (
	panelFlag   string
	fbFlag      string
	spiFlag     string
	pauseFlag   time.Duration
	debugFlag   bool
	logFileFlag string
	previewFlag string
)

func init() {
	cobra.EnablePrefixMatching = true
	def := pkg.DefaultConfig()
	f := rootCmd.PersistentFlags()
	f.StringVar(&panelFlag, "panel", string(def.Panel), "output: epd (SPI e-paper) or fb (framebuffer preview)")
	f.StringVar(&fbFlag, "fb", "", "framebuffer device or driver name, for --panel fb")
	f.StringVar(&spiFlag, "spi", def.SPIPort, "SPI port of the e-paper HAT")
	f.DurationVar(&pauseFlag, "pause", def.Pause, "time to keep the panel powered after a refresh")
	f.BoolVar(&debugFlag, "debug", false, "log diagnostics to stderr")
	f.StringVar(&logFileFlag, "log-file", "", "log diagnostics to this file")
	f.StringVar(&previewFlag, "preview", "", "also write each frame to this PNG file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newConfig() (*pkg.Config, error) {
	c := pkg.DefaultConfig()
	switch pkg.PanelKind(panelFlag) {
	case pkg.PanelEPD, pkg.PanelFramebuffer:
		c.Panel = pkg.PanelKind(panelFlag)
	default:
		return nil, errors.Errorf("unknown panel %q, want epd or fb", panelFlag)
	}
	if pauseFlag < 0 {
		return nil, errors.Errorf("negative pause %v", pauseFlag)
	}
	c.Framebuffer = fbFlag
	c.SPIPort = spiFlag
	c.Pause = pauseFlag
	c.Preview = previewFlag
	return c, nil
}

// run executes fn with a context cancelled on SIGINT or SIGTERM and exits the
// process with the status exitCode picks. A second signal kills the process.
func run(fn func(ctx context.Context, cfg *pkg.Config) error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
	}()
	closeLog := setupLogging()
	err := func() error {
		cfg, err := newConfig()
		if err != nil {
			return err
		}
		return fn(ctx, cfg)
	}()
	stop()
	closeLog()
	os.Exit(exitCode(err, os.Stdout, os.Stderr))
}

// exitCode reports err and returns the process status. Interrupts and I/O
// errors are reported on stdout with status 0. Anything else prints its stack
// on stderr with status 1.
func exitCode(err error, stdout, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, pkg.ErrInterrupted) {
		fmt.Fprintln(stdout, "Interrupted")
		return 0
	}
	var ioe *pkg.IOError
	if errors.As(err, &ioe) {
		fmt.Fprintln(stdout, "IOError:", ioe.Error())
		return 0
	}
	if stackFramer, ok := err.(interface{ ErrorStack() string }); ok {
		fmt.Fprintln(stderr, stackFramer.ErrorStack())
	} else {
		fmt.Fprintln(stderr, err)
	}
	return 1
}

func setupLogging() func() {
	if logFileFlag != "" {
		l, c, err := pkg.OpenLogFile(logFileFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not open log file: %v\n", err)
			return func() {}
		}
		pkg.SetLogger(l)
		return func() { c.Close() }
	}
	if debugFlag {
		pkg.SetLogger(pkg.NewLogger(os.Stderr))
	}
	return func() {}
}
