package pkg

import (
	"time"

	"github.com/kubesail/pibox-epaper/epd7in5v2"
)

const (
	DefaultScreenWidth  = epd7in5v2.Width
	DefaultScreenHeight = epd7in5v2.Height

	DefaultFontPath = "/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf"
	DefaultFontSize = 20
	DefaultMargin   = 10
	DefaultWrap     = 80
	DefaultLineGap  = 2

	DefaultPause = 2 * time.Second
)

// PanelKind selects where frames are sent.
type PanelKind string

const (
	PanelEPD         PanelKind = "epd"
	PanelFramebuffer PanelKind = "fb"
)

type Config struct {
	Panel PanelKind
	// SPIPort is the periph name of the SPI port, e.g. "SPI0.0".
	SPIPort string
	// Framebuffer is a /dev/fbN path or a driver name looked up under
	// /sys/class/graphics. Empty picks the first non console device.
	Framebuffer string
	// Pause is how long the image is left powered before the panel sleeps.
	Pause time.Duration
	// Preview, when set, also writes each frame as a PNG to this path.
	Preview string

	Pins Pins
}

// Pins are the BCM GPIO numbers of the e-paper HAT control lines.
type Pins struct {
	Reset int
	DC    int
	Busy  int
	Power int
}

// DefaultPins is the Waveshare e-Paper HAT wiring.
var DefaultPins = Pins{Reset: 17, DC: 25, Busy: 24, Power: 18}

func DefaultConfig() *Config {
	return &Config{
		Panel:   PanelEPD,
		SPIPort: "SPI0.0",
		Pause:   DefaultPause,
		Pins:    DefaultPins,
	}
}

// Open returns a function opening the configured panel, for use with Show.
func (c *Config) Open() func() (Panel, error) {
	return func() (Panel, error) {
		var p Panel
		var err error
		switch c.Panel {
		case PanelFramebuffer:
			p, err = OpenFramebuffer(c.Framebuffer)
		default:
			p, err = OpenDisplay(c.SPIPort, c.Pins)
		}
		if err != nil {
			return nil, err
		}
		if c.Preview != "" {
			p = &previewPanel{Panel: p, path: c.Preview}
		}
		return p, nil
	}
}
