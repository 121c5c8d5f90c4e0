package pkg

import (
	"context"
	"fmt"
	"sync"

	human "github.com/dustin/go-humanize"
	"github.com/fogleman/gg"
	"github.com/go-errors/errors"
	"github.com/stianeikeland/go-rpio/v4"
	"periph.io/x/conn/v3/driver/driverreg"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/kubesail/pibox-epaper/epd7in5v2"
	"github.com/kubesail/pibox-epaper/mono"
)

// Panel is a one frame output device.
//
// Init, Clear and Transfer return ctx's error if ctx is done while the panel
// is busy.
type Panel interface {
	Init(ctx context.Context) error
	Clear(ctx context.Context) error
	// Transfer sends a full frame. The canvas must match the panel size.
	Transfer(ctx context.Context, img *mono.Image) error
	// Sleep powers the panel down and releases the handle.
	Sleep() error
}

var (
	once    sync.Once
	hostErr error
)

func initHost() error {
	once.Do(func() {
		if _, hostErr = host.Init(); hostErr != nil {
			return
		}
		_, hostErr = driverreg.Init()
	})
	return hostErr
}

// Display is the Waveshare 7.5" e-paper HAT.
type Display struct {
	p     spi.PortCloser
	dev   *epd7in5v2.Dev
	power rpio.Pin
	// powered is set when the HAT power pin was switched on through rpio.
	powered bool
}

// OpenDisplay opens the SPI port and control pins and powers the HAT on.
func OpenDisplay(port string, pins Pins) (*Display, error) {
	if err := initHost(); err != nil {
		return nil, ioErr("periph init", err)
	}
	p, err := spireg.Open(port)
	if err != nil {
		return nil, ioErr("open "+port, err)
	}
	rst, err := pinByNumber(pins.Reset)
	if err != nil {
		p.Close()
		return nil, err
	}
	dc, err := pinByNumber(pins.DC)
	if err != nil {
		p.Close()
		return nil, err
	}
	busy, err := pinByNumber(pins.Busy)
	if err != nil {
		p.Close()
		return nil, err
	}
	dev, err := epd7in5v2.NewSPI(p, dc, rst, busy, &epd7in5v2.DefaultOpts)
	if err != nil {
		p.Close()
		return nil, ioErr("connect "+port, err)
	}
	d := &Display{p: p, dev: dev, power: rpio.Pin(pins.Power)}
	if err := rpio.Open(); err == nil {
		d.power.Output()
		d.power.High()
		d.powered = true
	} else {
		logWarn("could not switch panel power pin", "pin", pins.Power, "err", err)
	}
	logInfo("display opened", "dev", dev.String())
	return d, nil
}

func pinByNumber(n int) (gpio.PinIO, error) {
	name := fmt.Sprintf("GPIO%d", n)
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, ioErr("open "+name, errors.New("no such pin"))
	}
	return p, nil
}

func (d *Display) Init(ctx context.Context) error {
	err := timeIt("panel init", func() error { return d.dev.Init(ctx) })
	if err != nil {
		return ioErr("init", err)
	}
	return nil
}

func (d *Display) Clear(ctx context.Context) error {
	err := timeIt("panel clear", func() error { return d.dev.Clear(ctx) })
	if err != nil {
		return ioErr("clear", err)
	}
	return nil
}

func (d *Display) Transfer(ctx context.Context, img *mono.Image) error {
	if err := checkFrame(img, d.dev.Bounds().Dx(), d.dev.Bounds().Dy()); err != nil {
		return err
	}
	buf := img.Bytes()
	err := timeIt("panel transfer", func() error {
		return d.dev.Display(ctx, buf)
	}, "size", human.Bytes(uint64(len(buf))))
	if err != nil {
		return ioErr("transfer", err)
	}
	return nil
}

func (d *Display) Sleep() error {
	err := d.dev.Sleep()
	if d.powered {
		d.power.Low()
		if cerr := rpio.Close(); cerr != nil {
			logWarn("rpio close", "err", cerr)
		}
		d.powered = false
	}
	if cerr := d.p.Close(); cerr != nil {
		logWarn("spi close", "err", cerr)
	}
	if err != nil {
		return ioErr("sleep", err)
	}
	return nil
}

func (d *Display) String() string {
	return d.dev.String()
}

func checkFrame(img *mono.Image, w, h int) error {
	if img == nil {
		return errors.New("nil frame")
	}
	if b := img.Bounds(); b.Dx() != w || b.Dy() != h {
		return errors.Errorf("frame is %dx%d, panel is %dx%d", b.Dx(), b.Dy(), w, h)
	}
	return nil
}

// previewPanel writes every transferred frame to a PNG file before passing it
// on.
type previewPanel struct {
	Panel
	path string
}

func (p *previewPanel) Transfer(ctx context.Context, img *mono.Image) error {
	if img == nil {
		return p.Panel.Transfer(ctx, img)
	}
	if err := gg.SavePNG(p.path, img.Paletted()); err != nil {
		return ioErr("write preview "+p.path, err)
	}
	fmt.Println("Preview written to " + p.path)
	return p.Panel.Transfer(ctx, img)
}
