// Package epd7in5v2 drives the Waveshare 7.5" e-paper panel, revision 2.
//
// The panel is 800x480, black and white, and is driven over a 4-wire SPI bus
// plus a data/command line, a reset line and a busy line.
package epd7in5v2

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/kubesail/pibox-epaper/mono"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

const (
	Width  = 800
	Height = 480

	// BufferSize is the length of one frame, 1 bit per pixel.
	BufferSize = Width / 8 * Height
)

const (
	panelSetting           byte = 0x00
	powerSetting           byte = 0x01
	powerOff               byte = 0x02
	powerOn                byte = 0x04
	boosterSoftStart       byte = 0x06
	deepSleep              byte = 0x07
	dataStartTransmission1 byte = 0x10
	displayRefresh         byte = 0x12
	dataStartTransmission2 byte = 0x13
	dualSPI                byte = 0x15
	vcomDataInterval       byte = 0x50
	tconSetting            byte = 0x60
	resolutionSetting      byte = 0x61
	getStatus              byte = 0x71
)

// maxTxSize is the largest single SPI write. spidev defaults to 4096.
const maxTxSize = 4096

var sleep = time.Sleep

// sleepTimeout bounds the busy wait in Sleep, which runs without a caller
// context.
var sleepTimeout = 10 * time.Second

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	Hz: 4 * physic.MegaHertz,
}

// Opts defines the options for the device.
type Opts struct {
	// Hz is the SPI clock.
	Hz physic.Frequency
}

// NewSPI returns a Dev for a panel on the SPI port p.
//
// The panel is not initialised; call Init before drawing.
func NewSPI(p spi.Port, dc, rst gpio.PinOut, busy gpio.PinIn, opts *Opts) (*Dev, error) {
	if dc == nil || rst == nil || busy == nil {
		return nil, errors.New("epd7in5v2: dc, rst and busy pins are required")
	}
	if dc == gpio.INVALID || rst == gpio.INVALID || busy == gpio.INVALID {
		return nil, errors.New("epd7in5v2: do not use gpio.INVALID")
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	if err := dc.Out(gpio.Low); err != nil {
		return nil, err
	}
	if err := busy.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		return nil, err
	}
	c, err := p.Connect(opts.Hz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("epd7in5v2: %v", err)
	}
	return &Dev{
		c:    c,
		dc:   dc,
		rst:  rst,
		busy: busy,
		rect: image.Rect(0, 0, Width, Height),
	}, nil
}

// Dev is an open handle to the display controller.
type Dev struct {
	c    conn.Conn
	dc   gpio.PinOut
	rst  gpio.PinOut
	busy gpio.PinIn
	rect image.Rectangle
}

func (d *Dev) String() string {
	return fmt.Sprintf("epd7in5v2.Dev{%s, %s, %s}", d.c, d.dc, d.rect.Max)
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements display.Drawer. Min is guaranteed to be {0, 0}.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Init resets the controller and loads the power, booster, panel and
// resolution settings. Busy waits stop with ctx's error once ctx is done.
func (d *Dev) Init(ctx context.Context) error {
	if err := d.reset(); err != nil {
		return err
	}
	if err := d.sendCommand(powerSetting, 0x07, 0x07, 0x3f, 0x3f); err != nil {
		return err
	}
	if err := d.sendCommand(boosterSoftStart, 0x17, 0x17, 0x28, 0x17); err != nil {
		return err
	}
	if err := d.sendCommand(powerOn); err != nil {
		return err
	}
	sleep(100 * time.Millisecond)
	if err := d.waitUntilIdle(ctx); err != nil {
		return err
	}
	// KW mode, 800x480 resolution.
	if err := d.sendCommand(panelSetting, 0x1F); err != nil {
		return err
	}
	if err := d.sendCommand(resolutionSetting, byte(Width>>8), byte(Width&0xFF), byte(Height>>8), byte(Height&0xFF)); err != nil {
		return err
	}
	if err := d.sendCommand(dualSPI, 0x00); err != nil {
		return err
	}
	if err := d.sendCommand(vcomDataInterval, 0x10, 0x07); err != nil {
		return err
	}
	return d.sendCommand(tconSetting, 0x22)
}

// Clear blanks the panel to white.
func (d *Dev) Clear(ctx context.Context) error {
	white := make([]byte, BufferSize)
	for i := range white {
		white[i] = 0xFF
	}
	if err := d.sendCommand(dataStartTransmission1); err != nil {
		return err
	}
	if err := d.sendData(white); err != nil {
		return err
	}
	if err := d.sendCommand(dataStartTransmission2); err != nil {
		return err
	}
	if err := d.sendData(make([]byte, BufferSize)); err != nil {
		return err
	}
	return d.refresh(ctx)
}

// Display writes a full frame and refreshes the panel.
//
// buf is packed 1 bit per pixel, MSB first, a set bit being white.
func (d *Dev) Display(ctx context.Context, buf []byte) error {
	if len(buf) != BufferSize {
		return fmt.Errorf("epd7in5v2: frame is %d bytes, want %d", len(buf), BufferSize)
	}
	if err := d.sendCommand(dataStartTransmission1); err != nil {
		return err
	}
	if err := d.sendData(buf); err != nil {
		return err
	}
	// The new data plane uses the opposite polarity.
	inv := make([]byte, len(buf))
	for i, b := range buf {
		inv[i] = ^b
	}
	if err := d.sendCommand(dataStartTransmission2); err != nil {
		return err
	}
	if err := d.sendData(inv); err != nil {
		return err
	}
	return d.refresh(ctx)
}

// Draw implements display.Drawer.
//
// The panel has no partial refresh so the whole frame is always sent. Areas
// outside r are white.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	var img *mono.Image
	if m, ok := src.(*mono.Image); ok && r == d.rect && sp == (image.Point{}) && m.Rect == d.rect {
		img = m
	} else {
		img = mono.NewWhite(d.rect)
		draw.Draw(img, r.Intersect(d.rect), src, sp, draw.Src)
	}
	return d.Display(context.Background(), img.Bytes())
}

// Sleep powers the panel off and puts the controller into deep sleep. Init
// must be called again before the next frame.
func (d *Dev) Sleep() error {
	if err := d.sendCommand(vcomDataInterval, 0xF7); err != nil {
		return err
	}
	if err := d.sendCommand(powerOff); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), sleepTimeout)
	defer cancel()
	if err := d.waitUntilIdle(ctx); err != nil {
		return err
	}
	if err := d.sendCommand(deepSleep, 0xA5); err != nil {
		return err
	}
	sleep(2 * time.Second)
	return nil
}

// Halt implements conn.Resource. It puts the panel to sleep; the image stays.
func (d *Dev) Halt() error {
	return d.Sleep()
}

func (d *Dev) reset() error {
	if err := d.rst.Out(gpio.High); err != nil {
		return err
	}
	sleep(20 * time.Millisecond)
	if err := d.rst.Out(gpio.Low); err != nil {
		return err
	}
	sleep(2 * time.Millisecond)
	if err := d.rst.Out(gpio.High); err != nil {
		return err
	}
	sleep(20 * time.Millisecond)
	return nil
}

func (d *Dev) refresh(ctx context.Context) error {
	if err := d.sendCommand(displayRefresh); err != nil {
		return err
	}
	sleep(100 * time.Millisecond)
	return d.waitUntilIdle(ctx)
}

// waitUntilIdle polls the controller status until the busy line goes high or
// ctx is done.
func (d *Dev) waitUntilIdle(ctx context.Context) error {
	if err := d.sendCommand(getStatus); err != nil {
		return err
	}
	for d.busy.Read() == gpio.Low {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.sendCommand(getStatus); err != nil {
			return err
		}
		sleep(20 * time.Millisecond)
	}
	sleep(20 * time.Millisecond)
	return nil
}

func (d *Dev) sendCommand(cmd byte, args ...byte) error {
	if err := d.dc.Out(gpio.Low); err != nil {
		return err
	}
	if err := d.c.Tx([]byte{cmd}, nil); err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}
	return d.sendData(args)
}

func (d *Dev) sendData(c []byte) error {
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}
	for len(c) != 0 {
		n := len(c)
		if n > maxTxSize {
			n = maxTxSize
		}
		if err := d.c.Tx(c[:n], nil); err != nil {
			return err
		}
		c = c[n:]
	}
	return nil
}

var _ display.Drawer = &Dev{}
