package epd7in5v2

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spitest"

	"github.com/kubesail/pibox-epaper/mono"
)

// dcPin records at which SPI operation the data/command line changed.
type dcPin struct {
	*gpiotest.Pin
	rec   *spitest.Record
	marks []mark
}

type mark struct {
	op    int
	level gpio.Level
}

func (p *dcPin) Out(l gpio.Level) error {
	p.marks = append(p.marks, mark{op: len(p.rec.Ops), level: l})
	return p.Pin.Out(l)
}

// busyPin reports busy for the first n reads, or forever when stuck is set.
type busyPin struct {
	*gpiotest.Pin
	n      int
	stuck  bool
	reads  int
	onRead func(reads int)
}

func (p *busyPin) Read() gpio.Level {
	p.reads++
	if p.onRead != nil {
		p.onRead(p.reads)
	}
	if p.stuck {
		return gpio.Low
	}
	if p.n > 0 {
		p.n--
		return gpio.Low
	}
	return gpio.High
}

type command struct {
	cmd  byte
	data []byte
}

type fixture struct {
	rec    *spitest.Record
	dc     *dcPin
	rst    *gpiotest.Pin
	busy   *busyPin
	dev    *Dev
	sleeps []time.Duration
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		rec:  &spitest.Record{},
		rst:  &gpiotest.Pin{N: "RST", Num: 17},
		busy: &busyPin{Pin: &gpiotest.Pin{N: "BUSY", Num: 24}},
	}
	f.dc = &dcPin{Pin: &gpiotest.Pin{N: "DC", Num: 25}, rec: f.rec}

	old := sleep
	sleep = func(d time.Duration) { f.sleeps = append(f.sleeps, d) }
	t.Cleanup(func() { sleep = old })

	dev, err := NewSPI(f.rec, f.dc, f.rst, f.busy, nil)
	require.NoError(t, err)
	f.dev = dev
	return f
}

// commands decodes the recorded SPI writes into commands and their data.
func (f *fixture) commands() []command {
	var out []command
	for i, op := range f.rec.Ops {
		level := gpio.Low
		for _, m := range f.dc.marks {
			if m.op <= i {
				level = m.level
			}
		}
		if level == gpio.Low {
			for _, b := range op.W {
				out = append(out, command{cmd: b})
			}
			continue
		}
		last := &out[len(out)-1]
		last.data = append(last.data, op.W...)
	}
	return out
}

func (f *fixture) codes() []byte {
	var out []byte
	for _, c := range f.commands() {
		out = append(out, c.cmd)
	}
	return out
}

func TestNewSPI(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, image.Rect(0, 0, 800, 480), f.dev.Bounds())
	assert.Equal(t, gpio.Low, f.dc.Read())
	assert.Contains(t, f.dev.String(), "epd7in5v2.Dev{")

	_, err := NewSPI(&spitest.Record{}, nil, f.rst, f.busy, nil)
	assert.Error(t, err)
	_, err = NewSPI(&spitest.Record{}, gpio.INVALID, f.rst, f.busy, nil)
	assert.Error(t, err)
}

func TestNewSPIConnectSpeed(t *testing.T) {
	p := &speedPort{Record: &spitest.Record{}}
	_, err := NewSPI(p, &gpiotest.Pin{N: "DC"}, &gpiotest.Pin{N: "RST"}, &gpiotest.Pin{N: "BUSY"}, &Opts{Hz: 2 * physic.MegaHertz})
	require.NoError(t, err)
	assert.Equal(t, 2*physic.MegaHertz, p.hz)
	assert.Equal(t, spi.Mode0, p.mode)
}

type speedPort struct {
	*spitest.Record
	hz   physic.Frequency
	mode spi.Mode
}

func (p *speedPort) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	p.hz, p.mode = f, mode
	return p.Record.Connect(f, mode, bits)
}

func TestInit(t *testing.T) {
	f := newFixture(t)
	f.busy.n = 3
	require.NoError(t, f.dev.Init(context.Background()))

	want := []command{
		{cmd: powerSetting, data: []byte{0x07, 0x07, 0x3f, 0x3f}},
		{cmd: boosterSoftStart, data: []byte{0x17, 0x17, 0x28, 0x17}},
		{cmd: powerOn},
		// Status is polled once, then once more per busy read.
		{cmd: getStatus},
		{cmd: getStatus},
		{cmd: getStatus},
		{cmd: getStatus},
		{cmd: panelSetting, data: []byte{0x1F}},
		{cmd: resolutionSetting, data: []byte{0x03, 0x20, 0x01, 0xE0}},
		{cmd: dualSPI, data: []byte{0x00}},
		{cmd: vcomDataInterval, data: []byte{0x10, 0x07}},
		{cmd: tconSetting, data: []byte{0x22}},
	}
	assert.Equal(t, want, f.commands())
	assert.Equal(t, gpio.High, f.rst.Read())
	assert.Equal(t, []time.Duration{
		20 * time.Millisecond, 2 * time.Millisecond, 20 * time.Millisecond,
		100 * time.Millisecond,
		20 * time.Millisecond, 20 * time.Millisecond, 20 * time.Millisecond,
		20 * time.Millisecond,
	}, f.sleeps)
}

func TestClear(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.dev.Clear(context.Background()))

	cmds := f.commands()
	require.Len(t, cmds, 4)
	assert.Equal(t, dataStartTransmission1, cmds[0].cmd)
	assert.Equal(t, bytes.Repeat([]byte{0xFF}, BufferSize), cmds[0].data)
	assert.Equal(t, dataStartTransmission2, cmds[1].cmd)
	assert.Equal(t, make([]byte, BufferSize), cmds[1].data)
	assert.Equal(t, displayRefresh, cmds[2].cmd)
	assert.Equal(t, getStatus, cmds[3].cmd)

	// Frames are split into spidev sized writes.
	for _, op := range f.rec.Ops {
		assert.LessOrEqual(t, len(op.W), maxTxSize)
	}
}

func TestDisplay(t *testing.T) {
	f := newFixture(t)
	buf := make([]byte, BufferSize)
	for i := range buf {
		buf[i] = byte(i)
	}
	require.NoError(t, f.dev.Display(context.Background(), buf))

	cmds := f.commands()
	require.Len(t, cmds, 4)
	assert.Equal(t, buf, cmds[0].data)
	for i, b := range cmds[1].data {
		require.Equal(t, ^buf[i], b)
	}
	assert.Equal(t, []byte{dataStartTransmission1, dataStartTransmission2, displayRefresh, getStatus}, f.codes())
}

func TestDisplayWrongSize(t *testing.T) {
	f := newFixture(t)
	assert.Error(t, f.dev.Display(context.Background(), make([]byte, 10)))
	assert.Empty(t, f.rec.Ops)
}

func TestDraw(t *testing.T) {
	f := newFixture(t)
	src := image.NewGray(image.Rect(0, 0, 8, 1))
	for i := range src.Pix {
		src.Pix[i] = 0xFF
	}
	src.Pix[0] = 0x00
	require.NoError(t, f.dev.Draw(image.Rect(0, 0, 8, 1), src, image.Point{}))

	cmds := f.commands()
	require.Len(t, cmds, 4)
	// First pixel black, everything else white.
	assert.Equal(t, byte(0x7F), cmds[0].data[0])
	assert.Equal(t, byte(0xFF), cmds[0].data[1])
}

func TestDrawMono(t *testing.T) {
	f := newFixture(t)
	img := mono.New(f.dev.Bounds())
	img.Set(799, 479, color.White)
	require.NoError(t, f.dev.Draw(f.dev.Bounds(), img, image.Point{}))
	cmds := f.commands()
	assert.Equal(t, img.Bytes(), cmds[0].data)
}

func TestSleep(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.dev.Halt())
	want := []command{
		{cmd: vcomDataInterval, data: []byte{0xF7}},
		{cmd: powerOff},
		{cmd: getStatus},
		{cmd: deepSleep, data: []byte{0xA5}},
	}
	assert.Equal(t, want, f.commands())
	assert.Equal(t, 2*time.Second, f.sleeps[len(f.sleeps)-1])
}

type failingPin struct {
	*gpiotest.Pin
}

func (p *failingPin) Out(l gpio.Level) error {
	return errors.New("pin failure")
}

func TestInitResetFailure(t *testing.T) {
	dev, err := NewSPI(&spitest.Record{}, &gpiotest.Pin{N: "DC"}, &failingPin{&gpiotest.Pin{N: "RST"}}, &gpiotest.Pin{N: "BUSY", L: gpio.High}, nil)
	require.NoError(t, err)
	assert.EqualError(t, dev.Init(context.Background()), "pin failure")
}

func TestBusyWaitCancelled(t *testing.T) {
	tests := []struct {
		name     string
		cancelAt int
		run      func(ctx context.Context, d *Dev) error
	}{
		{"init before polling", 0, func(ctx context.Context, d *Dev) error { return d.Init(ctx) }},
		{"init while polling", 50, func(ctx context.Context, d *Dev) error { return d.Init(ctx) }},
		{"clear", 10, func(ctx context.Context, d *Dev) error { return d.Clear(ctx) }},
		{"display", 10, func(ctx context.Context, d *Dev) error { return d.Display(ctx, make([]byte, BufferSize)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.busy.stuck = true
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			if tt.cancelAt == 0 {
				cancel()
			}
			f.busy.onRead = func(reads int) {
				if reads == tt.cancelAt {
					cancel()
				}
			}

			err := tt.run(ctx, f.dev)
			assert.ErrorIs(t, err, context.Canceled)
			if tt.cancelAt > 0 {
				assert.Equal(t, tt.cancelAt, f.busy.reads)
			}
			codes := f.codes()
			assert.Equal(t, getStatus, codes[len(codes)-1])
		})
	}
}

func TestSleepBusyTimeout(t *testing.T) {
	old := sleepTimeout
	sleepTimeout = 0
	t.Cleanup(func() { sleepTimeout = old })

	f := newFixture(t)
	f.busy.stuck = true
	err := f.dev.Sleep()
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotContains(t, f.codes(), deepSleep)
}
