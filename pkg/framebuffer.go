package pkg

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-errors/errors"
	"github.com/gonutz/framebuffer"

	"github.com/kubesail/pibox-epaper/mono"
)

const graphicsDir = "/sys/class/graphics"

// FramebufferPanel mirrors frames onto a Linux framebuffer, for previews on a
// bench without the e-paper HAT attached.
type FramebufferPanel struct {
	path string
	fb   draw.Image
	dev  interface{ Close() }
}

// OpenFramebuffer opens the framebuffer named by dev. See Config.Framebuffer.
func OpenFramebuffer(dev string) (*FramebufferPanel, error) {
	path, err := findFramebuffer(graphicsDir, dev)
	if err != nil {
		return nil, ioErr("find framebuffer", err)
	}
	fb, err := framebuffer.Open(path)
	if err != nil {
		return nil, ioErr("open "+path, err)
	}
	fmt.Println("Displaying on " + path)
	return &FramebufferPanel{path: path, fb: fb, dev: fb}, nil
}

// findFramebuffer resolves want to a device path. want is either a path, a
// device name such as fb1, or the driver name reported in
// /sys/class/graphics/fbN/name. An empty want returns the first device.
func findFramebuffer(dir, want string) (string, error) {
	if strings.HasPrefix(want, "/") {
		return want, nil
	}
	items, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, item := range items {
		if item.Name() == "fbcon" || !strings.HasPrefix(item.Name(), "fb") {
			continue
		}
		if want == "" || want == item.Name() {
			return "/dev/" + item.Name(), nil
		}
		data, err := os.ReadFile(filepath.Join(dir, item.Name(), "name"))
		if err != nil {
			logDebug("skipping framebuffer", "name", item.Name(), "err", err)
			continue
		}
		if strings.TrimSpace(string(data)) == want {
			return "/dev/" + item.Name(), nil
		}
	}
	if want == "" {
		return "", errors.New("no framebuffer found")
	}
	return "", errors.Errorf("no framebuffer named %q", want)
}

func (f *FramebufferPanel) Init(ctx context.Context) error {
	return nil
}

func (f *FramebufferPanel) Clear(ctx context.Context) error {
	draw.Draw(f.fb, f.fb.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return nil
}

// Transfer draws the frame at the top left corner. The panel size is checked
// so previews match what the e-paper would show.
func (f *FramebufferPanel) Transfer(ctx context.Context, img *mono.Image) error {
	if err := checkFrame(img, DefaultScreenWidth, DefaultScreenHeight); err != nil {
		return err
	}
	draw.Draw(f.fb, f.fb.Bounds(), img, img.Bounds().Min, draw.Src)
	logDebug("frame drawn", "fb", f.path)
	return nil
}

// Sleep releases the framebuffer. Later calls do nothing.
func (f *FramebufferPanel) Sleep() error {
	if f.dev != nil {
		f.dev.Close()
		f.dev = nil
	}
	return nil
}
