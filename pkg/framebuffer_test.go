package pkg

import (
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubesail/pibox-epaper/mono"
)

func fakeGraphics(t *testing.T) string {
	dir := t.TempDir()
	for name, driver := range map[string]string{
		"fb0":   "BCM2708 FB\n",
		"fb1":   "fb_st7789v\n",
		"fbcon": "",
	} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, name), 0755))
		if driver != "" {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name, "name"), []byte(driver), 0644))
		}
	}
	return dir
}

func TestFindFramebuffer(t *testing.T) {
	dir := fakeGraphics(t)
	tests := []struct {
		want    string
		path    string
		wantErr bool
	}{
		{"", "/dev/fb0", false},
		{"fb1", "/dev/fb1", false},
		{"fb_st7789v", "/dev/fb1", false},
		{"BCM2708 FB", "/dev/fb0", false},
		{"/dev/fb7", "/dev/fb7", false},
		{"fb_ili9341", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			path, err := findFramebuffer(dir, tt.want)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.path, path)
		})
	}
}

func TestFindFramebufferNoSysfs(t *testing.T) {
	_, err := findFramebuffer(filepath.Join(t.TempDir(), "missing"), "")
	assert.Error(t, err)
	_, err = findFramebuffer(t.TempDir(), "")
	assert.Error(t, err)
}

func TestFramebufferPanel(t *testing.T) {
	screen := image.NewRGBA(image.Rect(0, 0, 1024, 600))
	p := &FramebufferPanel{path: "mem", fb: screen}
	ctx := context.Background()

	require.NoError(t, p.Init(ctx))
	require.NoError(t, p.Clear(ctx))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, screen.RGBAAt(1000, 590))

	canvas := mono.NewWhite(image.Rect(0, 0, 800, 480))
	canvas.SetBit(5, 5, false)
	require.NoError(t, p.Transfer(ctx, canvas))
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, screen.RGBAAt(5, 5))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, screen.RGBAAt(6, 5))

	assert.Error(t, p.Transfer(ctx, mono.New(image.Rect(0, 0, 10, 10))))
	assert.NoError(t, p.Sleep())
}

type countingCloser struct{ n int }

func (c *countingCloser) Close() { c.n++ }

func TestFramebufferPanelSleep(t *testing.T) {
	tests := []struct {
		name   string
		sleeps int
	}{
		{"once", 1},
		{"twice", 2},
		{"many", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := &countingCloser{}
			p := &FramebufferPanel{path: "mem", fb: image.NewRGBA(image.Rect(0, 0, 800, 480)), dev: dev}
			for i := 0; i < tt.sleeps; i++ {
				assert.NoError(t, p.Sleep())
			}
			assert.Equal(t, 1, dev.n)
			assert.Nil(t, p.dev)
		})
	}
}
