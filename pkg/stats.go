package pkg

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	human "github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"

	"github.com/kubesail/pibox-epaper/epd7in5v2"
)

// Stats is a snapshot of the host the panel is attached to.
type Stats struct {
	Hostname string
	Platform string
	Kernel   string
	Arch     string
	BootTime time.Time

	MemTotal    uint64
	MemUsed     uint64
	MemUsedPerc float64
}

// CollectStats reads host and memory information. Fields that cannot be read
// are left empty.
func CollectStats(ctx context.Context) Stats {
	var s Stats
	if h, err := host.InfoWithContext(ctx); err == nil {
		s.Hostname = h.Hostname
		s.Platform = strings.TrimSpace(h.Platform + " " + h.PlatformVersion)
		s.Kernel = h.KernelVersion
		s.Arch = h.KernelArch
		s.BootTime = time.Unix(int64(h.BootTime), 0)
	} else {
		logWarn("host info", "err", err)
	}
	if v, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		s.MemTotal = v.Total
		s.MemUsed = v.Used
		s.MemUsedPerc = v.UsedPercent
	} else {
		logWarn("memory info", "err", err)
	}
	return s
}

// Lines formats the snapshot and the panel geometry, one fact per line.
func (s Stats) Lines(now time.Time) []string {
	lines := []string{
		"Host: " + s.Hostname,
		"Platform: " + s.Platform,
		"Kernel: " + s.Kernel + " " + s.Arch,
	}
	if !s.BootTime.IsZero() {
		lines = append(lines, "Up since: "+human.RelTime(s.BootTime, now, "ago", "from now"))
	}
	lines = append(lines,
		fmt.Sprintf("Memory: %s / %s (%.0f%%)", human.Bytes(s.MemUsed), human.Bytes(s.MemTotal), s.MemUsedPerc),
		fmt.Sprintf("Panel: %dx%d, %s per frame", epd7in5v2.Width, epd7in5v2.Height, human.Bytes(epd7in5v2.BufferSize)),
	)
	return lines
}

// Print writes Lines to w.
func (s Stats) Print(w io.Writer, now time.Time) {
	for _, l := range s.Lines(now) {
		fmt.Fprintln(w, l)
	}
}
