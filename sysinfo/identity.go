// Package sysinfo collects the static identity of the machine once, and
// watches the overlay's own resource usage.
package sysinfo

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/kbinani/screenshot"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"}).
	With().Timestamp().Str("module", "SysInfo").Logger()

const (
	UnknownCPU = "Unknown CPU"
	UnknownGPU = "Unknown GPU"
)

type Display struct {
	Index         int
	Width, Height int
}

func (d Display) String() string {
	return fmt.Sprintf("#%d %dx%d", d.Index, d.Width, d.Height)
}

// Identity does not change while the process runs.
type Identity struct {
	CPU         string
	Cores       int
	GPU         string
	OS          string
	TotalMemory uint64
	Displays    []Display
}

// Collect queries every identity source once. Failures are logged and leave
// the field at its fallback value.
func Collect(ctx context.Context) Identity {
	id := Identity{CPU: UnknownCPU, GPU: UnknownGPU}

	infos, err := cpu.InfoWithContext(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to query cpu info")
	} else if len(infos) > 0 && strings.TrimSpace(infos[0].ModelName) != "" {
		id.CPU = strings.TrimSpace(infos[0].ModelName)
	}
	if id.CPU == UnknownCPU {
		if brand := cpuBrand(); brand != "" {
			id.CPU = brand
		}
	}

	id.Cores, err = cpu.CountsWithContext(ctx, true)
	if err != nil {
		log.Warn().Err(err).Msg("failed to count cpus")
	}

	if gpu, err := gpuModel(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to query gpu")
	} else if gpu != "" {
		id.GPU = gpu
	}

	if h, err := host.InfoWithContext(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to query host info")
	} else {
		id.OS = strings.TrimSpace(h.Platform + " " + h.PlatformVersion)
		if id.OS == "" {
			id.OS = h.OS
		}
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to query memory")
	} else {
		id.TotalMemory = vm.Total
	}

	id.Displays = displays()

	log.Debug().
		Str("cpu", id.CPU).
		Str("gpu", id.GPU).
		Str("os", id.OS).
		Int("displays", len(id.Displays)).
		Msg("identity collected")
	return id
}

func displays() []Display {
	n := screenshot.NumActiveDisplays()
	out := make([]Display, 0, n)
	for i := range n {
		b := screenshot.GetDisplayBounds(i)
		out = append(out, Display{Index: i, Width: b.Dx(), Height: b.Dy()})
	}
	return out
}

// PrimaryDisplay returns the index of the display with the largest area.
func (id Identity) PrimaryDisplay() int {
	best, bestRes := 0, 0
	for _, d := range id.Displays {
		if res := d.Width * d.Height; res > bestRes {
			best, bestRes = d.Index, res
		}
	}
	return best
}

// Lines returns the overlay lines describing the machine.
func (id Identity) Lines() []string {
	return []string{
		"CPU: " + id.CPU,
		"GPU: " + id.GPU,
	}
}

// Details returns a longer description for logs and the info command.
func (id Identity) Details() []string {
	lines := id.Lines()
	if id.Cores > 0 {
		lines[0] += fmt.Sprintf(" (%d threads)", id.Cores)
	}
	if id.OS != "" {
		lines = append(lines, "OS: "+id.OS)
	}
	if id.TotalMemory > 0 {
		lines = append(lines, "RAM: "+HumanBytes(id.TotalMemory))
	}
	for _, d := range id.Displays {
		lines = append(lines, "Display: "+d.String())
	}
	return lines
}

// HumanBytes formats n with binary units.
func HumanBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit && exp < 4; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTP"[exp])
}
