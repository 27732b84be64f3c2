// Package sysmon samples host CPU and memory usage for the dashboard header.
package sysmon

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
	// OK is false when neither value could be read.
	OK bool
}

// String renders s for a status bar, or "" when s holds no reading.
func (s Stats) String() string {
	if !s.OK {
		return ""
	}
	return fmt.Sprintf("CPU %3.0f%%  MEM %3.0f%%", clamp(s.CPUPercent), clamp(s.MemPercent))
}

// Sampler reads host usage.
type Sampler func(ctx context.Context) Stats

// Sample collects a single system-wide CPU and memory snapshot.
// CPU uses interval=0 (delta since last call). Values that cannot be read
// are left at zero.
func Sample(ctx context.Context) Stats {
	var s Stats
	cpuPcts, err := cpu.PercentWithContext(ctx, 0, false)
	if err == nil && len(cpuPcts) > 0 {
		s.CPUPercent = cpuPcts[0]
		s.OK = true
	}
	vmem, err := mem.VirtualMemoryWithContext(ctx)
	if err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
		s.OK = true
	}
	return s
}

func clamp(v float64) float64 {
	return min(max(v, 0), 100)
}
