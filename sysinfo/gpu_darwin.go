package sysinfo

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"
)

func gpuModel(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "system_profiler", "SPDisplaysDataType").Output()
	if err != nil {
		return "", fmt.Errorf("system_profiler: %w", err)
	}
	return strings.Join(systemProfilerModels(string(out)), ", "), nil
}

func cpuBrand() string {
	brand, err := unix.Sysctl("machdep.cpu.brand_string")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(brand)
}
