//go:build !linux && !darwin && !windows

package sysinfo

import "context"

func gpuModel(context.Context) (string, error) { return "", nil }

func cpuBrand() string { return "" }
