package sysinfo

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

func gpuModel(context.Context) (string, error) {
	infos, _ := filepath.Glob("/proc/driver/nvidia/gpus/*/information")
	for _, path := range infos {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if model := nvidiaModel(string(data)); model != "" {
			return model, nil
		}
	}

	cards, err := filepath.Glob("/sys/class/drm/card[0-9]*/device")
	if err != nil {
		return "", err
	}
	var models []string
	for _, dev := range cards {
		uevent, err := os.ReadFile(filepath.Join(dev, "uevent"))
		if err != nil {
			continue
		}
		product, _ := os.ReadFile(filepath.Join(dev, "product_name"))
		if model := drmModel(string(uevent), string(product)); model != "" && !slices.Contains(models, model) {
			models = append(models, model)
		}
	}
	return strings.Join(models, ", "), nil
}

func cpuBrand() string { return "" }
