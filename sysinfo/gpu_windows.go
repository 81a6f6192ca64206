package sysinfo

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/sys/windows/registry"
)

// display adapter device class
const displayClassKey = `SYSTEM\CurrentControlSet\Control\Class\{4d36e968-e325-11ce-bfc1-08002be10318}`

func gpuModel(context.Context) (string, error) {
	class, err := registry.OpenKey(registry.LOCAL_MACHINE, displayClassKey, registry.ENUMERATE_SUB_KEYS)
	if err != nil {
		return "", fmt.Errorf("failed to open display class key: %w", err)
	}
	defer class.Close()

	subKeys, err := class.ReadSubKeyNames(-1)
	if err != nil {
		return "", fmt.Errorf("failed to list display adapters: %w", err)
	}

	var models []string
	for _, name := range subKeys {
		k, err := registry.OpenKey(class, name, registry.QUERY_VALUE)
		if err != nil {
			continue // "Properties" is not readable
		}
		desc, _, err := k.GetStringValue("DriverDesc")
		k.Close()
		if err != nil || desc == "" {
			continue
		}
		if !strings.Contains(desc, "Basic Display") && !slices.Contains(models, desc) {
			models = append(models, desc)
		}
	}
	return strings.Join(models, ", "), nil
}

func cpuBrand() string { return "" }
