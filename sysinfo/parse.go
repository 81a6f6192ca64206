package sysinfo

import (
	"bufio"
	"strings"
)

// parseKeyValues reads "key<sep>value" lines, trimming both sides.
// Lines without sep are skipped; later keys do not overwrite earlier ones.
func parseKeyValues(data, sep string) map[string]string {
	out := make(map[string]string)
	sc := bufio.NewScanner(strings.NewReader(data))
	for sc.Scan() {
		k, v, ok := strings.Cut(sc.Text(), sep)
		if !ok {
			continue
		}
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if _, seen := out[k]; !seen {
			out[k] = v
		}
	}
	return out
}

// nvidiaModel parses /proc/driver/nvidia/gpus/*/information.
func nvidiaModel(information string) string {
	return parseKeyValues(information, ":")["Model"]
}

// drmModel describes a /sys/class/drm card from its device uevent and the
// optional product_name file some drivers expose.
func drmModel(uevent, productName string) string {
	if name := strings.TrimSpace(productName); name != "" {
		return name
	}
	kv := parseKeyValues(uevent, "=")
	driver, pciID := kv["DRIVER"], kv["PCI_ID"]
	switch {
	case driver != "" && pciID != "":
		return driver + " (" + pciID + ")"
	case driver != "":
		return driver
	default:
		return pciID
	}
}

// systemProfilerModels parses `system_profiler SPDisplaysDataType` output.
func systemProfilerModels(output string) []string {
	var models []string
	sc := bufio.NewScanner(strings.NewReader(output))
	for sc.Scan() {
		k, v, ok := strings.Cut(sc.Text(), ":")
		if ok && strings.TrimSpace(k) == "Chipset Model" {
			models = append(models, strings.TrimSpace(v))
		}
	}
	return models
}
