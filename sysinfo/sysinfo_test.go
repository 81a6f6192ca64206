package sysinfo

import (
	"context"
	"slices"
	"testing"
	"time"
)

func TestNvidiaModel(t *testing.T) {
	info := "Model: \t\t NVIDIA GeForce RTX 3080\nIRQ:   \t\t 150\nGPU UUID: \t GPU-0000\n"
	if got := nvidiaModel(info); got != "NVIDIA GeForce RTX 3080" {
		t.Fatalf("nvidiaModel = %q", got)
	}
}

func TestDrmModel(t *testing.T) {
	uevent := "DRIVER=amdgpu\nPCI_CLASS=30000\nPCI_ID=1002:73BF\nPCI_SUBSYS_ID=1DA2:E445\n"
	tests := []struct {
		uevent, product, want string
	}{
		{uevent, "", "amdgpu (1002:73BF)"},
		{uevent, "AMD Radeon RX 6800 XT\n", "AMD Radeon RX 6800 XT"},
		{"DRIVER=i915\n", "", "i915"},
		{"", "", ""},
	}
	for _, tt := range tests {
		if got := drmModel(tt.uevent, tt.product); got != tt.want {
			t.Errorf("drmModel(%q, %q) = %q, want %q", tt.uevent, tt.product, got, tt.want)
		}
	}
}

func TestSystemProfilerModels(t *testing.T) {
	out := `Graphics/Displays:

    Apple M2 Pro:

      Chipset Model: Apple M2 Pro
      Type: GPU
      Bus: Built-In
      Total Number of Cores: 19

    Radeon Pro 560X:

      Chipset Model: Radeon Pro 560X
`
	want := []string{"Apple M2 Pro", "Radeon Pro 560X"}
	if got := systemProfilerModels(out); !slices.Equal(got, want) {
		t.Fatalf("models = %q, want %q", got, want)
	}
}

func TestHumanBytes(t *testing.T) {
	tests := []struct {
		n    uint64
		want string
	}{
		{512, "512 B"},
		{1536, "1.5 KiB"},
		{34 * 1024 * 1024, "34.0 MiB"},
		{16 << 30, "16.0 GiB"},
	}
	for _, tt := range tests {
		if got := HumanBytes(tt.n); got != tt.want {
			t.Errorf("HumanBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestIdentityLines(t *testing.T) {
	id := Identity{
		CPU:         "Apple M2 Pro",
		Cores:       12,
		GPU:         UnknownGPU,
		OS:          "darwin 14.5",
		TotalMemory: 16 << 30,
		Displays:    []Display{{0, 1920, 1080}, {1, 3840, 2160}},
	}

	if got := id.Lines(); !slices.Equal(got, []string{"CPU: Apple M2 Pro", "GPU: Unknown GPU"}) {
		t.Fatalf("Lines() = %q", got)
	}
	details := id.Details()
	if details[0] != "CPU: Apple M2 Pro (12 threads)" || len(details) != 6 {
		t.Fatalf("Details() = %q", details)
	}
	if id.PrimaryDisplay() != 1 {
		t.Fatalf("PrimaryDisplay() = %d, want 1", id.PrimaryDisplay())
	}
	// Details must not alias Lines
	if id.Lines()[0] != "CPU: Apple M2 Pro" {
		t.Fatal("Details modified Lines")
	}
}

func TestUsageString(t *testing.T) {
	u := Usage{CPUPercent: 1.3, RSS: 34 * 1024 * 1024, RSSPercent: 0.2}
	if got := u.String(); got != "MEM: 34.0 MiB (0.20%) | CPU 1.3%" {
		t.Fatalf("String() = %q", got)
	}
}

func TestWatcherReportsOwnProcess(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	w, err := NewWatcher(ctx, 1<<30)
	if err != nil {
		t.Skipf("process info unavailable: %v", err)
	}
	w.Interval = 50 * time.Millisecond

	if _, ok := w.Usage(); ok {
		t.Fatal("usage reported before the first measurement")
	}

	updates := make(chan Usage, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx, func(u Usage) {
			select {
			case updates <- u:
			default:
			}
		})
	}()

	select {
	case u := <-updates:
		if u.RSS == 0 || u.RSSPercent <= 0 {
			t.Fatalf("got %+v", u)
		}
	case <-ctx.Done():
		t.Fatal("no usage update")
	}
	if _, ok := w.Usage(); !ok {
		t.Fatal("Usage not stored")
	}

	cancel()
	<-done
}
