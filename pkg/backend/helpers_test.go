package backend

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/svgraster/pkg/observability"
)

// quietLogger discards output unless the test runs verbose.
func quietLogger(t *testing.T) *log.Logger {
	t.Helper()
	if testing.Verbose() {
		return log.NewWithOptions(os.Stderr, log.Options{Level: log.DebugLevel})
	}
	return log.New(io.Discard)
}

// writeScript creates an executable shell script named name in dir.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes need a POSIX shell")
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

// writePNG writes a w x h opaque PNG fixture and returns its path.
func writePNG(t *testing.T, dir string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	path := filepath.Join(dir, "fixture.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return path
}

// assertEmptyDir fails if dir has any entries.
func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		t.Errorf("leftover temp file: %s", e.Name())
	}
}

// recordingHooks captures render events.
type recordingHooks struct {
	observability.NoopRenderHooks

	mu       sync.Mutex
	probes   []probeEvent
	cleanups []string
}

type probeEvent struct {
	tool      string
	available bool
	err       error
}

func (h *recordingHooks) OnProbe(_ context.Context, tool string, available bool, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.probes = append(h.probes, probeEvent{tool, available, err})
}

func (h *recordingHooks) OnCleanupError(_ context.Context, path string, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cleanups = append(h.cleanups, path)
}

// useHooks installs h for the duration of the test.
func useHooks(t *testing.T, h observability.RenderHooks) {
	t.Helper()
	observability.SetRenderHooks(h)
	t.Cleanup(observability.Reset)
}
