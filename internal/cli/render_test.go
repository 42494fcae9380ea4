package cli

import (
	"bytes"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/svgraster/pkg/backend"
	"github.com/matzehuels/svgraster/pkg/errors"
	"github.com/matzehuels/svgraster/pkg/sink"
)

const testLabel = `<svg xmlns="http://www.w3.org/2000/svg" width="1in" height="1.5in" viewBox="0 0 100 150">
  <rect x="10" y="10" width="80" height="130" fill="black"/>
</svg>`

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input  string
		format sink.Format
		want   string
	}{
		{"label.svg", sink.PNG, "label.png"},
		{"out/label.svg", sink.JPEG, "out/label.jpg"},
		{"label", sink.PNG, "label.png"},
		{"-", sink.PNG, "-"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.input, tt.format); got != tt.want {
			t.Errorf("outputPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	if got := displayName("-"); got != "stdin" {
		t.Errorf("displayName(-) = %q", got)
	}
	if got := displayName("/tmp/x/label.svg"); got != "label.svg" {
		t.Errorf("displayName() = %q", got)
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CACHE_HOME", dir)

	input := filepath.Join(dir, "label.svg")
	if err := os.WriteFile(input, []byte(testLabel), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"render", input,
		"--width", "1", "--height", "1.5", "--dpi", "100",
		"--tool", filepath.Join(dir, "no-such-rsvg-convert"),
		"--no-cache",
	})
	if err := root.Execute(); err != nil {
		t.Fatalf("render error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "label.png"))
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 150 {
		t.Errorf("output size = %v, want 100x150", b.Size())
	}
}

func TestRenderCommandErrors(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	input := filepath.Join(dir, "label.svg")
	if err := os.WriteFile(input, []byte(testLabel), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want errors.Code
	}{
		{"missing input", []string{"render", filepath.Join(dir, "nope.svg")}, errors.ErrCodeIO},
		{"bad format", []string{"render", input, "--format", "gif"}, errors.ErrCodeInvalidFormat},
		{"bad fallback", []string{"render", input, "--fallback", "retry"}, errors.ErrCodeInvalidInput},
		{"bad dpi", []string{"render", input, "--dpi", "0"}, errors.ErrCodeInvalidInput},
		{"missing config", []string{"render", input, "--config", filepath.Join(dir, "none.toml")}, errors.ErrCodeIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := New(io.Discard, LogInfo).RootCommand()
			root.SetOut(io.Discard)
			root.SetErr(io.Discard)
			root.SetArgs(append(tt.args, "--no-cache"))
			if err := root.Execute(); !errors.Is(err, tt.want) {
				t.Errorf("Execute() error = %v, want %s", err, tt.want)
			}
		})
	}
}

func TestProbeReport(t *testing.T) {
	dir := t.TempDir()
	report := probe(t.Context(), backend.NewCapability(filepath.Join(dir, "missing-tool"), log.New(io.Discard)))
	if report.Selected != backend.KindLibrary {
		t.Errorf("Selected = %s, want library", report.Selected)
	}
	if len(report.Backends) != 2 || report.Backends[0].Available || !report.Backends[1].Available {
		t.Errorf("unexpected backends %+v", report.Backends)
	}
	if report.Path != "" {
		t.Errorf("Path = %q, want empty", report.Path)
	}
}

func TestOutputFormat(t *testing.T) {
	tests := []struct {
		name      string
		output    string
		cfgFormat string
		formatSet bool
		want      sink.Format
	}{
		{"default", "", "png", false, sink.PNG},
		{"jpg extension", "label.jpg", "png", false, sink.JPEG},
		{"png extension over jpeg config", "label.png", "jpeg", false, sink.PNG},
		{"unknown extension uses config", "label.out", "jpeg", false, sink.JPEG},
		{"stdout uses config", "-", "jpeg", false, sink.JPEG},
		{"explicit format wins", "label.jpg", "png", true, sink.PNG},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Format = tt.cfgFormat
			got, err := outputFormat(cfg, &renderOpts{output: tt.output, formatSet: tt.formatSet})
			if err != nil {
				t.Fatalf("outputFormat() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("outputFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRenderCommandJPEGByExtension(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	input := filepath.Join(dir, "label.svg")
	if err := os.WriteFile(input, []byte(testLabel), 0o644); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "label.jpg")

	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs([]string{"render", input, "-o", output,
		"--width", "1", "--height", "1.5", "--dpi", "100",
		"--tool", filepath.Join(dir, "no-such-rsvg-convert"),
		"--no-cache",
	})
	if err := root.Execute(); err != nil {
		t.Fatalf("render error: %v", err)
	}

	f, err := os.Open(output)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := jpeg.DecodeConfig(f); err != nil {
		t.Errorf("%s is not a jpeg: %v", filepath.Base(output), err)
	}
}
