package backend

import (
	"context"
	"image/color"
	"testing"

	"github.com/matzehuels/svgraster/pkg/errors"
)

const halfAlphaCircle = `<svg xmlns="http://www.w3.org/2000/svg" width="4in" height="6in" viewBox="0 0 1200 1800">
  <circle cx="600" cy="900" r="300" fill="black" fill-opacity="0.5"/>
</svg>`

func TestLibraryRenderLabel(t *testing.T) {
	l := NewLibrary(quietLogger(t))
	native, err := l.Render(context.Background(), Request{SVG: halfAlphaCircle, Width: 1200, Height: 1800, DPI: 300})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	img := native.Image()
	if b := img.Bounds(); b.Dx() != 1200 || b.Dy() != 1800 {
		t.Fatalf("bounds = %v, want 1200x1800", b)
	}
	if !img.Opaque() {
		t.Error("library output has non-opaque pixels")
	}

	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	for _, p := range [][2]int{{0, 0}, {1199, 0}, {0, 1799}, {1199, 1799}, {600, 100}} {
		if got := img.NRGBAAt(p[0], p[1]); got != white {
			t.Errorf("transparent region at %v = %v, want opaque white", p, got)
		}
	}

	center := img.NRGBAAt(600, 900)
	if center.A != 255 || center.R < 64 || center.R > 192 {
		t.Errorf("half-alpha fill at center = %v, want mid gray", center)
	}
}

func TestLibraryRenderExactSize(t *testing.T) {
	tests := []struct {
		name          string
		svg           string
		width, height int
		dpi           int
	}{
		{"downsample", halfAlphaCircle, 300, 450, 300},
		{"aspect change", halfAlphaCircle, 500, 100, 300},
		{"physical units at low dpi", halfAlphaCircle, 1200, 1800, 72},
		{"no viewBox", `<svg xmlns="http://www.w3.org/2000/svg" width="2in" height="1in"><rect x="10" y="10" width="50" height="20"/></svg>`, 203, 101, 203},
		{"no size at all", `<svg xmlns="http://www.w3.org/2000/svg"><rect width="5" height="5"/></svg>`, 17, 9, 96},
		{"single pixel", halfAlphaCircle, 1, 1, 300},
	}

	l := NewLibrary(quietLogger(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			native, err := l.Render(context.Background(), Request{SVG: tt.svg, Width: tt.width, Height: tt.height, DPI: tt.dpi})
			if err != nil {
				t.Fatalf("Render() error: %v", err)
			}
			if b := native.Bounds(); b.Dx() != tt.width || b.Dy() != tt.height {
				t.Errorf("bounds = %v, want %dx%d", b, tt.width, tt.height)
			}
			if !native.Image().Opaque() {
				t.Error("output has non-opaque pixels")
			}
		})
	}
}

func TestLibraryRenderErrors(t *testing.T) {
	tests := []struct {
		name     string
		req      Request
		wantCode errors.Code
	}{
		{"not xml", Request{SVG: "hello", Width: 10, Height: 10, DPI: 96}, errors.ErrCodeDecode},
		{"empty", Request{SVG: "", Width: 10, Height: 10, DPI: 96}, errors.ErrCodeDecode},
		{"wrong root", Request{SVG: "<html><body/></html>", Width: 10, Height: 10, DPI: 96}, errors.ErrCodeDecode},
		{"truncated", Request{SVG: `<svg xmlns="http://www.w3.org/2000/svg"><rect`, Width: 10, Height: 10, DPI: 96}, errors.ErrCodeDecode},
		{"zero area", Request{SVG: halfAlphaCircle, Width: 0, Height: 10, DPI: 96}, errors.ErrCodeResize},
		{"zero dpi", Request{SVG: halfAlphaCircle, Width: 10, Height: 10, DPI: 0}, errors.ErrCodeInvalidInput},
	}

	l := NewLibrary(quietLogger(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			native, err := l.Render(context.Background(), tt.req)
			if !errors.Is(err, tt.wantCode) {
				t.Fatalf("Render() error = %v, want %s", err, tt.wantCode)
			}
			if native != nil {
				t.Error("Render() returned a raster alongside an error")
			}
		})
	}
}

func TestLibraryRenderCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLibrary(quietLogger(t)).Render(ctx, Request{SVG: halfAlphaCircle, Width: 10, Height: 10, DPI: 96})
	if err != context.Canceled {
		t.Errorf("Render() error = %v, want context.Canceled", err)
	}
}
