package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinnerAnimates(t *testing.T) {
	var buf bytes.Buffer
	s := startSpinner(context.Background(), &buf, "Rendering label.svg...")
	time.Sleep(200 * time.Millisecond)
	s.stop()

	if !strings.Contains(buf.String(), "Rendering label.svg...") {
		t.Errorf("spinner output %q does not show the message", buf.String())
	}
}

func TestSpinnerOutcomes(t *testing.T) {
	tests := []struct {
		name string
		end  func(*spinner)
		want string
	}{
		{"succeed", func(s *spinner) { s.succeed("Rendered %s", "label.svg") }, iconSuccess + " Rendered label.svg"},
		{"fail", func(s *spinner) { s.fail("Failed %s", "label.svg") }, iconError + " Failed label.svg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			s := startSpinner(context.Background(), &buf, "working")
			tt.end(s)
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output %q, want it to contain %q", buf.String(), tt.want)
			}
		})
	}
}

func TestSpinnerFailAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var buf bytes.Buffer
	s := startSpinner(ctx, &buf, "working")
	cancel()

	s.fail("should not print")
	if strings.Contains(buf.String(), "should not print") {
		t.Error("fail printed an error line after cancellation")
	}
	if !s.interrupted() {
		t.Error("interrupted() = false after parent cancellation")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	var buf bytes.Buffer
	s := startSpinner(context.Background(), &buf, "working")
	s.stop()
	s.stop()
	s.succeed("done")
	if strings.Count(buf.String(), "done") != 1 {
		t.Errorf("unexpected output %q", buf.String())
	}
}
