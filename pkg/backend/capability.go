package backend

import (
	"context"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/svgraster/pkg/errors"
	"github.com/matzehuels/svgraster/pkg/observability"
)

// probeTimeout bounds the diagnostic subprocess run by the first probe.
const probeTimeout = 5 * time.Second

// Prober reports whether the external rasterizer can be invoked.
type Prober interface {
	Available(ctx context.Context) bool
}

// Capability probes for an external tool on first use and caches the result
// for its own lifetime. There is no re-probe. It is safe for concurrent use:
// every caller observes the single probe result.
type Capability struct {
	tool   string
	logger *log.Logger

	once      sync.Once
	available bool
	path      string
	version   string
}

// NewCapability returns a prober for tool (DefaultTool if empty).
func NewCapability(tool string, logger *log.Logger) *Capability {
	if tool == "" {
		tool = DefaultTool
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Capability{tool: tool, logger: logger}
}

// Available reports whether the tool resolved and answered its diagnostic run.
// Only the first call probes, bounded by probeTimeout; cancelling its ctx does
// not cut the probe short. ctx of later calls is unused.
func (c *Capability) Available(ctx context.Context) bool {
	c.once.Do(func() { c.available = c.probe(ctx) })
	return c.available
}

// Tool returns the configured executable name.
func (c *Capability) Tool() string { return c.tool }

// Path returns the resolved executable path after a successful probe.
func (c *Capability) Path() string {
	if !c.Available(context.Background()) {
		return ""
	}
	return c.path
}

// Version returns the first line the tool printed for --version.
func (c *Capability) Version() string {
	if !c.Available(context.Background()) {
		return ""
	}
	return c.version
}

func (c *Capability) probe(ctx context.Context) bool {
	path, err := exec.LookPath(c.tool)
	if err != nil {
		c.logger.Debug("external rasterizer not found", "tool", c.tool)
		observability.Render().OnProbe(ctx, c.tool, false, nil)
		return false
	}

	// The cached answer outlives this call, so the caller's cancellation
	// must not decide it.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), probeTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, path, "--version").CombinedOutput()
	if err != nil {
		perr := errors.Wrap(errors.ErrCodeProbeInconclusive, err, "probe %s", path)
		c.logger.Warn("external rasterizer probe inconclusive, using library backend", "tool", path, "err", perr)
		observability.Render().OnProbe(ctx, c.tool, false, perr)
		return false
	}

	c.path = path
	c.version, _, _ = strings.Cut(strings.TrimSpace(string(out)), "\n")
	c.logger.Debug("external rasterizer available", "tool", path, "version", c.version)
	observability.Render().OnProbe(ctx, c.tool, true, nil)
	return true
}

// Static is a Prober with a fixed answer.
type Static bool

// Available returns the fixed answer.
func (s Static) Available(context.Context) bool { return bool(s) }

var (
	_ Prober = (*Capability)(nil)
	_ Prober = Static(false)
)
