package cli

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/svgraster/pkg/errors"
	"github.com/matzehuels/svgraster/pkg/pipeline"
	"github.com/matzehuels/svgraster/pkg/sink"
)

// Config holds render defaults read from the config file. Flags given on
// the command line take precedence.
//
// Example config.toml:
//
//	format = "png"
//	tool = "/opt/homebrew/bin/rsvg-convert"
//	timeout = "30s"
//	fallback = "none"
//
//	[label]
//	width_inches = 4
//	height_inches = 6
//	dpi = 203
type Config struct {
	Label            pipeline.LabelSize `toml:"label"`
	Format           string             `toml:"format"`
	Quality          int                `toml:"quality"`
	CompressionLevel int                `toml:"compression_level"`
	Tool             string             `toml:"tool"`
	Timeout          Duration           `toml:"timeout"`
	Fallback         string             `toml:"fallback"`
}

// Duration is a time.Duration written as a Go duration string ("30s").
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultConfig returns the built-in defaults: a 4x6 inch label at 300 dpi,
// PNG output, rsvg-convert with no timeout and no fallback.
func DefaultConfig() Config {
	return Config{
		Label:            pipeline.DefaultLabelSize(),
		Format:           "png",
		Quality:          sink.DefaultQuality,
		CompressionLevel: sink.DefaultCompressionLevel,
		Fallback:         pipeline.DefaultFallbackPolicy.String(),
	}
}

// loadConfig reads path over the defaults. A missing file is only an error
// when the user named it explicitly.
func loadConfig(path string, explicit bool) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeIO, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if err := c.Label.Validate(); err != nil {
		return err
	}
	if _, err := sink.ParseFormat(c.Format); err != nil {
		return err
	}
	if _, ok := pipeline.ParseFallbackPolicy(c.Fallback); !ok {
		return errInvalidFallback(c.Fallback)
	}
	if c.Timeout.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "invalid timeout %s (must not be negative)", c.Timeout)
	}
	return nil
}

func errInvalidFallback(s string) error {
	return errors.New(errors.ErrCodeInvalidInput, "invalid fallback policy %q (want none or library)", s)
}
