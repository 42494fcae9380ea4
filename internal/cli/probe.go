package cli

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/svgraster/pkg/backend"
)

// probeReport is the JSON form of the probe command's output.
type probeReport struct {
	Tool     string               `json:"tool"`
	Path     string               `json:"path,omitempty"`
	Version  string               `json:"version,omitempty"`
	Selected backend.Kind         `json:"selected"`
	Backends []backend.Descriptor `json:"backends"`
}

// probeCommand creates the probe command.
func (c *CLI) probeCommand() *cobra.Command {
	var (
		tool   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Report which rasterization backend would be used",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runProbe(cmd.Context(), tool, asJSON)
		},
	}

	cmd.Flags().StringVar(&tool, "tool", "", "rasterizer executable (default rsvg-convert)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")

	return cmd
}

func (c *CLI) runProbe(ctx context.Context, tool string, asJSON bool) error {
	report := probe(ctx, backend.NewCapability(tool, loggerFromContext(ctx)))

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	if report.Selected == backend.KindExternal {
		printSuccess("Using %s", StyleHighlight.Render(report.Tool))
		printKeyValue("Path", report.Path)
		if report.Version != "" {
			printKeyValue("Version", report.Version)
		}
		return nil
	}

	printWarning("%s not found, using the built-in renderer", report.Tool)
	printDetail("The built-in renderer ignores <text> elements and embedded fonts.")
	printNextStep("Install librsvg", "brew install librsvg / apt install librsvg2-bin")
	return nil
}

// probe runs the capability check once and summarizes it.
func probe(ctx context.Context, capability *backend.Capability) probeReport {
	backends := backend.Describe(ctx, capability)
	report := probeReport{
		Tool:     capability.Tool(),
		Selected: backend.KindLibrary,
		Backends: backends,
	}
	if backends[0].Available {
		report.Selected = backend.KindExternal
		report.Path = capability.Path()
		report.Version = capability.Version()
	}
	return report
}
