package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rigport/rigport/pkg/host/sandbox"
	"github.com/rigport/rigport/pkg/pipeline"
	"github.com/rigport/rigport/pkg/render"
	"github.com/rigport/rigport/pkg/skeleton"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	output   string
	formats  string
	detailed bool
	noCache  bool
}

// renderCommand renders a rig sidecar's skeleton as it would look after
// duplicate bones are collapsed.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <file" + sandbox.RigSuffix + ">",
		Short: "Render a rig sidecar as a collapsed bone hierarchy",
		Long: `Collapse the duplicate bones of a rig sidecar the way an outfit merge
would and render the result. Re-parented bones are highlighted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			rig, err := sandbox.ReadRig(args[0])
			if err != nil {
				return err
			}
			plan, h, err := skeleton.PlanMerge(rig.Bones)
			if err != nil {
				return err
			}

			list := cfg.Render.Formats
			if opts.formats != "" {
				list = strings.Split(opts.formats, ",")
			}
			formats, err := render.ParseFormats(list)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, opts.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			name := rigName(args[0])
			arts, err := runner.RenderTree(ctx, name, h, plan, pipeline.Options{
				Formats:  formats,
				Detailed: opts.detailed || cfg.Render.Detailed,
				Logger:   loggerFromContext(ctx),
			})
			if err != nil {
				return err
			}

			dir := opts.output
			if dir == "" {
				dir = filepath.Dir(args[0])
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			printSuccess("%s: %d bones, %d removed, %d re-parented", name, h.Len(), len(plan.Remove), len(plan.Reparent))
			for _, a := range arts {
				path := filepath.Join(dir, a.Name())
				if err := os.WriteFile(path, a.Data, 0o644); err != nil {
					return err
				}
				printFile(path, a.Cached)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (default: next to the sidecar)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "formats: dot, svg, png, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "add depth and child counts to labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	return cmd
}

// rigName strips the sidecar suffix: "SK_Body.rig.json" -> "SK_Body".
func rigName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), sandbox.RigSuffix)
}
