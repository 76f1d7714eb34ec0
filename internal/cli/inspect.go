package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rigport/rigport/pkg/assembly"
	"github.com/rigport/rigport/pkg/asset"
)

func (c *CLI) inspectCommand() *cobra.Command {
	var (
		asJSON  bool
		noMerge bool
	)
	cmd := &cobra.Command{
		Use:   "inspect <payload.json>",
		Short: "Preview how a payload's parts would be classified",
		Long: `Show, for every group, which parts are merged into the master skeleton,
which attach to a socket, and which default meshes an override displaces.
Nothing is loaded from the assets folder.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			p, err := asset.Load(args[0])
			if err != nil {
				return err
			}
			if err := cfg.Apply(p); err != nil {
				return err
			}
			if noMerge {
				p.Options.MergeSkeletons = false
			}

			preview := assembly.Inspect(p)
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(preview)
			}
			fmt.Fprint(out, previewTable(preview))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the preview as JSON")
	cmd.Flags().BoolVar(&noMerge, "no-merge", false, "preview without skeleton merging")
	return cmd
}
