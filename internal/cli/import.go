package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rigport/rigport/internal/config"
	"github.com/rigport/rigport/pkg/asset"
	"github.com/rigport/rigport/pkg/errors"
	"github.com/rigport/rigport/pkg/host/sandbox"
	"github.com/rigport/rigport/pkg/pipeline"
	"github.com/rigport/rigport/pkg/render"
)

// importOpts holds the flags of the import command.
type importOpts struct {
	assets     string
	output     string
	formats    string
	exportType string
	groups     []string
	merge      bool
	swatch     bool
	detailed   bool
	noCache    bool
	refresh    bool
	pick       bool
	watch      bool
}

func (c *CLI) importCommand() *cobra.Command {
	var opts importOpts

	cmd := &cobra.Command{
		Use:   "import <payload.json>",
		Short: "Assemble a payload and write its artifacts",
		Long: `Import every group of an extractor payload against the files under the
assets folder, merge outfit skeletons, and write the rendered hierarchy
artifacts, the material swatch sheet and a JSON report.

Settings resolve in order: payload, then config file, then flags.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.pick && opts.watch {
				return errors.New(errors.ErrCodeInvalidInput, "--pick and --watch cannot be combined")
			}
			run := func(ctx context.Context) error {
				return c.runImport(ctx, cmd, args[0], &opts)
			}
			err := run(cmd.Context())
			if !opts.watch {
				return err
			}
			logger := loggerFromContext(cmd.Context())
			if err != nil {
				logger.Error("import failed", "err", err)
			}
			return watchFile(cmd.Context(), args[0], watchDebounce, logger, run)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.assets, "assets", "", "assets folder (overrides payload and config)")
	f.StringVarP(&opts.output, "output", "o", "", "output directory (default: <payload>.rigport)")
	f.StringVarP(&opts.formats, "format", "f", "", "hierarchy formats: dot, svg, png, json (comma-separated)")
	f.StringVar(&opts.exportType, "export-type", "", "mesh export type: UEFormat or ActorX")
	f.StringSliceVarP(&opts.groups, "group", "g", nil, "only import the named groups")
	f.BoolVar(&opts.merge, "merge", true, "merge outfit skeletons")
	f.Bool("no-merge", false, "do not merge outfit skeletons")
	f.BoolVar(&opts.swatch, "swatch", true, "render the material swatch sheet")
	f.BoolVar(&opts.detailed, "detailed", false, "add depth and child counts to diagram labels")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	f.BoolVar(&opts.refresh, "refresh", false, "re-render artifacts even when cached")
	f.BoolVar(&opts.pick, "pick", false, "choose groups interactively")
	f.BoolVarP(&opts.watch, "watch", "w", false, "re-import whenever the payload changes")
	cmd.MarkFlagsMutuallyExclusive("merge", "no-merge")

	return cmd
}

func (c *CLI) runImport(ctx context.Context, cmd *cobra.Command, path string, opts *importOpts) error {
	logger := loggerFromContext(ctx)
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	payload, err := asset.Load(path)
	if err != nil {
		return err
	}
	if err := resolvePayload(payload, cfg, cmd, opts, path); err != nil {
		return err
	}
	popts, err := resolvePipeline(cfg, cmd, opts)
	if err != nil {
		return err
	}

	if opts.pick {
		groups, err := pickGroups(payload)
		if err != nil {
			return err
		}
		popts.Groups = groups
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	h := sandbox.New(payload.AssetsFolder, payload.Options.MeshExportType, logger)

	prog := newProgress(logger)
	name := filepath.Base(path)
	spinner := newSpinner(ctx, fmt.Sprintf("Importing %s", name))
	spinner.Start()
	res, err := runner.Execute(ctx, payload, h, popts)
	if err != nil {
		spinner.StopWithError(errors.UserMessage(err))
		if res == nil {
			return err
		}
	} else {
		spinner.StopWithSuccess(fmt.Sprintf("Imported %s", name))
	}

	printResult(res)
	files, werr := writeResult(outputDir(opts.output, path), res)
	for _, f := range files {
		printFile(f.Path, f.Cached)
	}
	if err != nil {
		return err
	}
	if werr != nil {
		return werr
	}
	prog.done("import complete", "groups", len(res.Report.Groups), "artifacts", len(res.Artifacts))
	return nil
}

// resolvePayload layers the config file and then the flags over the
// payload's own settings. An empty assets folder falls back to the
// payload's directory.
func resolvePayload(p *asset.Payload, cfg *config.Config, cmd *cobra.Command, opts *importOpts, path string) error {
	if err := cfg.Apply(p); err != nil {
		return err
	}
	flags := cmd.Flags()
	if opts.assets != "" {
		p.AssetsFolder = opts.assets
	}
	if flags.Changed("merge") {
		p.Options.MergeSkeletons = opts.merge
	}
	if noMerge, _ := flags.GetBool("no-merge"); noMerge {
		p.Options.MergeSkeletons = false
	}
	if opts.exportType != "" {
		t, err := asset.ParseMeshExportType(opts.exportType)
		if err != nil {
			return err
		}
		p.Options.MeshExportType = t
	}
	if p.AssetsFolder == "" {
		p.AssetsFolder = filepath.Dir(path)
	}
	return nil
}

// resolvePipeline builds pipeline options from the config file and flags.
func resolvePipeline(cfg *config.Config, cmd *cobra.Command, opts *importOpts) (pipeline.Options, error) {
	flags := cmd.Flags()
	popts := pipeline.Options{
		Groups:     opts.groups,
		Detailed:   cfg.Render.Detailed || opts.detailed,
		Swatch:     cfg.Render.Swatch,
		SwatchTile: cfg.Render.SwatchTile,
		Refresh:    opts.refresh,
	}
	if flags.Changed("swatch") {
		popts.Swatch = opts.swatch
	}

	list := cfg.Render.Formats
	if opts.formats != "" {
		list = strings.Split(opts.formats, ",")
	}
	formats, err := render.ParseFormats(list)
	if err != nil {
		return popts, err
	}
	popts.Formats = formats
	return popts, nil
}
