package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quaverlabs/quaver/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file path (or base path for multiple formats)
	formats  []string // output formats: "dot", "svg", "png", "pdf"
	detailed bool     // include token kind and raw text in node labels
	scale    float64  // PNG scale factor
	maxDepth int      // maximum bracket nesting depth
	rest     string   // rest symbol
	noCache  bool     // disable the artifact cache
	refresh  bool     // bypass the cache for this run
}

// renderCommand creates the render command for drawing pattern trees.
// It supports DOT, SVG, PNG, and PDF output (comma-separated for multiple).
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		scale:    pipeline.DefaultScale,
		maxDepth: c.Config.MaxDepth,
		rest:     c.Config.RestSymbol,
	}

	cmd := &cobra.Command{
		Use:   "render <pattern>...",
		Short: "Draw a pattern tree as a diagram",
		Long: `Draw the tree structure of a pattern as a diagram.

Groups and transform calls become internal nodes; malformed tokens show up
dashed and red exactly where compilation would skip them.

Examples:
  quaver render "scale2[1 2 [3 4]*2]"
  quaver render -f svg,png -o tree "mirror[1 2 3]"
  quaver render -f dot "1 2 3" | dot -Tpdf > tree.pdf`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd, strings.Join(args, " "), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, png, pdf (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show token kinds and raw text in labels")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().IntVar(&opts.maxDepth, "max-depth", opts.maxDepth, "maximum bracket nesting depth")
	cmd.Flags().StringVar(&opts.rest, "rest", opts.rest, "rest symbol")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, patternText string, opts *renderOpts) error {
	logger := loggerFromContext(cmd.Context())
	runner, err := c.newRunner(cmd.Context(), opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	pOpts := c.pipelineOptions(patternText)
	pOpts.MaxDepth = opts.maxDepth
	pOpts.RestSymbol = opts.rest
	pOpts.Formats = opts.formats
	pOpts.Detailed = opts.detailed
	pOpts.Scale = opts.scale
	pOpts.Refresh = opts.refresh

	spin := newSpinnerWithContext(cmd.Context(), "rendering pattern tree")
	spin.Start()
	prog := newProgress(logger)
	artifacts, hit, err := runner.RenderWithCacheInfo(cmd.Context(), pOpts)
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d format(s)", len(artifacts)))

	if len(opts.formats) == 1 {
		return c.writeArtifact(artifacts[opts.formats[0]], opts.formats[0], opts.output, hit)
	}

	base := basePath(opts.output)
	for _, format := range opts.formats {
		path := base + "." + format
		if err := c.writeArtifact(artifacts[format], format, path, hit); err != nil {
			return err
		}
	}
	return nil
}

// writeArtifact writes one rendered format to path (stdout if empty).
func (c *CLI) writeArtifact(data []byte, format, path string, cached bool) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return err
	}
	if path != "" {
		status := iconFresh
		if cached {
			status = iconCached
		}
		printSuccess("Generated %s (%s, %d bytes)", path, status, len(data))
	}
	return nil
}

// basePath strips a known format extension from the output path so multiple
// formats can share a base name. An empty output defaults to "pattern".
func basePath(output string) string {
	if output == "" {
		return "pattern"
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
