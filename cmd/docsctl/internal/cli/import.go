package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	docs "github.com/codepilotrules/go-docs"
	"github.com/codepilotrules/go-docs/internal/commands"
	pagescmd "github.com/codepilotrules/go-docs/internal/commands/pages"
	"github.com/codepilotrules/go-docs/internal/importer"
)

type importOptions struct {
	pattern   string
	recursive bool
	dryRun    bool
	actor     string
	showTree  bool
}

func newImportCommand(global *globalOptions) *cobra.Command {
	opts := &importOptions{}

	cmd := &cobra.Command{
		Use:   "import <dir>",
		Short: "Import a directory of markdown and html files as pages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var recursive *bool
			if cmd.Flags().Changed("recursive") {
				recursive = &opts.recursive
			}
			return runImport(cmd.Context(), cmd.OutOrStdout(), global, args[0], *opts, recursive)
		},
	}

	cmd.Flags().StringVar(&opts.pattern, "pattern", "", "Glob applied to file names (defaults to *.md and *.html)")
	cmd.Flags().BoolVar(&opts.recursive, "recursive", true, "Descend into sub-directories")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Report changes without writing pages")
	cmd.Flags().StringVar(&opts.actor, "actor", "", "Actor UUID recorded on imported pages")
	cmd.Flags().BoolVar(&opts.showTree, "tree", false, "Print the page tree after importing")

	return cmd
}

func runImport(ctx context.Context, out io.Writer, global *globalOptions, dir string, opts importOptions, recursive *bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	actor, err := parseActor(opts.actor)
	if err != nil {
		return err
	}

	module, err := buildImportModule(global, dir)
	if err != nil {
		return err
	}
	defer module.Close()

	var result *importer.Result
	handler := pagescmd.NewImportPagesHandler(
		module.Importer(),
		commands.CommandLogger(module.Container().LoggerProvider(), "import"),
		pagescmd.FeatureGates{},
		func(r *importer.Result) { result = r },
	)

	execErr := handler.Execute(ctx, pagescmd.ImportPagesCommand{
		Dir:       ".",
		Pattern:   opts.pattern,
		Recursive: recursive,
		DryRun:    opts.dryRun,
		ActorID:   actor,
	})
	if result != nil {
		printImportResult(out, result)
	}
	if execErr != nil {
		return fmt.Errorf("import %s: %w", dir, execErr)
	}

	if opts.showTree {
		return printPageTree(ctx, out, module, nil)
	}
	return nil
}

// buildImportModule roots the markdown loader at dir.
func buildImportModule(global *globalOptions, dir string) (*docs.Module, error) {
	cfg := global.cfg
	cfg.Features.Import = true
	cfg.Markdown.ContentDir = dir

	module, err := moduleBuilder(cfg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap module: %w", err)
	}
	if module.Importer() == nil {
		module.Close()
		return nil, fmt.Errorf("content directory %s not found", dir)
	}
	return module, nil
}

func printImportResult(out io.Writer, result *importer.Result) {
	prefix := ""
	if result.DryRun {
		prefix = "(dry run) "
	}
	for _, outcome := range result.Outcomes {
		fmt.Fprintf(out, "%s%-6s %s -> %s\n", prefix, outcome.Action, outcome.Path, outcome.Slug)
	}
	for _, fileErr := range result.Errors {
		fmt.Fprintf(out, "%serror  %s: %v\n", prefix, fileErr.Path, fileErr.Err)
	}
	fmt.Fprintf(out, "%screated=%d updated=%d skipped=%d failed=%d\n",
		prefix, result.Created(), result.Updated(), result.Skipped(), len(result.Errors))
}

func parseActor(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse actor: %w", err)
	}
	return id, nil
}
