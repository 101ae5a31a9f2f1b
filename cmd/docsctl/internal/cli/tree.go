package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	docs "github.com/codepilotrules/go-docs"
	"github.com/codepilotrules/go-docs/internal/importer"
	"github.com/codepilotrules/go-docs/pages"
)

type treeOptions struct {
	importDir string
	root      string
	asJSON    bool
}

func newTreeCommand(global *globalOptions) *cobra.Command {
	opts := &treeOptions{}

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the page hierarchy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTree(cmd.Context(), cmd.OutOrStdout(), global, *opts)
		},
	}

	cmd.Flags().StringVar(&opts.importDir, "import", "", "Import this directory before printing")
	cmd.Flags().StringVar(&opts.root, "root", "", "Print only the subtree under this page id")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the tree as JSON")

	return cmd
}

func runTree(ctx context.Context, out io.Writer, global *globalOptions, opts treeOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var rootID *uuid.UUID
	if raw := strings.TrimSpace(opts.root); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("parse root: %w", err)
		}
		rootID = &id
	}

	var (
		module *docs.Module
		err    error
	)
	if opts.importDir != "" {
		module, err = buildImportModule(global, opts.importDir)
		if err != nil {
			return err
		}
		defer module.Close()
		result, err := module.Importer().ImportDirectory(ctx, importer.Options{Dir: "."})
		if err != nil {
			return fmt.Errorf("import %s: %w", opts.importDir, err)
		}
		if err := result.Err(); err != nil {
			return fmt.Errorf("import %s: %w", opts.importDir, err)
		}
	} else {
		cfg := global.cfg
		cfg.Features.Import = false
		module, err = moduleBuilder(cfg)
		if err != nil {
			return fmt.Errorf("bootstrap module: %w", err)
		}
		defer module.Close()
	}

	if opts.asJSON {
		nodes, err := module.Pages().Tree(ctx, rootID)
		if err != nil {
			return err
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(nodes)
	}
	return printPageTree(ctx, out, module, rootID)
}

func printPageTree(ctx context.Context, out io.Writer, module *docs.Module, rootID *uuid.UUID) error {
	nodes, err := module.Pages().Tree(ctx, rootID)
	if err != nil {
		return err
	}
	if len(nodes) == 0 {
		_, err := fmt.Fprintln(out, "(no pages)")
		return err
	}
	writeNodes(out, nodes, 0)
	return nil
}

func writeNodes(out io.Writer, nodes []*pages.PageNode, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, node := range nodes {
		fmt.Fprintf(out, "%s%s  %s  [%s]\n", indent, node.Page.Title, node.Page.Path, node.Page.Status)
		writeNodes(out, node.Children, depth+1)
	}
}
