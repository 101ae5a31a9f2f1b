// Package cli implements the docsctl command tree.
package cli

import (
	"github.com/spf13/cobra"

	docs "github.com/codepilotrules/go-docs"
	"github.com/codepilotrules/go-docs/internal/di"
	"github.com/codepilotrules/go-docs/internal/runtimeconfig"
)

// moduleBuilder is swapped in tests.
var moduleBuilder = func(cfg runtimeconfig.Config, opts ...di.Option) (*docs.Module, error) {
	return docs.New(cfg, opts...)
}

type globalOptions struct {
	configPath string
	envFile    string
	cfg        runtimeconfig.Config
}

// NewRootCommand assembles docsctl and its subcommands.
func NewRootCommand() *cobra.Command {
	global := &globalOptions{}

	root := &cobra.Command{
		Use:   "docsctl",
		Short: "Convert markdown and organise documentation pages",
		Example: `docsctl convert guides/setup.md
docsctl import ./content --dry-run
docsctl tree --import ./content
docsctl serve --config docs.yaml`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := LoadEnvFile(global.envFile); err != nil {
				return err
			}
			cfg, err := LoadConfig(global.configPath)
			if err != nil {
				return err
			}
			global.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&global.configPath, "config", "c", "", "Path to a YAML config file")
	root.PersistentFlags().StringVar(&global.envFile, "env-file", ".env", "Optional dotenv file loaded before config")

	root.AddCommand(
		newConvertCommand(),
		newImportCommand(global),
		newTreeCommand(global),
		newServeCommand(global),
	)
	root.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	root.CompletionOptions.HiddenDefaultCmd = true

	return root
}

// Execute runs docsctl with os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}
