package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	docs "github.com/codepilotrules/go-docs"
	"github.com/codepilotrules/go-docs/internal/importer"
	"github.com/codepilotrules/go-docs/internal/runtimeconfig"
)

type serveOptions struct {
	addr      string
	importDir string
}

func newServeCommand(global *globalOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the admin API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd.OutOrStdout(), global, *opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "Listen address (overrides http.addr)")
	cmd.Flags().StringVar(&opts.importDir, "import", "", "Import this directory before serving")

	return cmd
}

func runServe(ctx context.Context, out io.Writer, global *globalOptions, opts serveOptions) error {
	cfg := global.cfg
	if opts.addr != "" {
		cfg.HTTP.Addr = opts.addr
	}

	var (
		module *docs.Module
		err    error
	)
	if opts.importDir != "" {
		module, err = buildImportModule(&globalOptions{cfg: cfg}, opts.importDir)
		if err != nil {
			return err
		}
		result, err := module.Importer().ImportDirectory(ctx, importer.Options{Dir: "."})
		if err != nil {
			module.Close()
			return fmt.Errorf("import %s: %w", opts.importDir, err)
		}
		printImportResult(out, result)
	} else {
		module, err = moduleBuilder(cfg)
		if err != nil {
			return fmt.Errorf("bootstrap module: %w", err)
		}
	}
	defer module.Close()

	server, err := newServer(cfg.HTTP, module)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(out, "admin API listening on %s\n", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := cfg.HTTP.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

func newServer(cfg runtimeconfig.HTTPConfig, module *docs.Module) (*http.Server, error) {
	mux := http.NewServeMux()
	if err := module.AdminAPI().Register(mux); err != nil {
		return nil, fmt.Errorf("register admin api: %w", err)
	}
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
	}, nil
}
