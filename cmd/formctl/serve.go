package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formstate/components/optionsource"
	"github.com/goliatone/go-formstate/internal/server"
	"github.com/goliatone/go-formstate/pkg/schema"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr     string
		schemas  string
		catalogs string
		backend  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rendered forms and option catalogs over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pick(&addr, a.cfg.Server.Addr)
			pick(&schemas, a.cfg.Server.Schemas)
			pick(&catalogs, a.cfg.Server.Catalogs)
			pick(&backend, a.cfg.Transport.BaseURL)

			handler, err := buildServer(a, schemas, catalogs, backend)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("serving forms", zap.String("addr", addr), zap.String("schemas", schemas))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}

	f := cmd.Flags()
	f.StringVar(&addr, "addr", "", "listen address (defaults to the config)")
	f.StringVar(&schemas, "schemas", "", "directory of schema documents")
	f.StringVar(&catalogs, "catalogs", "", "YAML file of option catalogs")
	f.StringVar(&backend, "backend", "", "API base URL receiving valid submissions")
	return cmd
}

func buildServer(a *app, schemasDir, catalogsFile, backend string) (http.Handler, error) {
	store, err := schema.LoadFS(os.DirFS(schemasDir))
	if err != nil {
		return nil, err
	}
	if store.Empty() {
		return nil, fmt.Errorf("no forms found in %s", schemasDir)
	}

	opts := []server.Option{server.WithLogger(a.logger)}
	if catalogsFile != "" {
		data, err := os.ReadFile(catalogsFile)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", catalogsFile, err)
		}
		parsed, err := optionsource.ParseCatalogs(data)
		if err != nil {
			return nil, err
		}
		opts = append(opts, server.WithCatalogs(parsed, a.cfg.Server.OptionsAt))
	}
	if backend != "" || a.transport != nil {
		opts = append(opts, server.WithBackend(a.httpTransport(backend)))
	}

	srv, err := server.New(store, opts...)
	if err != nil {
		return nil, err
	}
	return srv.Handler()
}

func pick(flag *string, fallback string) {
	if *flag == "" {
		*flag = fallback
	}
}
