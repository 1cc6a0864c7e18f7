package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formstate/internal/config"
	"github.com/goliatone/go-formstate/pkg/renderers/tui"
	"github.com/goliatone/go-formstate/pkg/schema"
	"github.com/goliatone/go-formstate/pkg/transport"
)

// app carries the state shared by every subcommand.
type app struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger

	// driver overrides the terminal prompts; tests set it.
	driver tui.PromptDriver
	// transport overrides the HTTP transport; tests set it.
	transport transport.Transport
}

func newApp() *app {
	return &app{configPath: "formctl.toml"}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "formctl <command>",
		Short:         "Check, render, fill and serve schema-driven forms",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", a.configPath, "path to the TOML config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newCheckCmd(a),
		newRenderCmd(a),
		newFillCmd(a),
		newImportCmd(a),
		newServeCmd(a),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	logger, err := cfg.Logger()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) httpTransport(baseURL string) transport.Transport {
	if a.transport != nil {
		return a.transport
	}
	if baseURL == "" {
		baseURL = a.cfg.Transport.BaseURL
	}
	return transport.NewHTTP(
		transport.WithBaseURL(baseURL),
		transport.WithTimeout(a.cfg.Transport.Timeout.Duration),
	)
}

// loadForm parses the schema document at path and picks the form with id.
// The id may be omitted when the document holds a single form.
func loadForm(path, id string) (schema.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return schema.Schema{}, fmt.Errorf("read %s: %w", path, err)
	}
	forms, err := schema.Parse(data, path)
	if err != nil {
		return schema.Schema{}, err
	}

	id = strings.TrimSpace(id)
	if id == "" {
		if len(forms) == 1 {
			return forms[0], nil
		}
		ids := make([]string, 0, len(forms))
		for _, form := range forms {
			ids = append(ids, form.ID)
		}
		return schema.Schema{}, fmt.Errorf("%s defines %d forms, pick one with --form (%s)", path, len(forms), strings.Join(ids, ", "))
	}
	for _, form := range forms {
		if form.ID == id {
			return form, nil
		}
	}
	return schema.Schema{}, fmt.Errorf("form %q not found in %s", id, path)
}
