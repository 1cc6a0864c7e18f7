package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/renderers/html"
	"github.com/goliatone/go-formstate/pkg/renderers/tui"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		formID    string
		renderer  string
		output    string
		templates string
		values    []string
		hidden    []string
		sections  string
		fields    string
		action    string
		baseURL   string
		load      bool
	)

	cmd := &cobra.Command{
		Use:   "render <schema>",
		Short: "Render a form to HTML or text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadForm(args[0], formID)
			if err != nil {
				return err
			}
			preset, err := parseValues(s, values)
			if err != nil {
				return err
			}

			hiddenFields, err := parseHidden(hidden)
			if err != nil {
				return err
			}

			registry, err := newRegistry(templates)
			if err != nil {
				return err
			}

			engine, err := form.New(s, a.httpTransport(baseURL), form.WithLogger(a.logger))
			if err != nil {
				return err
			}
			defer engine.Close()

			if load {
				engine.Start(cmd.Context())
				engine.Wait()
			}
			for name, value := range preset {
				if err := engine.SetValue(name, value); err != nil {
					return err
				}
			}
			engine.Wait()

			out, _, err := registry.Render(cmd.Context(), renderer, engine,
				render.WithAction(action),
				render.WithSubset(render.ParseSubset(sections, fields)),
				render.WithHiddenFields(hiddenFields...),
			)
			if err != nil {
				return err
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Form written to %s\n", output)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&formID, "form", "", "form id inside the schema document")
	f.StringVarP(&renderer, "renderer", "r", html.Name, "renderer to use (html or text)")
	f.StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	f.StringVar(&templates, "templates", "", "directory overriding the HTML templates")
	f.StringArrayVar(&values, "values", nil, "preset field value as key=value (repeatable)")
	f.StringArrayVar(&hidden, "hidden", nil, "hidden input as name=value (repeatable), e.g. a CSRF token")
	f.StringVar(&sections, "sections", "", "comma separated sections to render")
	f.StringVar(&fields, "fields", "", "comma separated fields to render")
	f.StringVar(&action, "action", "", "form action attribute")
	f.StringVar(&baseURL, "base-url", "", "base URL for remote option sources")
	f.BoolVar(&load, "load-options", false, "fetch remote option lists before rendering")
	return cmd
}

func newRegistry(templatesDir string) (*render.Registry, error) {
	var opts []html.Option
	if templatesDir != "" {
		opts = append(opts, html.WithTemplatesDir(templatesDir))
	}
	htmlRenderer, err := html.New(opts...)
	if err != nil {
		return nil, err
	}

	registry := render.NewRegistry()
	registry.MustRegister(htmlRenderer)
	registry.MustRegister(tui.NewRenderer(tui.OutputFormatPrettyText))
	return registry, nil
}
