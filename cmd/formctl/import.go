package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/pkg/openapi"
	"github.com/goliatone/go-formstate/pkg/schema"
)

func newImportCmd(a *app) *cobra.Command {
	var (
		operation    string
		list         bool
		externalRefs bool
		validate     bool
	)

	cmd := &cobra.Command{
		Use:   "import-openapi <document>",
		Short: "Convert an OpenAPI operation into a form schema document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			var opts []openapi.Option
			if externalRefs {
				opts = append(opts, openapi.WithExternalRefs())
			}
			if validate {
				opts = append(opts, openapi.WithValidation())
			}

			out := cmd.OutOrStdout()
			if list || operation == "" {
				ops, err := openapi.Operations(cmd.Context(), data, opts...)
				if err != nil {
					return err
				}
				for _, op := range ops {
					fmt.Fprintf(out, "%-24s %-6s %s\n", op.ID, op.Method, op.Path)
				}
				return nil
			}

			form, err := openapi.FromOperation(cmd.Context(), data, operation, opts...)
			if err != nil {
				return err
			}
			a.logger.Debug("imported operation", zap.String("operation", operation), zap.Int("fields", len(form.Fields)))

			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(map[string]map[string]schema.Schema{"forms": {form.ID: form}}); err != nil {
				return fmt.Errorf("encode schema: %w", err)
			}
			return enc.Close()
		},
	}

	f := cmd.Flags()
	f.StringVar(&operation, "operation", "", "operation id to import")
	f.BoolVar(&list, "list", false, "list operations instead of importing")
	f.BoolVar(&externalRefs, "external-refs", false, "allow external $ref resolution")
	f.BoolVar(&validate, "validate", false, "validate the document before importing")
	return cmd
}
