package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formstate/pkg/schema"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <schema>...",
		Short: "Validate schema documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err == nil {
					var forms []schema.Schema
					forms, err = schema.Parse(data, path)
					if err == nil {
						for _, form := range forms {
							fmt.Fprintf(out, "ok   %s (%s, %d fields)\n", path, form.ID, len(form.Fields))
						}
						continue
					}
				}
				failed++
				fmt.Fprintf(out, "FAIL %s\n  %v\n", path, err)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d documents failed", failed, len(args))
			}
			return nil
		},
	}
}
