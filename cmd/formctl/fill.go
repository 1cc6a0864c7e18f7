package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/renderers/tui"
)

func newFillCmd(a *app) *cobra.Command {
	var (
		formID      string
		baseURL     string
		maxAttempts int
		confirm     bool
	)

	cmd := &cobra.Command{
		Use:   "fill <schema>",
		Short: "Fill a form interactively and submit it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadForm(args[0], formID)
			if err != nil {
				return err
			}

			engine, err := form.New(s, a.httpTransport(baseURL), form.WithLogger(a.logger))
			if err != nil {
				return err
			}
			defer engine.Close()
			engine.Start(cmd.Context())
			engine.Wait()

			driver := a.driver
			if driver == nil {
				driver = tui.NewSurveyDriver(cmd.ErrOrStderr())
			}
			opts := []tui.Option{tui.WithPromptDriver(driver), tui.WithMaxAttempts(maxAttempts)}
			if confirm {
				opts = append(opts, tui.WithConfirmSubmit("Submit "+s.ID+"?"))
			}
			session := tui.NewSession(opts...)

			result, err := session.Run(cmd.Context(), engine)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return fmt.Errorf("encode result: %w", err)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&formID, "form", "", "form id inside the schema document")
	f.StringVar(&baseURL, "base-url", "", "API base URL (overrides the config)")
	f.BoolVar(&confirm, "confirm", true, "ask before submitting")
	f.IntVar(&maxAttempts, "attempts", 3, "submission attempts before giving up")
	return cmd
}
