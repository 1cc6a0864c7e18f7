// Package tui drives a form from the terminal with survey prompts and renders
// plain text summaries of a form view.
package tui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/schema"
	"github.com/goliatone/go-formstate/pkg/validation"
)

const (
	defaultMaxAttempts = 3
	noneOption         = "(none)"
)

// Target is the part of a form engine a session drives. *form.Engine
// satisfies it.
type Target interface {
	render.Source
	SetValue(name string, value any) error
	Wait()
}

// Submitter is a Target that can submit.
type Submitter interface {
	Target
	Submit(ctx context.Context) (any, error)
}

// Session asks for every field in render order and writes the answers into
// the engine with SetValue, so dependent option lists load between prompts.
type Session struct {
	driver      PromptDriver
	theme       Theme
	maxAttempts int

	confirmSubmit string
}

// NewSession builds a session. Without WithPromptDriver it talks to the
// terminal through survey.
func NewSession(options ...Option) *Session {
	s := &Session{
		theme:       DefaultTheme,
		maxAttempts: defaultMaxAttempts,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	return s
}

// Fill prompts for every field.
func (s *Session) Fill(ctx context.Context, target Target) error {
	view := render.Project(target)
	for _, section := range view.Sections {
		if section.Title != "" {
			if err := s.driver.Info(ctx, s.theme.InfoPrefix+section.Title); err != nil {
				return err
			}
		}
		for _, field := range section.Fields {
			if err := s.ask(ctx, target, field.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

// Run fills the form and submits it. Fields rejected by validation or by the
// server are asked again until the submission succeeds or the attempts run
// out.
func (s *Session) Run(ctx context.Context, target Submitter) (any, error) {
	if err := s.Fill(ctx, target); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		if s.confirmSubmit != "" {
			ok, err := s.driver.Confirm(ctx, ConfirmConfig{Message: s.confirmSubmit, Default: true})
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, ErrAborted
			}
		}

		result, err := target.Submit(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		failed := sortedKeys(target.Errors())
		if len(failed) == 0 {
			return nil, err
		}
		if infoErr := s.driver.Info(ctx, s.theme.ErrorPrefix+err.Error()); infoErr != nil {
			return nil, infoErr
		}
		for _, name := range failed {
			if err := s.ask(ctx, target, name); err != nil {
				return nil, err
			}
		}
	}
	return nil, fmt.Errorf("%w: %w", ErrTooManyAttempts, lastErr)
}

func (s *Session) ask(ctx context.Context, target Target, name string) error {
	sch := target.Schema()
	def, ok := sch.Field(name)
	if !ok {
		return fmt.Errorf("tui: unknown field %q", name)
	}

	validate := func(raw any) error {
		values := target.Values()
		values[name] = schema.Coerce(def.Kind, raw)
		if message, failed := validation.ValidateField(values, sch, name); failed {
			return errors.New(message)
		}
		return nil
	}

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		field, _ := render.Project(target).Field(name)
		if field.ShowError {
			if err := s.driver.Info(ctx, s.theme.ErrorPrefix+field.Error); err != nil {
				return err
			}
		}

		answer, err := s.prompt(ctx, field, validate)
		if err != nil {
			return err
		}
		value := schema.Coerce(def.Kind, answer)
		if verr := validate(value); verr != nil {
			if err := s.driver.Info(ctx, s.theme.ErrorPrefix+verr.Error()); err != nil {
				return err
			}
			continue
		}

		if err := target.SetValue(name, value); err != nil {
			return err
		}
		target.Wait()
		return nil
	}
	return fmt.Errorf("%w: %s", ErrTooManyAttempts, name)
}

func (s *Session) prompt(ctx context.Context, field render.FieldView, validate func(any) error) (any, error) {
	message := field.Label
	if field.Required {
		message += " *"
	}
	validator := func(raw string) error { return validate(raw) }

	switch field.Control {
	case render.ControlCheckbox:
		return s.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: field.Checked, Help: field.Description})
	case render.ControlTextarea:
		return s.driver.TextArea(ctx, TextAreaConfig{Message: message, Default: field.Display, Help: field.Description, Validator: validator})
	case render.ControlSelect:
		if len(field.Options) > 0 {
			return s.choose(ctx, field, message)
		}
	}

	cfg := InputConfig{Message: message, Default: field.Display, Help: helpFor(field), Validator: validator}
	if field.Kind == schema.KindPassword {
		return s.driver.Password(ctx, cfg)
	}
	return s.driver.Input(ctx, cfg)
}

func (s *Session) choose(ctx context.Context, field render.FieldView, message string) (any, error) {
	labels := make([]string, 0, len(field.Options)+1)
	values := make([]string, 0, len(field.Options)+1)
	if !field.Required {
		labels = append(labels, noneOption)
		values = append(values, "")
	}
	defaultIndex := 0
	for _, opt := range field.Options {
		if opt.Selected {
			defaultIndex = len(labels)
		}
		labels = append(labels, opt.Label)
		values = append(values, opt.Value)
	}

	idx, err := s.driver.Select(ctx, SelectConfig{
		Message:      message,
		Options:      labels,
		DefaultIndex: defaultIndex,
		Help:         field.Description,
	})
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(values) {
		return "", nil
	}
	return values[idx], nil
}

func helpFor(field render.FieldView) string {
	parts := make([]string, 0, 2)
	if field.Description != "" {
		parts = append(parts, field.Description)
	}
	if field.Placeholder != "" {
		parts = append(parts, "e.g. "+field.Placeholder)
	}
	return strings.Join(parts, " ")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
