package tui_test

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/renderers/tui"
	"github.com/goliatone/go-formstate/pkg/schema"
	"github.com/goliatone/go-formstate/pkg/testsupport"
	"github.com/goliatone/go-formstate/pkg/transport"
)

type stubDriver struct {
	inputs    []string
	passwords []string
	confirms  []bool
	selects   []int
	textAreas []string
	infos     []string
	selectCfg []tui.SelectConfig
}

func (s *stubDriver) Input(_ context.Context, _ tui.InputConfig) (string, error) {
	if len(s.inputs) == 0 {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[0]
	s.inputs = s.inputs[1:]
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, _ tui.InputConfig) (string, error) {
	if len(s.passwords) == 0 {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[0]
	s.passwords = s.passwords[1:]
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ tui.ConfirmConfig) (bool, error) {
	if len(s.confirms) == 0 {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirms[0]
	s.confirms = s.confirms[1:]
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg tui.SelectConfig) (int, error) {
	s.selectCfg = append(s.selectCfg, cfg)
	if len(s.selects) == 0 {
		return -1, errors.New("no select scripted")
	}
	val := s.selects[0]
	s.selects = s.selects[1:]
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ tui.TextAreaConfig) (string, error) {
	if len(s.textAreas) == 0 {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[0]
	s.textAreas = s.textAreas[1:]
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infos = append(s.infos, msg)
	return nil
}

func intPtr(v int) *int { return &v }

func accountSchema() schema.Schema {
	return schema.Schema{
		ID: "account",
		Fields: []schema.Field{
			{Name: "username", Kind: schema.KindText, Required: true, Rules: &schema.Rules{MinLength: intPtr(3)}},
			{Name: "secret", Kind: schema.KindPassword},
			{Name: "country", Kind: schema.KindSelect, Required: true, Options: []schema.Option{{Value: "AZ", Label: "Azerbaijan"}}},
			{Name: "city", Kind: schema.KindSelect, Dependency: "country", Source: "/cities"},
			{Name: "agree", Kind: schema.KindCheckbox},
			{Name: "bio", Kind: schema.KindTextarea},
		},
		Sections:     []schema.Section{{ID: "main", Title: "Account", Fields: []string{"username", "secret", "country", "city", "agree", "bio"}}},
		CreateTarget: "/accounts",
	}
}

func newEngine(t *testing.T, tr transport.Transport) *form.Engine {
	t.Helper()
	engine, err := form.New(accountSchema(), tr)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func citiesTransport() *testsupport.Transport {
	tr := testsupport.EchoTransport()
	tr.GetFunc = func(_ context.Context, _ string, params url.Values) (transport.Payload, error) {
		if params.Get("country") != "AZ" {
			return []any{}, nil
		}
		return []any{map[string]any{"id": "baku", "name": "Baku"}}, nil
	}
	return tr
}

func TestSession_FillLoadsDependentOptionsBetweenPrompts(t *testing.T) {
	engine := newEngine(t, citiesTransport())
	driver := &stubDriver{
		inputs:    []string{"ab", "ada"},
		passwords: []string{"s3cret"},
		selects:   []int{0, 1},
		confirms:  []bool{true},
		textAreas: []string{"hello"},
	}

	session := tui.NewSession(tui.WithPromptDriver(driver))
	if err := session.Fill(context.Background(), engine); err != nil {
		t.Fatalf("fill: %v", err)
	}

	want := map[string]any{
		"username": "ada",
		"secret":   "s3cret",
		"country":  "AZ",
		"city":     "baku",
		"agree":    true,
		"bio":      "hello",
	}
	if diff := cmp.Diff(want, engine.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	if len(driver.selectCfg) != 2 {
		t.Fatalf("expected two select prompts, got %d", len(driver.selectCfg))
	}
	if diff := cmp.Diff([]string{"(none)", "Baku"}, driver.selectCfg[1].Options); diff != "" {
		t.Fatalf("city options mismatch (-want +got):\n%s", diff)
	}
	wantInfos := []string{"Account", "! Username must be at least 3 characters"}
	if diff := cmp.Diff(wantInfos, driver.infos); diff != "" {
		t.Fatalf("info messages mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_RunSubmits(t *testing.T) {
	tr := citiesTransport()
	engine := newEngine(t, tr)
	driver := &stubDriver{
		inputs:    []string{"ada"},
		passwords: []string{""},
		selects:   []int{0, 0},
		confirms:  []bool{false},
		textAreas: []string{""},
	}

	result, err := tui.NewSession(tui.WithPromptDriver(driver)).Run(context.Background(), engine)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	values, ok := result.(map[string]any)
	if !ok || values["username"] != "ada" || values["country"] != "AZ" {
		t.Fatalf("unexpected result %#v", result)
	}
	if tr.Count("POST") != 1 {
		t.Fatalf("expected one submission, got %d", tr.Count("POST"))
	}
}

func TestSession_RunAsksAgainForServerErrors(t *testing.T) {
	attempts := 0
	tr := citiesTransport()
	tr.PostFunc = func(_ context.Context, _ string, body any) (transport.Payload, error) {
		attempts++
		if attempts == 1 {
			return nil, &transport.Error{Status: 422, Message: "Username taken", Errors: map[string][]string{"username": {"is taken"}}}
		}
		return map[string]any{"data": body}, nil
	}
	engine := newEngine(t, tr)
	driver := &stubDriver{
		inputs:    []string{"ada", "grace"},
		passwords: []string{""},
		selects:   []int{0, 0},
		confirms:  []bool{false},
		textAreas: []string{""},
	}

	result, err := tui.NewSession(tui.WithPromptDriver(driver)).Run(context.Background(), engine)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.(map[string]any)["username"] != "grace" {
		t.Fatalf("expected corrected username, got %#v", result)
	}
	joined := strings.Join(driver.infos, "\n")
	if !strings.Contains(joined, "Username taken") || !strings.Contains(joined, "is taken") {
		t.Fatalf("expected server feedback in info messages:\n%s", joined)
	}
}

func TestSession_TooManyAttempts(t *testing.T) {
	engine := newEngine(t, citiesTransport())
	driver := &stubDriver{inputs: []string{"a", "b"}}

	err := tui.NewSession(tui.WithPromptDriver(driver), tui.WithMaxAttempts(2)).Fill(context.Background(), engine)
	if !errors.Is(err, tui.ErrTooManyAttempts) {
		t.Fatalf("expected too many attempts, got %v", err)
	}
}

func TestSession_RunConfirmsBeforeSubmit(t *testing.T) {
	tr := citiesTransport()
	engine := newEngine(t, tr)
	driver := &stubDriver{
		inputs:    []string{"ada"},
		passwords: []string{""},
		selects:   []int{0, 0},
		confirms:  []bool{false, false},
		textAreas: []string{""},
	}

	_, err := tui.NewSession(tui.WithPromptDriver(driver), tui.WithConfirmSubmit("Submit?")).Run(context.Background(), engine)
	if !errors.Is(err, tui.ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if tr.Count("POST") != 0 {
		t.Fatalf("expected no submission, got %d", tr.Count("POST"))
	}
}
