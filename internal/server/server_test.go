package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/components/optionsource"
	"github.com/goliatone/go-formstate/pkg/schema"
	"github.com/goliatone/go-formstate/pkg/testsupport"
	"github.com/goliatone/go-formstate/pkg/transport"
)

const formsDoc = `
forms:
  signup:
    title: Sign up
    fields:
      - name: name
        label: Name
        kind: text
        required: true
        rules:
          minLength: 3
      - name: country
        label: Country
        kind: select
        source: /api/options/countries
      - name: city
        label: City
        kind: select
        dependency: country
        source: /api/options/cities
      - name: newsletter
        kind: checkbox
`

func newTestServer(t *testing.T, opts ...Option) http.Handler {
	t.Helper()

	store, err := schema.LoadFS(fstest.MapFS{"forms/signup.yaml": {Data: []byte(formsDoc)}})
	if err != nil {
		t.Fatalf("load schemas: %v", err)
	}
	opts = append([]Option{WithCatalogs(optionsource.Catalogs{
		"countries": {"": {{Value: "AZ", Label: "Azerbaijan"}}},
		"cities":    {"AZ": {{Value: "baku", Label: "Baku"}}},
	}, "")}, opts...)

	srv, err := New(store, opts...)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	h, err := srv.Handler()
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	return h
}

func post(h http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServer_ListForms(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/forms", nil))

	var body struct {
		Data []string `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff([]string{"signup"}, body.Data); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestServer_ShowFormLoadsCatalogOptions(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/forms/signup", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{`action="/forms/signup"`, `<option value="AZ">Azerbaijan</option>`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in output:\n%s", want, body)
		}
	}
	if strings.Contains(body, "formstate-error") {
		t.Fatalf("pristine form should not show errors:\n%s", body)
	}
}

func TestServer_ShowFormUnknown(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/forms/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestServer_SubmitInvalidRerendersWithErrors(t *testing.T) {
	rec := post(newTestServer(t), "/forms/signup", url.Values{"name": {"ab"}, "country": {"AZ"}})

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{`class="formstate-error"`, `value="ab"`, `<option value="baku">Baku</option>`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in output:\n%s", want, body)
		}
	}
}

func TestServer_SubmitValidEchoesValues(t *testing.T) {
	rec := post(newTestServer(t), "/forms/signup", url.Values{"name": {"Ada"}, "country": {"AZ"}, "city": {"baku"}, "newsletter": {"true"}})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Data map[string]any `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]any{"name": "Ada", "country": "AZ", "city": "baku", "newsletter": true}
	if diff := cmp.Diff(want, body.Data); diff != "" {
		t.Fatalf("echo mismatch (-want +got):\n%s", diff)
	}
}

func TestServer_SubmitBackendErrors(t *testing.T) {
	backend := &testsupport.Transport{
		PostFunc: func(context.Context, string, any) (transport.Payload, error) {
			return nil, &transport.Error{Status: http.StatusConflict, Message: "Name already taken", Errors: map[string][]string{"name": {"taken"}}}
		},
	}
	rec := post(newTestServer(t, WithBackend(backend)), "/forms/signup", url.Values{"name": {"Ada"}})

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Name already taken", ">taken</p>"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in output:\n%s", want, body)
		}
	}
	if backend.Count(http.MethodPost) != 1 {
		t.Fatalf("expected one backend post, got %d", backend.Count(http.MethodPost))
	}
}
