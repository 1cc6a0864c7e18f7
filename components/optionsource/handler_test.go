package optionsource

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/schema"
)

type handlerResponse struct {
	Data []schema.Option `json:"data"`
}

func geoCatalog() Catalog {
	return Catalog{
		"": {
			{Value: "AZ", Label: "Azerbaijan"},
			{Value: "GE", Label: "Georgia"},
		},
		"AZ": {
			{Value: "sumgait", Label: "Sumgait"},
			{Value: "baku", Label: "Baku"},
			{Value: "ganja", Label: "Ganja"},
		},
	}
}

func serve(t *testing.T, h http.Handler, method, target string) (*http.Response, handlerResponse) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	res := rec.Result()
	var payload handlerResponse
	if method == http.MethodGet && res.StatusCode == http.StatusOK {
		if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	return res, payload
}

func TestHandler_TopLevelList(t *testing.T) {
	res, payload := serve(t, Handler(WithCatalog(geoCatalog())), http.MethodGet, "/api/options")

	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected JSON content-type, got %q", ct)
	}
	if diff := cmp.Diff(geoCatalog()[""], payload.Data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_ParentSearchAndLimit(t *testing.T) {
	h := Handler(WithCatalog(geoCatalog()), WithMaxLimit(2))

	_, payload := serve(t, h, http.MethodGet, "/api/options?parent=AZ&q=ga&limit=10")
	want := []schema.Option{{Value: "ganja", Label: "Ganja"}, {Value: "sumgait", Label: "Sumgait"}}
	if diff := cmp.Diff(want, payload.Data); diff != "" {
		t.Fatalf("search mismatch (-want +got):\n%s", diff)
	}

	_, payload = serve(t, h, http.MethodGet, "/api/options?parent=AZ")
	if len(payload.Data) != 2 {
		t.Fatalf("expected limit clamp to 2, got %d", len(payload.Data))
	}
}

func TestHandler_UnknownParentReturnsEmptyArray(t *testing.T) {
	_, payload := serve(t, Handler(WithCatalog(geoCatalog())), http.MethodGet, "/api/options?parent=XX")
	if payload.Data == nil || len(payload.Data) != 0 {
		t.Fatalf("expected empty data array, got %#v", payload.Data)
	}
}

func TestHandler_EmptySearchNone(t *testing.T) {
	h := Handler(WithCatalog(geoCatalog()), WithEmptySearchMode(EmptySearchNone))
	_, payload := serve(t, h, http.MethodGet, "/api/options")
	if len(payload.Data) != 0 {
		t.Fatalf("expected no results without a query, got %#v", payload.Data)
	}
}

func TestHandler_CustomParams(t *testing.T) {
	h := Handler(WithCatalog(geoCatalog()), WithParentParam("country"), WithSearchParam("search"), WithLimitParam("max"))
	_, payload := serve(t, h, http.MethodGet, "/api/options?country=AZ&search=b&max=1")
	want := []schema.Option{{Value: "baku", Label: "Baku"}}
	if diff := cmp.Diff(want, payload.Data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_GuardRejects(t *testing.T) {
	h := Handler(WithCatalog(geoCatalog()), WithGuard(func(*http.Request) error {
		return StatusError{Code: http.StatusUnauthorized, Err: errors.New("no session")}
	}))
	res, _ := serve(t, h, http.MethodGet, "/api/options")
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.StatusCode)
	}

	h = Handler(WithGuard(func(*http.Request) error { return errors.New("nope") }))
	res, _ = serve(t, h, http.MethodGet, "/api/options")
	if res.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", res.StatusCode)
	}
}

func TestHandler_MethodNotAllowedAndHead(t *testing.T) {
	h := Handler(WithCatalog(geoCatalog()))

	res, _ := serve(t, h, http.MethodPost, "/api/options")
	if res.StatusCode != http.StatusMethodNotAllowed || res.Header.Get("Allow") == "" {
		t.Fatalf("expected 405 with Allow header, got %d", res.StatusCode)
	}

	res, _ = serve(t, h, http.MethodHead, "/api/options")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for HEAD, got %d", res.StatusCode)
	}
}

func TestSearch_NegativeLimit(t *testing.T) {
	if got := Search(geoCatalog()[""], "", -1, NewOptions()); got != nil {
		t.Fatalf("expected nil, got %#v", got)
	}
}
