package options_test

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/options"
	"github.com/goliatone/go-formstate/pkg/schema"
	"github.com/goliatone/go-formstate/pkg/testsupport"
	"github.com/goliatone/go-formstate/pkg/transport"
)

func geoSchema() schema.Schema {
	return schema.Schema{
		Fields: []schema.Field{
			{Name: "country", Kind: schema.KindSelect, Options: []schema.Option{{Value: "AZ", Label: "Azerbaijan"}}},
			{Name: "city", Kind: schema.KindSelect, Dependency: "country", Source: "/api/cities",
				Options: []schema.Option{{Value: "other", Label: "Other"}}},
			{Name: "district", Kind: schema.KindSelect, Dependency: "city",
				DependentOptions: map[string][]schema.Option{"baku": {{Value: "nasimi", Label: "Nasimi"}}}},
			{Name: "sector", Kind: schema.KindSelect, Source: "/api/sectors"},
			{Name: "note", Kind: schema.KindText},
		},
	}
}

func TestInitialLoads(t *testing.T) {
	if diff := cmp.Diff([]string{"sector"}, options.InitialLoads(geoSchema())); diff != "" {
		t.Fatalf("initial loads mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_DependentSendsParentParams(t *testing.T) {
	tr := &testsupport.Transport{
		GetFunc: func(_ context.Context, path string, params url.Values) (transport.Payload, error) {
			return map[string]any{"data": []any{
				map[string]any{"id": float64(1), "name": "Baku"},
				map[string]any{"value": "gnj", "title": "Ganja"},
			}}, nil
		},
	}
	l := options.New(geoSchema(), tr)

	if err := l.Load(context.Background(), "city", "AZ"); err != nil {
		t.Fatalf("load: %v", err)
	}

	calls := tr.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	wantParams := url.Values{"country": {"AZ"}, options.ParentParam: {"AZ"}}
	if diff := cmp.Diff(wantParams, calls[0].Params); diff != "" {
		t.Fatalf("params mismatch (-want +got):\n%s", diff)
	}

	want := []schema.Option{{Value: "1", Label: "Baku"}, {Value: "gnj", Label: "Ganja"}}
	if diff := cmp.Diff(want, l.Resolve("city", "AZ")); diff != "" {
		t.Fatalf("resolved options mismatch (-want +got):\n%s", diff)
	}
	if l.Loading() {
		t.Fatalf("loading must clear after completion")
	}
}

func TestLoad_FailureKeepsStaleCache(t *testing.T) {
	fail := false
	tr := &testsupport.Transport{
		GetFunc: func(context.Context, string, url.Values) (transport.Payload, error) {
			if fail {
				return nil, errors.New("boom")
			}
			return []any{"Finance", "Health"}, nil
		},
	}
	l := options.New(geoSchema(), tr)

	if err := l.Load(context.Background(), "sector", nil); err != nil {
		t.Fatalf("first load: %v", err)
	}
	fail = true
	if err := l.Load(context.Background(), "sector", nil); err == nil {
		t.Fatalf("expected error from failing load")
	}

	want := []schema.Option{{Value: "Finance", Label: "Finance"}, {Value: "Health", Label: "Health"}}
	if diff := cmp.Diff(want, l.Resolve("sector", nil)); diff != "" {
		t.Fatalf("stale cache mismatch (-want +got):\n%s", diff)
	}
	if l.Loading() {
		t.Fatalf("loading must clear after failure")
	}
}

func TestLoad_SupersededResultIsDiscarded(t *testing.T) {
	slowStarted := make(chan struct{})
	releaseSlow := make(chan struct{})
	tr := &testsupport.Transport{
		GetFunc: func(_ context.Context, _ string, params url.Values) (transport.Payload, error) {
			if params.Get("country") == "TR" {
				close(slowStarted)
				<-releaseSlow
				return []any{map[string]any{"id": "ist", "name": "Istanbul"}}, nil
			}
			return []any{map[string]any{"id": "baku", "name": "Baku"}}, nil
		},
	}
	l := options.New(geoSchema(), tr)

	slowDone := make(chan error, 1)
	go func() { slowDone <- l.Load(context.Background(), "city", "TR") }()
	<-slowStarted

	if err := l.Load(context.Background(), "city", "AZ"); err != nil {
		t.Fatalf("fast load: %v", err)
	}
	close(releaseSlow)
	if err := <-slowDone; !errors.Is(err, options.ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded, got %v", err)
	}

	want := []schema.Option{{Value: "baku", Label: "Baku"}}
	if diff := cmp.Diff(want, l.Resolve("city", "AZ")); diff != "" {
		t.Fatalf("cache clobbered by stale load (-want +got):\n%s", diff)
	}
}

func TestLoad_BlankDependencyClearsWithoutRequest(t *testing.T) {
	tr := &testsupport.Transport{
		GetFunc: func(context.Context, string, url.Values) (transport.Payload, error) {
			return []any{"Baku"}, nil
		},
	}
	l := options.New(geoSchema(), tr)
	_ = l.Load(context.Background(), "city", "AZ")

	if err := l.Load(context.Background(), "city", ""); err != nil {
		t.Fatalf("blank load: %v", err)
	}
	if len(tr.Calls()) != 1 {
		t.Fatalf("blank dependency must not hit the transport")
	}
	if _, ok := l.Cached("city"); ok {
		t.Fatalf("expected cache entry cleared")
	}
}

func TestLoad_Errors(t *testing.T) {
	l := options.New(geoSchema(), &testsupport.Transport{})
	if err := l.Load(context.Background(), "note", nil); !errors.Is(err, options.ErrNoSource) {
		t.Fatalf("expected ErrNoSource, got %v", err)
	}
	if err := l.Load(context.Background(), "ghost", nil); err == nil {
		t.Fatalf("expected unknown field error")
	}
	if err := options.New(geoSchema(), nil).Load(context.Background(), "sector", nil); !errors.Is(err, options.ErrNoTransport) {
		t.Fatalf("expected ErrNoTransport, got %v", err)
	}
}

func TestResolve_Order(t *testing.T) {
	l := options.New(geoSchema(), &testsupport.Transport{})

	inline := l.Resolve("district", "baku")
	if diff := cmp.Diff([]schema.Option{{Value: "nasimi", Label: "Nasimi"}}, inline); diff != "" {
		t.Fatalf("inline mismatch (-want +got):\n%s", diff)
	}
	if got := l.Resolve("district", "ganja"); len(got) != 0 {
		t.Fatalf("expected empty list for unmapped dependency value, got %v", got)
	}
	static := l.Resolve("city", "AZ")
	if diff := cmp.Diff([]schema.Option{{Value: "other", Label: "Other"}}, static); diff != "" {
		t.Fatalf("static fallback mismatch (-want +got):\n%s", diff)
	}
	if got := l.Resolve("note", nil); got == nil || len(got) != 0 {
		t.Fatalf("expected non-nil empty list, got %#v", got)
	}
}

func TestReset_DropsCacheAndInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	tr := &testsupport.Transport{
		GetFunc: func(context.Context, string, url.Values) (transport.Payload, error) {
			close(started)
			<-release
			return []any{"late"}, nil
		},
	}
	l := options.New(geoSchema(), tr)

	done := make(chan error, 1)
	go func() { done <- l.Load(context.Background(), "sector", nil) }()
	<-started
	if !l.Loading() {
		t.Fatalf("expected loading while request in flight")
	}

	l.Reset()
	if l.Loading() {
		t.Fatalf("reset must clear loading")
	}
	close(release)
	if err := <-done; !errors.Is(err, options.ErrSuperseded) {
		t.Fatalf("expected in-flight load to be superseded, got %v", err)
	}
	if _, ok := l.Cached("sector"); ok {
		t.Fatalf("late result must not repopulate cache after reset")
	}
}

func TestNormalize(t *testing.T) {
	payload := map[string]any{"data": map[string]any{"data": []any{
		map[string]any{"id": float64(10), "value": "ignored", "label": "Ten", "name": "Name wins"},
		map[string]any{"value": "v", "title": "Title"},
		map[string]any{"name": "no value"},
		map[string]any{"id": "x"},
		float64(3),
		nil,
	}}}

	want := []schema.Option{
		{Value: "10", Label: "Name wins"},
		{Value: "v", Label: "Title"},
		{Value: "x", Label: "x"},
		{Value: "3", Label: "3"},
	}
	if diff := cmp.Diff(want, options.Normalize(payload)); diff != "" {
		t.Fatalf("normalize mismatch (-want +got):\n%s", diff)
	}
	if got := options.Normalize(map[string]any{"message": "nope"}); len(got) != 0 {
		t.Fatalf("expected no options from non-list payload, got %v", got)
	}
}
