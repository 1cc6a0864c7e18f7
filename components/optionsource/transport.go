package optionsource

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/goliatone/go-formstate/pkg/transport"
)

// ErrReadOnly is returned by the catalog transport for submissions.
var ErrReadOnly = errors.New("optionsource: catalogs are read-only")

// CatalogTransport answers option loads from in-memory catalogs without an
// HTTP round trip. Each catalog is served at MountPath(basePath) with its name
// as the route, matching what RegisterCatalogs mounts.
type CatalogTransport struct {
	routes map[string]Catalog
	opts   Options
}

var _ transport.Transport = (*CatalogTransport)(nil)

// NewTransport builds a CatalogTransport over catalogs mounted under basePath.
func NewTransport(catalogs Catalogs, basePath string, fns ...OptionFn) *CatalogTransport {
	opts := NewOptions(fns...)
	routes := make(map[string]Catalog, len(catalogs))
	for _, name := range catalogs.Names() {
		routes[mountPath(basePath, name)] = catalogs[name]
	}
	return &CatalogTransport{routes: routes, opts: opts}
}

// Get serves the catalog mounted at path, honouring the same query
// parameters as the HTTP handler.
func (t *CatalogTransport) Get(ctx context.Context, path string, params url.Values) (transport.Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, &transport.Error{Err: err}
	}
	if u, err := url.Parse(path); err == nil {
		path = u.Path
		if params == nil {
			params = u.Query()
		}
	}
	catalog, ok := t.routes[strings.TrimRight(path, "/")]
	if !ok {
		return nil, &transport.Error{Status: 404, Message: "no catalog at " + path}
	}

	list := catalog.Lookup(params.Get(t.opts.ParentParam))
	results := Search(list, params.Get(t.opts.SearchParam), parseInt(params.Get(t.opts.LimitParam)), t.opts)

	data := make([]any, 0, len(results))
	for _, opt := range results {
		data = append(data, map[string]any{"value": opt.Value, "label": opt.Label})
	}
	return map[string]any{"data": data}, nil
}

func (t *CatalogTransport) Post(context.Context, string, any) (transport.Payload, error) {
	return nil, &transport.Error{Err: ErrReadOnly}
}

func (t *CatalogTransport) Put(context.Context, string, any) (transport.Payload, error) {
	return nil, &transport.Error{Err: ErrReadOnly}
}

// RegisterCatalogs mounts one handler per catalog under basePath, using the
// catalog name as route. It returns the registered patterns in name order.
func RegisterCatalogs(mux Mux, basePath string, catalogs Catalogs, fns ...OptionFn) ([]string, error) {
	patterns := make([]string, 0, len(catalogs))
	for _, name := range catalogs.Names() {
		opts := NewOptions(fns...)
		opts.RoutePath = name
		opts.Catalog = catalogs[name]
		pattern, err := RegisterRoutesWithOptions(mux, basePath, opts)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, pattern)
	}
	return patterns, nil
}
