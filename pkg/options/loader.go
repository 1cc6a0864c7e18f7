// Package options loads and resolves option lists for select-like fields,
// including fields whose choices depend on another field's value. A Loader is
// owned by exactly one form engine; its cache is never shared.
package options

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-formstate/pkg/schema"
	"github.com/goliatone/go-formstate/pkg/transport"
)

var (
	// ErrNoSource is returned when Load targets a field without a remote source.
	ErrNoSource = errors.New("options: field has no remote source")
	// ErrSuperseded is returned when a newer load for the same field started
	// before this one resolved; the result was discarded.
	ErrSuperseded = errors.New("options: load superseded by a newer request")
	// ErrNoTransport is returned when Load is called without a transport.
	ErrNoTransport = errors.New("options: transport is required")
)

// ParentParam is the query parameter always carrying the dependency value.
const ParentParam = "parent"

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger used to report failed loads.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Loader fetches and caches option lists per field.
type Loader struct {
	schema    schema.Schema
	transport transport.Transport
	logger    *zap.Logger

	mu      sync.Mutex
	cache   map[string][]schema.Option
	tokens  map[string]uint64
	pending map[string]uint64
}

// New constructs a Loader bound to one schema and transport.
func New(s schema.Schema, t transport.Transport, opts ...Option) *Loader {
	l := &Loader{
		schema:    s,
		transport: t,
		logger:    zap.NewNop(),
		cache:     make(map[string][]schema.Option),
		tokens:    make(map[string]uint64),
		pending:   make(map[string]uint64),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// InitialLoads lists the fields with a remote source and no dependency. Their
// options are fetched once when an engine starts.
func InitialLoads(s schema.Schema) []string {
	var out []string
	for _, field := range s.Fields {
		if field.Dependency == "" && s.SourceFor(field.Name) != "" {
			out = append(out, field.Name)
		}
	}
	return out
}

// Load fetches the options for field. For dependent fields dependencyValue is
// sent as both the dependency field's name and ParentParam. A blank dependency
// value clears the cached options without a request.
//
// Failures are logged and leave the previous cache entry in place. Results of
// a load overtaken by a newer load for the same field are discarded.
func (l *Loader) Load(ctx context.Context, fieldName string, dependencyValue any) error {
	field, ok := l.schema.Field(fieldName)
	if !ok {
		return fmt.Errorf("options: unknown field %q", fieldName)
	}
	source := l.schema.SourceFor(fieldName)
	if source == "" {
		return fmt.Errorf("%w: %q", ErrNoSource, fieldName)
	}
	if l.transport == nil {
		return ErrNoTransport
	}

	var params url.Values
	if field.Dependency != "" {
		if schema.IsEmpty(dependencyValue) {
			l.mu.Lock()
			l.tokens[fieldName]++
			delete(l.pending, fieldName)
			delete(l.cache, fieldName)
			l.mu.Unlock()
			return nil
		}
		key := Key(dependencyValue)
		params = url.Values{field.Dependency: {key}, ParentParam: {key}}
	}

	l.mu.Lock()
	l.tokens[fieldName]++
	token := l.tokens[fieldName]
	l.pending[fieldName] = token
	l.mu.Unlock()

	payload, err := l.transport.Get(ctx, source, params)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.tokens[fieldName] != token {
		l.logger.Debug("discarding superseded option load",
			zap.String("field", fieldName),
			zap.Uint64("token", token),
		)
		return ErrSuperseded
	}
	delete(l.pending, fieldName)

	if err != nil {
		l.logger.Warn("option load failed",
			zap.String("field", fieldName),
			zap.String("source", source),
			zap.Error(err),
		)
		return fmt.Errorf("options: load %q: %w", fieldName, err)
	}

	l.cache[fieldName] = Normalize(payload)
	return nil
}

// Loading reports whether any current (non superseded) load is in flight.
func (l *Loader) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending) > 0
}

// Cached returns a copy of the cached options for field.
func (l *Loader) Cached(fieldName string) ([]schema.Option, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	opts, ok := l.cache[fieldName]
	if !ok {
		return nil, false
	}
	return append([]schema.Option(nil), opts...), true
}

// Snapshot copies the whole cache.
func (l *Loader) Snapshot() map[string][]schema.Option {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string][]schema.Option, len(l.cache))
	for name, opts := range l.cache {
		out[name] = append([]schema.Option(nil), opts...)
	}
	return out
}

// Reset drops the cache and invalidates every in-flight load.
func (l *Loader) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string][]schema.Option)
	l.pending = make(map[string]uint64)
	for _, field := range l.schema.Fields {
		l.tokens[field.Name]++
	}
}

// Key formats a dependency value the way option maps and query strings expect.
func Key(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
