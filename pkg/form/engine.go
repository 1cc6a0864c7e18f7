// Package form implements the form state engine: it seeds values from a
// schema, tracks errors and touched fields, loads dependent option lists in
// the background and drives the submission round trip.
//
// An Engine belongs to exactly one form instance. It is safe for concurrent
// use; callbacks run on the calling goroutine, never while the engine's lock
// is held.
package form

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-formstate/pkg/options"
	"github.com/goliatone/go-formstate/pkg/schema"
	"github.com/goliatone/go-formstate/pkg/transport"
	"github.com/goliatone/go-formstate/pkg/validation"
)

const initialLoadConcurrency = 4

var (
	// ErrUnknownField is returned when an operation names a field the schema
	// does not declare.
	ErrUnknownField = errors.New("form: unknown field")
	// ErrInvalid is returned by Submit when client-side validation fails.
	ErrInvalid = errors.New("form: please fix the errors before submitting")
	// ErrNoTarget is returned by Submit when neither an update nor a create
	// target is configured.
	ErrNoTarget = errors.New("form: no create or update target configured")
)

// Engine holds the live state of one form.
type Engine struct {
	id        string
	schema    schema.Schema
	transport transport.Transport
	loader    *options.Loader
	validator *validation.Validator
	logger    *zap.Logger
	mode      schema.Mode

	createTarget string
	updateTarget string

	onSuccess         func(any)
	onError           func(string)
	onFieldChange     func(string, any)
	transformSubmit   SubmitTransform
	transformResponse ResponseTransform

	mu         sync.Mutex
	values     map[string]any
	errors     map[string]string
	touched    map[string]bool
	submitted  bool
	submitting bool
	phase      Phase
	generation uint64
	started    bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New validates the schema and builds an engine seeded with its defaults. No
// I/O happens until Start or SetValue.
func New(s schema.Schema, t transport.Transport, opts ...Option) (*Engine, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("form: invalid schema %q: %w", s.ID, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		id:                uuid.NewString(),
		schema:            s,
		transport:         t,
		validator:         validation.New(),
		logger:            zap.NewNop(),
		mode:              s.ValidationMode(),
		createTarget:      s.CreateTarget,
		updateTarget:      s.UpdateTarget,
		transformSubmit:   identitySubmit,
		transformResponse: identityResponse,
		ctx:               ctx,
		cancel:            cancel,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	e.logger = e.logger.With(zap.String("form", s.ID), zap.String("instance", e.id))
	e.loader = options.New(s, t, options.WithLogger(e.logger))
	e.seed()
	return e, nil
}

func (e *Engine) seed() {
	e.values = e.schema.Defaults()
	e.errors = make(map[string]string)
	e.touched = make(map[string]bool)
	e.submitted = false
	e.submitting = false
	e.phase = PhasePristine
}

// ID identifies this engine instance in logs.
func (e *Engine) ID() string { return e.id }

// Schema returns the schema the engine was built from.
func (e *Engine) Schema() schema.Schema { return e.schema }

// Start fetches the option lists of every field with a remote source and no
// dependency. Loads run in the background; use Wait to block on them.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	e.started = true
	e.mu.Unlock()
	e.loadInitial(ctx)
}

func (e *Engine) loadInitial(ctx context.Context) {
	fields := options.InitialLoads(e.schema)
	if len(fields) == 0 || e.transport == nil {
		return
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		loadCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		stop := context.AfterFunc(e.ctx, cancel)
		defer stop()

		g, gctx := errgroup.WithContext(loadCtx)
		g.SetLimit(initialLoadConcurrency)
		for _, name := range fields {
			name := name
			g.Go(func() error {
				// failures are logged by the loader and must not cancel siblings
				_ = e.loader.Load(gctx, name, nil)
				return nil
			})
		}
		_ = g.Wait()
	}()
}

func (e *Engine) loadDependent(field string, dependencyValue any) {
	if e.transport == nil || e.schema.SourceFor(field) == "" {
		return
	}
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		if err := e.loader.Load(e.ctx, field, dependencyValue); err != nil && !errors.Is(err, options.ErrSuperseded) {
			e.logger.Debug("dependent load finished with error", zap.String("field", field), zap.Error(err))
		}
	}()
}

// Wait blocks until every background option load has finished.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// Close cancels background loads and waits for them to return.
func (e *Engine) Close() {
	e.cancel()
	e.wg.Wait()
}

// SetValue records user input for one field. It marks the field touched,
// re-validates it in on-change mode and reloads the options of every field
// depending on it.
func (e *Engine) SetValue(name string, value any) error {
	if _, ok := e.schema.Field(name); !ok {
		return fmt.Errorf("%w %q", ErrUnknownField, name)
	}

	e.mu.Lock()
	e.values[name] = value
	e.touched[name] = true
	e.phase = PhaseEditing
	var values map[string]any
	if e.mode == schema.ModeOnChange {
		values = schema.CloneValues(e.values)
	}
	e.mu.Unlock()

	if values != nil {
		message, failed := e.validator.Field(values, e.schema, name)
		e.mu.Lock()
		if failed {
			e.errors[name] = message
		} else {
			delete(e.errors, name)
		}
		e.mu.Unlock()
	}

	for _, dependent := range e.schema.Dependents(name) {
		e.loadDependent(dependent, value)
	}

	if e.onFieldChange != nil {
		e.onFieldChange(name, value)
	}
	return nil
}

// SetValues merges values for programmatic hydration. Every key is marked
// touched; nothing is validated and no option loads are triggered.
func (e *Engine) SetValues(partial map[string]any) {
	if len(partial) == 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for name, value := range partial {
		e.values[name] = value
		e.touched[name] = true
	}
	e.phase = PhaseEditing
}

// Reset restores schema defaults and clears errors, touched fields, cached
// options and flags. Started engines fetch their static remote lists again.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.seed()
	e.generation++
	started := e.started
	e.mu.Unlock()

	e.loader.Reset()
	if started {
		e.loadInitial(e.ctx)
	}
}

// SetFieldError stores an error for a field, typically one reported by the
// server.
func (e *Engine) SetFieldError(name, message string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.errors[name] = message
}

// ClearFieldError removes the error stored for a field.
func (e *Engine) ClearFieldError(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.errors, name)
}

// ClearAllErrors removes every stored error.
func (e *Engine) ClearAllErrors() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.errors = make(map[string]string)
}

// Value returns the current value of a field.
func (e *Engine) Value(name string) any {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.values[name]
}

// Values returns a copy of every current value.
func (e *Engine) Values() map[string]any {
	e.mu.Lock()
	defer e.mu.Unlock()
	return schema.CloneValues(e.values)
}

// Touched reports whether the field was set since the last reset.
func (e *Engine) Touched(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.touched[name]
}

// Submitted reports whether a submit was attempted since the last reset.
// Renderers show every field's error once it is true.
func (e *Engine) Submitted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.submitted
}

// Error returns the stored error for a field.
func (e *Engine) Error(name string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	message, ok := e.errors[name]
	return message, ok
}

// Errors returns a copy of the stored errors.
func (e *Engine) Errors() map[string]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneErrors(e.errors)
}

// Dirty reports whether any field was touched since the last reset.
func (e *Engine) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.touched) > 0
}

// Valid reports whether no error is stored and every field passes validation.
func (e *Engine) Valid() bool {
	e.mu.Lock()
	values := schema.CloneValues(e.values)
	stored := len(e.errors)
	e.mu.Unlock()
	return stored == 0 && e.validator.All(values, e.schema).Valid
}

// Loading reports whether an option load is in flight.
func (e *Engine) Loading() bool {
	return e.loader.Loading()
}

// Submitting reports whether a submission is in flight.
func (e *Engine) Submitting() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.submitting
}

// Phase reports the lifecycle phase.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Options resolves the options currently available for a field, using the
// current value of its dependency.
func (e *Engine) Options(name string) []schema.Option {
	field, ok := e.schema.Field(name)
	if !ok {
		return []schema.Option{}
	}
	var dependencyValue any
	if field.Dependency != "" {
		dependencyValue = e.Value(field.Dependency)
	}
	return e.loader.Resolve(name, dependencyValue)
}

// Snapshot copies the full state.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	state := State{
		Values:     schema.CloneValues(e.values),
		Errors:     cloneErrors(e.errors),
		Touched:    cloneTouched(e.touched),
		Submitted:  e.submitted,
		Submitting: e.submitting,
		Dirty:      len(e.touched) > 0,
		Phase:      e.phase,
	}
	e.mu.Unlock()

	state.Valid = len(state.Errors) == 0 && e.validator.All(state.Values, e.schema).Valid
	state.Loading = e.loader.Loading()
	state.Options = make(map[string][]schema.Option, len(e.schema.Fields))
	for _, field := range e.schema.Fields {
		if opts := e.Options(field.Name); len(opts) > 0 {
			state.Options[field.Name] = opts
		}
	}
	return state
}
