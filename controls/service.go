package controls

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Service exposes the get/set command semantics over an injected Source.
// Every operation re-enumerates the live UI; the Service itself holds no
// parameter state, only the Source binding and the active Schema.
type Service struct {
	src Source
	log *slog.Logger

	mu     sync.RWMutex
	schema *Schema
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithSchema sets the initial markup schema. Defaults to DefaultSchema.
func WithSchema(s *Schema) ServiceOption {
	return func(svc *Service) {
		if s != nil {
			svc.schema = s
		}
	}
}

// WithLogger overrides the logger. Defaults to slog.Default.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(svc *Service) {
		if l != nil {
			svc.log = l
		}
	}
}

// NewService builds a Service over the given Source.
func NewService(src Source, opts ...ServiceOption) *Service {
	svc := &Service{
		src:    src,
		log:    slog.Default(),
		schema: DefaultSchema(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Schema returns the currently active schema.
func (s *Service) Schema() *Schema {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.schema
}

// SetSchema swaps the active schema. Used by the daemon's hot reload; safe
// for concurrent use with in-flight operations, which finish on the schema
// they started with.
func (s *Service) SetSchema(schema *Schema) {
	if schema == nil {
		return
	}
	s.mu.Lock()
	s.schema = schema
	s.mu.Unlock()
}

// List snapshots the UI and enumerates the sampler parameters in document
// order.
func (s *Service) List(ctx context.Context) ([]Parameter, error) {
	snap, err := s.src.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return Enumerate(snap, s.Schema()), nil
}

// Get returns the stringified current value of the named parameter.
func (s *Service) Get(ctx context.Context, name string) (string, error) {
	p, err := s.lookup(ctx, name)
	if err != nil {
		return "", err
	}
	return FormatValue(p), nil
}

// Set coerces value per the target parameter's kind and writes it to the
// live control. Boolean parameters accept permissive truthy tokens; numeric
// parameters require a finite number and are silently clamped into
// [min, max]. The Source emits exactly one change notification per write.
func (s *Service) Set(ctx context.Context, name, value string) error {
	p, err := s.lookup(ctx, name)
	if err != nil {
		return err
	}

	m := Mutation{Ref: p.Ref}
	if p.Kind == KindBoolean {
		b := ParseTruthy(value)
		m.Checked = &b
	} else {
		v, err := ParseFinite(value)
		if err != nil {
			return err
		}
		v = Clamp(v, p.Min, p.Max)
		m.Value = &v
	}

	if err := s.src.Mutate(ctx, m); err != nil {
		return err
	}
	s.log.DebugContext(ctx, "sampler parameter set",
		slog.String("id", p.ID),
		slog.String("kind", p.Kind.String()),
		slog.String("value", value),
	)
	return nil
}

// Suggest returns the display names of all current parameters whose name or
// id starts with prefix (case-insensitive), sorted case-insensitively with
// locale-aware collation. An empty prefix returns everything.
func (s *Service) Suggest(ctx context.Context, prefix string) ([]string, error) {
	params, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(prefix))
	names := make([]string, 0, len(params))
	for _, p := range params {
		if q != "" &&
			!strings.HasPrefix(strings.ToLower(p.Name), q) &&
			!strings.HasPrefix(strings.ToLower(p.ID), q) {
			continue
		}
		names = append(names, p.Name)
	}
	collate.New(language.English, collate.IgnoreCase).SortStrings(names)
	return names, nil
}

// lookup resolves a parameter by display name or id: trimmed,
// case-insensitive exact match, name checked before id, first match in
// enumeration (document) order wins.
func (s *Service) lookup(ctx context.Context, name string) (Parameter, error) {
	q := strings.ToLower(strings.TrimSpace(name))
	if q == "" {
		return Parameter{}, &MissingArgumentError{Argument: "name"}
	}
	params, err := s.List(ctx)
	if err != nil {
		return Parameter{}, err
	}
	for _, p := range params {
		if strings.ToLower(p.Name) == q || strings.ToLower(p.ID) == q {
			return p, nil
		}
	}
	return Parameter{}, &NotFoundError{Name: strings.TrimSpace(name)}
}
