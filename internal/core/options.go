package core

import (
	"context"
	"time"

	"recipebook/internal/catalog"
)

// Logger is the structured logging surface used by the service. *slog.Logger
// satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function into a Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// MetricsRecorder observes the outcome of every service operation.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

type noopMetricsRecorder struct{}

func (noopMetricsRecorder) Observe(context.Context, string, bool, time.Duration) {}

// TraceSpan is ended once per traced operation.
type TraceSpan interface {
	End(err error)
}

// Tracer starts spans around service operations.
type Tracer interface {
	Start(ctx context.Context, operation string) (context.Context, TraceSpan)
}

type noopTracer struct{}

type noopSpan struct{}

func (noopTracer) Start(ctx context.Context, _ string) (context.Context, TraceSpan) {
	return ctx, noopSpan{}
}

func (noopSpan) End(error) {}

// AuditStatus reports whether an audited operation succeeded.
type AuditStatus string

const (
	// AuditStatusSuccess marks a committed operation.
	AuditStatusSuccess AuditStatus = "success"
	// AuditStatusError marks a failed or rejected operation.
	AuditStatusError AuditStatus = "error"
)

// AuditEntry records one mutating service operation.
type AuditEntry struct {
	Operation string
	Entity    string
	Action    string
	EntityID  string
	Status    AuditStatus
	Error     string
	Duration  time.Duration
	Timestamp time.Time
}

// AuditRecorder receives audit entries for mutating operations.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}

type noopAuditRecorder struct{}

func (noopAuditRecorder) Record(context.Context, AuditEntry) {}

// LogAuditRecorder writes audit entries through a Logger at info level.
type LogAuditRecorder struct {
	Logger Logger
}

// Record implements AuditRecorder.
func (r LogAuditRecorder) Record(_ context.Context, e AuditEntry) {
	if r.Logger == nil {
		return
	}
	args := []any{
		"operation", e.Operation,
		"entity", e.Entity,
		"action", e.Action,
		"entity_id", e.EntityID,
		"status", string(e.Status),
		"duration", e.Duration,
	}
	if e.Error != "" {
		args = append(args, "error", e.Error)
	}
	r.Logger.Info("audit", args...)
}

type serviceOptions struct {
	logger      Logger
	clock       Clock
	metrics     MetricsRecorder
	tracer      Tracer
	audit       AuditRecorder
	ingredients *catalog.IngredientCatalog
	effects     *catalog.EffectCatalog
}

func defaultServiceOptions() serviceOptions {
	return serviceOptions{
		logger:  noopLogger{},
		clock:   ClockFunc(func() time.Time { return time.Now().UTC() }),
		metrics: noopMetricsRecorder{},
		tracer:  noopTracer{},
		audit:   noopAuditRecorder{},
	}
}

// ServiceOption customizes a Service.
type ServiceOption func(*serviceOptions)

// WithLogger sets the service logger. A nil logger is ignored.
func WithLogger(logger Logger) ServiceOption {
	return func(o *serviceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock overrides the time source used for durations and audit stamps.
func WithClock(clock Clock) ServiceOption {
	return func(o *serviceOptions) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithMetricsRecorder sets the metrics sink.
func WithMetricsRecorder(m MetricsRecorder) ServiceOption {
	return func(o *serviceOptions) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithTracer sets the tracer.
func WithTracer(t Tracer) ServiceOption {
	return func(o *serviceOptions) {
		if t != nil {
			o.tracer = t
		}
	}
}

// WithAuditRecorder sets the audit sink.
func WithAuditRecorder(a AuditRecorder) ServiceOption {
	return func(o *serviceOptions) {
		if a != nil {
			o.audit = a
		}
	}
}

// WithCatalogs replaces the default ingredient and effect catalogs.
func WithCatalogs(ingredients *catalog.IngredientCatalog, effects *catalog.EffectCatalog) ServiceOption {
	return func(o *serviceOptions) {
		if ingredients != nil {
			o.ingredients = ingredients
		}
		if effects != nil {
			o.effects = effects
		}
	}
}
