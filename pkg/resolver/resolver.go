// Package resolver composes the context text for a queried path from the
// rules currently on disk.
package resolver

import (
	"context"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/dcx/pkg/log"
	"github.com/macropower/dcx/pkg/rule"
	"github.com/macropower/dcx/pkg/store"
)

// NoContext is returned by [Resolver.Resolve] when no rule applies.
const NoContext = "No dynamic context found for this path."

const (
	tracerName = "resolver"

	headerPrefix = "Context for: "
	alwaysStart  = "--- START CONTEXT (ALWAYS) ---\n"
	globStart    = "--- START CONTEXT FROM MATCHING GLOB PATTERN: "
	blockEnd     = "\n--- END CONTEXT ---\n\n"
)

// Loader produces a fresh [store.Snapshot] on every call.
// It is satisfied by [*store.Store].
type Loader interface {
	Load(ctx context.Context) (*store.Snapshot, error)
}

// Match is a rule selected for a path.
type Match struct {
	Rule *rule.Rule
	// Pattern is the first of the rule's patterns that matched the path.
	// It is empty for always rules.
	Pattern string
}

// Resolver selects and renders rules for paths.
type Resolver struct {
	loader Loader
	tracer trace.Tracer
}

// Opt configures a [Resolver].
type Opt func(*Resolver)

// WithTracerProvider sets the provider used for resolution spans.
// The global provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) Opt {
	return func(r *Resolver) {
		r.tracer = tp.Tracer(tracerName)
	}
}

// New creates a new [Resolver].
func New(loader Loader, opts ...Opt) *Resolver {
	r := &Resolver{
		loader: loader,
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve returns the rendered context for path, or [NoContext].
//
// Always rules are rendered first, then glob rules whose patterns match
// path. Within each group rules keep their scan order. Rule bodies are
// written verbatim.
func (r *Resolver) Resolve(ctx context.Context, path string) string {
	matches := r.Matches(ctx, path)
	if len(matches) == 0 {
		return NoContext
	}

	return Render(path, matches)
}

// Matches returns the rules that apply to path: always rules first, then
// matching glob rules. A loader error is logged and yields no matches.
func (r *Resolver) Matches(ctx context.Context, path string) []Match {
	ctx, span := r.tracer.Start(ctx, "resolve", trace.WithAttributes(
		attribute.String("path", path),
	))
	defer span.End()

	logger := log.WithContext(ctx)

	snap, err := r.loader.Load(ctx)
	if err != nil {
		span.RecordError(err)
		logger.ErrorContext(ctx, "load rules",
			slog.String("path", path),
			slog.Any("err", err),
		)

		return nil
	}

	var always, globs []Match

	for _, rl := range snap.Rules {
		pattern, ok := rl.Match(path)
		if !ok {
			continue
		}

		switch rl.Trigger() {
		case rule.TriggerAlways:
			always = append(always, Match{Rule: rl})
		case rule.TriggerGlob:
			globs = append(globs, Match{Rule: rl, Pattern: pattern})
		}
	}

	span.SetAttributes(
		attribute.Int("rules.total", len(snap.Rules)),
		attribute.Int("rules.always", len(always)),
		attribute.Int("rules.glob", len(globs)),
	)

	logger.DebugContext(ctx, "resolved context",
		slog.String("path", path),
		slog.Int("always", len(always)),
		slog.Int("glob", len(globs)),
	)

	return append(always, globs...)
}

// Render writes the context text for path from matches, which must already
// be ordered. It does not return [NoContext] for an empty list.
func Render(path string, matches []Match) string {
	var b strings.Builder

	b.WriteString(headerPrefix)
	b.WriteString(path)
	b.WriteString("\n\n")

	for _, m := range matches {
		if m.Rule.Trigger() == rule.TriggerAlways {
			b.WriteString(alwaysStart)
		} else {
			b.WriteString(globStart)
			b.WriteString(m.Pattern)
			b.WriteString(" ---\n")
		}

		b.WriteString(m.Rule.Body())
		b.WriteString(blockEnd)
	}

	return b.String()
}
