// Package store loads [rule.Rule]s from a directory of documents.
//
// Every [Store.Load] performs a fresh scan; nothing is cached between calls.
package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/dcx/api"
	"github.com/macropower/dcx/pkg/frontmatter"
	"github.com/macropower/dcx/pkg/log"
	"github.com/macropower/dcx/pkg/rule"
)

const tracerName = "store"

// DefaultExtensions are the document extensions scanned when none are set.
var DefaultExtensions = []string{".md"}

// DocumentError describes a document that could not be loaded.
type DocumentError struct {
	Err    error
	Source string
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

// Snapshot is the result of a single directory scan.
type Snapshot struct {
	// Rules holds the loaded rules, sorted by source filename.
	Rules []*rule.Rule
	// Inert lists documents that declared neither a trigger nor patterns,
	// or a glob trigger without usable patterns.
	Inert []string
	// Failures lists documents that could not be read or parsed.
	Failures []*DocumentError
}

// Store scans a directory for rule documents.
type Store struct {
	tracer     trace.Tracer
	dir        string
	extensions []string
}

// Opt configures a [Store].
type Opt func(*Store)

// WithExtensions sets the document extensions to scan, e.g. ".md".
// Matching is case insensitive.
func WithExtensions(exts ...string) Opt {
	return func(s *Store) {
		if len(exts) > 0 {
			s.extensions = slices.Clone(exts)
		}
	}
}

// WithTracerProvider sets the provider used for scan spans.
func WithTracerProvider(tp trace.TracerProvider) Opt {
	return func(s *Store) {
		s.tracer = tp.Tracer(tracerName)
	}
}

// New creates a [Store] for dir.
func New(dir string, opts ...Opt) *Store {
	s := &Store{
		dir:        dir,
		extensions: DefaultExtensions,
		tracer:     otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Dir returns the scanned directory.
func (s *Store) Dir() string {
	return s.dir
}

// Load scans the directory and returns the rules it defines. A directory
// that does not exist yields an empty [Snapshot]. Problems with individual
// documents are recorded in the [Snapshot] and never fail the scan.
func (s *Store) Load(ctx context.Context) (*Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "store.load", trace.WithAttributes(
		attribute.String("dir", s.dir),
	))
	defer span.End()

	logger := log.WithContext(ctx).With(slog.String("dir", s.dir))

	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		logger.DebugContext(ctx, "rules directory does not exist")

		return &Snapshot{}, nil
	}

	if err != nil {
		span.RecordError(err)

		return nil, fmt.Errorf("read rules directory: %w", err)
	}

	snap := &Snapshot{}
	documents := 0

	for _, entry := range entries {
		if !s.isDocument(entry) {
			continue
		}

		documents++

		r, err := s.loadDocument(entry.Name())
		switch {
		case err == nil:
			snap.Rules = append(snap.Rules, r)

		case errors.Is(err, rule.ErrInert), errors.Is(err, rule.ErrNoPatterns):
			logger.DebugContext(ctx, "skip inert document",
				slog.String("source", entry.Name()),
				slog.Any("reason", err),
			)

			snap.Inert = append(snap.Inert, entry.Name())

		default:
			logger.WarnContext(ctx, "skip document",
				slog.String("source", entry.Name()),
				slog.Any("err", err),
			)

			snap.Failures = append(snap.Failures, &DocumentError{Source: entry.Name(), Err: err})
		}
	}

	span.SetAttributes(
		attribute.Int("documents", documents),
		attribute.Int("rules", len(snap.Rules)),
	)

	return snap, nil
}

func (s *Store) isDocument(entry fs.DirEntry) bool {
	mode := entry.Type()
	if mode&fs.ModeSymlink != 0 {
		info, err := os.Stat(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return false
		}

		mode = info.Mode()
	}

	if !mode.IsRegular() {
		return false
	}

	ext := filepath.Ext(entry.Name())

	return slices.ContainsFunc(s.extensions, func(e string) bool {
		return strings.EqualFold(e, ext)
	})
}

func (s *Store) loadDocument(name string) (*rule.Rule, error) {
	data, err := api.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, err //nolint:wrapcheck // Already wrapped.
	}

	doc, err := frontmatter.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}

	if doc.Recovered {
		slog.Debug("recovered malformed header", slog.String("source", name))
	}

	return rule.Classify(name, doc.Fields, doc.Body) //nolint:wrapcheck // Sentinels checked by the caller.
}
