package rule

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

const triggerKey = "trigger"

var (
	// ErrInert is returned by [Classify] for documents that declare neither a
	// trigger nor any patterns. Such documents are ignored.
	ErrInert = errors.New("document has no trigger or patterns")

	// PatternKeys are the header keys that hold patterns, in lookup order.
	// The first key present with a non-null value is used.
	PatternKeys = []string{"patterns", "globs"}
)

// Classify builds a [Rule] from decoded header fields.
//
// An explicit "always" or "glob" trigger is used as given. Any other trigger
// value, or none at all, is treated as "glob" when a pattern field is present
// and non-empty; otherwise [ErrInert] is returned. A glob rule whose pattern
// list is empty after normalization returns [ErrNoPatterns].
func Classify(source string, fields map[string]any, body string) (*Rule, error) {
	patterns, hasPatterns := lookupPatterns(source, fields)

	switch explicitTrigger(fields) {
	case TriggerAlways:
		return NewAlways(source, body), nil

	case TriggerGlob:
		return NewGlob(source, body, patterns...)
	}

	if !hasPatterns || len(patterns) == 0 {
		return nil, fmt.Errorf("%s: %w", source, ErrInert)
	}

	return NewGlob(source, body, patterns...)
}

func explicitTrigger(fields map[string]any) Trigger {
	v, ok := fields[triggerKey].(string)
	if !ok {
		return ""
	}

	switch t := Trigger(strings.ToLower(strings.TrimSpace(v))); t {
	case TriggerAlways, TriggerGlob:
		return t
	}

	return ""
}

// lookupPatterns returns the normalized patterns of the first pattern key
// present in fields, and whether such a key was found.
func lookupPatterns(source string, fields map[string]any) ([]string, bool) {
	for _, key := range PatternKeys {
		v, ok := fields[key]
		if !ok || v == nil {
			continue
		}

		return normalizePatterns(source, key, v), true
	}

	return nil, false
}

// normalizePatterns turns a string or list value into a pattern list. Blank
// strings, non-string items and malformed globs are dropped.
func normalizePatterns(source, key string, v any) []string {
	var raw []any

	switch val := v.(type) {
	case string:
		raw = []any{val}

	case []any:
		raw = val

	case []string:
		for _, s := range val {
			raw = append(raw, s)
		}

	default:
		slog.Warn("ignoring pattern field with unsupported type",
			slog.String("source", source),
			slog.String("key", key),
			slog.String("type", fmt.Sprintf("%T", v)),
		)

		return nil
	}

	patterns := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			slog.Warn("ignoring non-string pattern",
				slog.String("source", source),
				slog.String("key", key),
				slog.Any("value", item),
			)

			continue
		}

		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}

		if !ValidPattern(s) {
			slog.Warn("ignoring malformed pattern",
				slog.String("source", source),
				slog.String("pattern", s),
			)

			continue
		}

		patterns = append(patterns, s)
	}

	return patterns
}
