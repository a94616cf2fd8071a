package rule

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Trigger decides when a [Rule] is included.
type Trigger string

const (
	// TriggerAlways includes the rule for every path.
	TriggerAlways Trigger = "always"
	// TriggerGlob includes the rule when any of its patterns match.
	TriggerGlob Trigger = "glob"
)

// ErrNoPatterns is returned when constructing a glob [Rule] without patterns.
var ErrNoPatterns = errors.New("glob rule has no patterns")

// Rule is an immutable guideline loaded from a single document.
type Rule struct {
	source   string
	trigger  Trigger
	body     string
	patterns []string
}

// NewAlways creates a rule that applies to every path.
func NewAlways(source, body string) *Rule {
	return &Rule{
		source:  source,
		trigger: TriggerAlways,
		body:    body,
	}
}

// NewGlob creates a rule that applies to paths matching any of patterns.
// Pattern order is kept; it decides which pattern [Rule.Match] reports.
func NewGlob(source, body string, patterns ...string) (*Rule, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("%s: %w", source, ErrNoPatterns)
	}

	return &Rule{
		source:   source,
		trigger:  TriggerGlob,
		body:     body,
		patterns: slices.Clone(patterns),
	}, nil
}

// Source returns the name of the document the rule was loaded from.
func (r *Rule) Source() string {
	return r.source
}

func (r *Rule) Trigger() Trigger {
	return r.trigger
}

// Patterns returns a copy of the rule's patterns. It is empty for
// [TriggerAlways] rules.
func (r *Rule) Patterns() []string {
	return slices.Clone(r.patterns)
}

// Body returns the guideline text, exactly as written in the document.
func (r *Rule) Body() string {
	return r.body
}

// Match reports whether the rule applies to path. For glob rules, pattern is
// the first pattern (in declaration order) that matched. For always rules,
// ok is always true and pattern is empty.
func (r *Rule) Match(path string) (string, bool) {
	if r.trigger == TriggerAlways {
		return "", true
	}

	for _, p := range r.patterns {
		if Match(path, p) {
			return p, true
		}
	}

	return "", false
}

func (r *Rule) String() string {
	if r.trigger == TriggerAlways {
		return fmt.Sprintf("%s: %s", r.source, r.trigger)
	}

	return fmt.Sprintf("%s: %s [%s]", r.source, r.trigger, strings.Join(r.patterns, ", "))
}
