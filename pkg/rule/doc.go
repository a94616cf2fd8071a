// Package rule defines guideline rules and decides which of them apply to a
// path.
//
// A [Rule] is either always included, or included when the query path matches
// one of its glob patterns. Rules are built from decoded document headers by
// [Classify], and matched with [Match] / [Rule.Match].
package rule
