// Package frontmatter splits a rule document into its YAML header and body.
//
// The header is the region between a leading "---" line and the next "---"
// line. It is decoded strictly with goccy/go-yaml. When strict decoding fails,
// exactly one repair is attempted: a single top-level line of the form
//
//	patterns: *.php
//
// whose unquoted value starts with "*" (which YAML reads as an alias) is
// replaced by an empty quoted string, the header is decoded again, and the
// original text is written back into the decoded field. No other malformed
// shapes are repaired; list items such as "- *.php" and indented keys are
// left as they are and still fail.
package frontmatter
