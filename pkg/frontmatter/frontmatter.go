package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/macropower/dcx/pkg/yaml"
)

const delimiter = "---"

var (
	// ErrUnterminated indicates an opening delimiter without a closing one.
	ErrUnterminated = errors.New("header delimiter not closed")
	// ErrInvalidHeader indicates a header that could not be decoded, even
	// after recovery.
	ErrInvalidHeader = errors.New("invalid header")

	// Matches a top-level "key: *value" line. The value is captured without
	// surrounding whitespace.
	unquotedStarRe = regexp.MustCompile(`(?m)^([A-Za-z0-9_][A-Za-z0-9_.-]*)[ \t]*:[ \t]+(\*.*?)[ \t\r]*$`)

	bom = []byte("\ufeff")
)

// Document is a parsed rule document.
type Document struct {
	// Fields holds the decoded header. It is nil when there is no header.
	Fields map[string]any
	// Body is the text after the header, unmodified.
	Body string
	// HasHeader reports whether the document opened with a header block.
	HasHeader bool
	// Recovered reports whether the unquoted "*" repair was applied.
	Recovered bool
}

// Parse splits data into header fields and body.
func Parse(data []byte) (*Document, error) {
	header, body, ok, err := split(bytes.TrimPrefix(data, bom))
	if err != nil {
		return nil, err
	}

	if !ok {
		return &Document{Body: body}, nil
	}

	doc := &Document{
		Body:      body,
		HasHeader: true,
	}

	fields, err := decode(header)
	if err == nil {
		doc.Fields = fields

		return doc, nil
	}

	fields, err = recoverHeader(header, err)
	if err != nil {
		return nil, err
	}

	doc.Fields = fields
	doc.Recovered = true

	return doc, nil
}

// split returns the header text and body. ok is false when data does not
// start with a header block.
func split(data []byte) (string, string, bool, error) {
	content := string(data)

	first, rest, found := strings.Cut(content, "\n")
	if !isDelimiter(first) {
		return "", content, false, nil
	}

	if !found {
		return "", "", false, ErrUnterminated
	}

	offset := 0
	for offset <= len(rest) {
		line, _, more := strings.Cut(rest[offset:], "\n")
		if isDelimiter(line) {
			header := rest[:offset]
			body := ""

			if more {
				body = rest[offset+len(line)+1:]
			}

			return header, body, true, nil
		}

		if !more {
			break
		}

		offset += len(line) + 1
	}

	return "", "", false, ErrUnterminated
}

func isDelimiter(line string) bool {
	return strings.TrimRight(line, " \t\r") == delimiter
}

func decode(header string) (map[string]any, error) {
	var v any

	err := yaml.NewDecoder(strings.NewReader(header)).Decode(&v)
	if errors.Is(err, io.EOF) {
		return map[string]any{}, nil
	}

	if err != nil {
		return nil, err //nolint:wrapcheck // Wrapped by the caller.
	}

	switch m := v.(type) {
	case nil:
		return map[string]any{}, nil

	case map[string]any:
		return m, nil
	}

	return nil, fmt.Errorf("expected a mapping, got %T", v)
}

// recoverHeader applies the unquoted "*" repair to header. strictErr is the
// error from the first decode attempt and is returned when no repair applies.
func recoverHeader(header string, strictErr error) (map[string]any, error) {
	matches := unquotedStarRe.FindAllStringSubmatchIndex(header, -1)
	if len(matches) != 1 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHeader, strictErr)
	}

	m := matches[0]
	key := header[m[2]:m[3]]
	value := header[m[4]:m[5]]

	repaired := header[:m[0]] + key + `: ""` + header[m[1]:]

	fields, err := decode(repaired)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}

	fields[key] = value

	return fields, nil
}
