package starter

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/aymanbagabas/go-udiff"

	_ "embed"

	"github.com/macropower/dcx/api"
)

const (
	// GuidelinesStart marks the beginning of the appended guidelines block.
	GuidelinesStart = "<!-- DYNAMIC CONTEXT MCP GUIDELINES START -->"
	// GuidelinesEnd marks the end of the appended guidelines block.
	GuidelinesEnd = "<!-- DYNAMIC CONTEXT MCP GUIDELINES END -->"
)

//go:embed guidelines.md
var guidelines []byte

// Guidelines returns the guidelines block, including both markers.
func Guidelines() string {
	return string(bytes.TrimSpace(guidelines))
}

// AppendStatus describes what happened to an agent file.
type AppendStatus string

const (
	// StatusAppended means the guidelines were (or would be) appended.
	StatusAppended AppendStatus = "appended"
	// StatusPresent means the file already contains the guidelines.
	StatusPresent AppendStatus = "present"
	// StatusMissing means the file does not exist and was skipped.
	StatusMissing AppendStatus = "missing"
)

// AppendResult reports the outcome for one agent file.
type AppendResult struct {
	File   string
	Status AppendStatus
	// Diff is the unified diff of the change, set in dry-run mode.
	Diff string
}

// AppendGuidelines appends the guidelines block to every file in files,
// relative to projectDir, that exists and does not contain [GuidelinesStart]
// yet. With dryRun set, nothing is written and each result carries a diff.
func AppendGuidelines(projectDir string, files []string, dryRun bool) ([]AppendResult, error) {
	addition := []byte("\n\n" + Guidelines() + "\n")

	results := make([]AppendResult, 0, len(files))
	for _, name := range files {
		p := filepath.Join(projectDir, name)

		content, err := api.ReadFile(p)
		if errors.Is(err, fs.ErrNotExist) {
			results = append(results, AppendResult{File: name, Status: StatusMissing})

			continue
		}
		if err != nil {
			return results, fmt.Errorf("%s: %w", name, err)
		}

		if bytes.Contains(content, []byte(GuidelinesStart)) {
			results = append(results, AppendResult{File: name, Status: StatusPresent})

			continue
		}

		result := AppendResult{File: name, Status: StatusAppended}

		if dryRun {
			result.Diff = udiff.Unified("a/"+name, "b/"+name, string(content), string(content)+string(addition))
		} else {
			err = api.AppendFile(p, addition)
			if err != nil {
				return results, fmt.Errorf("%s: %w", name, err)
			}
		}

		results = append(results, result)
	}

	return results, nil
}
