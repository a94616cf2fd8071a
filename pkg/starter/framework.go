package starter

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/macropower/dcx/pkg/expr"
)

// Framework is a project type with a starter pack.
type Framework struct {
	// Name identifies the framework and its pack directory.
	Name string
	// Detect is a CEL expression over `files` and `dir` that is true when
	// the project uses the framework.
	Detect string
}

// Frameworks lists the known frameworks in detection order.
var Frameworks = []Framework{
	{
		Name: "laravel",
		Detect: `files.exists(f, pathBase(f) == "composer.json" &&
			yamlPath(f, "$.require") != null && "laravel/framework" in yamlPath(f, "$.require"))`,
	},
	{
		Name: "nextjs",
		Detect: `files.exists(f, pathBase(f) == "package.json" && (
			(yamlPath(f, "$.dependencies") != null && "next" in yamlPath(f, "$.dependencies")) ||
			(yamlPath(f, "$.devDependencies") != null && "next" in yamlPath(f, "$.devDependencies"))))`,
	},
	{
		Name:   "python",
		Detect: `files.exists(f, pathBase(f) in ["requirements.txt", "Pipfile", "pyproject.toml"])`,
	},
}

var titleCaser = cases.Title(language.English)

// DisplayName returns a human readable name for a framework.
func DisplayName(name string) string {
	switch name {
	case "nextjs":
		return "Next.js"
	case "":
		return "None"
	}

	return titleCaser.String(name)
}

// Names returns the names of all known frameworks.
func Names() []string {
	names := make([]string, 0, len(Frameworks))
	for _, f := range Frameworks {
		names = append(names, f.Name)
	}

	return names
}

// Detect returns the name of the first framework whose expression matches the
// top-level entries of dir, or "" if none does.
func Detect(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("get absolute path: %w", err)
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return "", fmt.Errorf("read project directory: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		files = append(files, filepath.Join(abs, e.Name()))
	}

	env, err := expr.NewEnvironment()
	if err != nil {
		return "", err //nolint:wrapcheck // Already wrapped.
	}

	for _, f := range Frameworks {
		program, err := env.Compile(f.Detect)
		if err != nil {
			return "", fmt.Errorf("framework %q: %w", f.Name, err)
		}

		ok, err := expr.EvalBool(program, files, abs)
		if err != nil {
			return "", fmt.Errorf("framework %q: %w", f.Name, err)
		}

		if ok {
			return f.Name, nil
		}
	}

	return "", nil
}
