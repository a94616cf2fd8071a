// Package expr provides a CEL (Common Expression Language) environment for
// evaluating expressions against the files of a project directory.
//
// Expressions have access to the variables:
//   - `files` (list<string>): absolute paths of the directory's entries
//   - `dir` (string): the directory path
//
// And to these functions, in addition to the CEL math, strings and lists
// extensions:
//   - pathBase, pathDir, pathExt: file path operations
//   - yamlPath: read a value from a YAML (or JSON) file
//
// Example:
//
//	files.exists(f, pathBase(f) == "package.json" && "next" in yamlPath(f, "$.dependencies"))
package expr
