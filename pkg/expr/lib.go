package expr

import (
	"bytes"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/ext"
)

type lib struct{}

func (lib) CompileOptions() []cel.EnvOption {
	return []cel.EnvOption{
		ext.Math(),
		ext.Strings(),
		ext.Lists(),

		// Example: files.exists(f, pathBase(f) in ["Pipfile", "pyproject.toml"]).
		pathFunction("pathBase", filepath.Base),

		// Example: files.filter(f, pathDir(f) == dir).
		pathFunction("pathDir", filepath.Dir),

		// Example: files.exists(f, pathExt(f) == ".csproj").
		pathFunction("pathExt", filepath.Ext),

		// `yamlPath` reads a YAML or JSON file and extracts a value using a YAML path.
		// Returns null if the path doesn't exist or the file can't be read.
		// Example: files.exists(f, pathBase(f) == "composer.json" && "laravel/framework" in yamlPath(f, "$.require")).
		cel.Function("yamlPath",
			cel.Overload("yaml_path", []*cel.Type{cel.StringType, cel.StringType}, cel.DynType,
				cel.BinaryBinding(yamlPath),
			),
		),
	}
}

func (lib) ProgramOptions() []cel.ProgramOption {
	return []cel.ProgramOption{}
}

// pathFunction declares a CEL function name(string) string backed by fn.
func pathFunction(name string, fn func(string) string) cel.EnvOption {
	return cel.Function(name,
		cel.Overload(name+"_string", []*cel.Type{cel.StringType}, cel.StringType,
			cel.UnaryBinding(func(path ref.Val) ref.Val {
				s, ok := path.Value().(string)
				if !ok {
					return types.NewErr("%s: invalid string value", name)
				}

				return types.String(fn(s))
			}),
		),
	)
}

//nolint:ireturn // Following CEL's function signature.
func yamlPath(file, expr ref.Val) ref.Val {
	fileStr, ok := file.Value().(string)
	if !ok {
		return types.NewErr("yamlPath: invalid file path")
	}

	exprStr, ok := expr.Value().(string)
	if !ok {
		return types.NewErr("yamlPath: invalid yaml path")
	}

	logger := slog.With(
		slog.String("file", fileStr),
		slog.String("yamlPath", exprStr),
	)

	content, err := os.ReadFile(fileStr) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		logger.Debug("read file, returning null", slog.Any("err", err))

		return types.NullValue
	}

	path, err := yaml.PathString(exprStr)
	if err != nil {
		logger.Debug("invalid YAML path, returning null", slog.Any("err", err))

		return types.NullValue
	}

	var value any

	err = path.Read(bytes.NewReader(content), &value)
	if err != nil {
		logger.Debug("extract value, returning null", slog.Any("err", err))

		return types.NullValue
	}

	return ConvertToCELValue(value)
}

// ConvertToCELValue converts a decoded YAML value to a CEL value.
// Unsupported types become null.
//
//nolint:ireturn // Following CEL's function signature.
func ConvertToCELValue(value any) ref.Val {
	switch v := value.(type) {
	case nil:
		return types.NullValue
	case bool:
		return types.Bool(v)
	case int:
		return types.Int(v)
	case int8:
		return types.Int(v)
	case int16:
		return types.Int(v)
	case int32:
		return types.Int(v)
	case int64:
		return types.Int(v)
	case uint:
		return convertUint(uint64(v))
	case uint8:
		return types.Int(v)
	case uint16:
		return types.Int(v)
	case uint32:
		return types.Int(v)
	case uint64:
		return convertUint(v)
	case float32:
		return types.Double(v)
	case float64:
		return types.Double(v)
	case string:
		return types.String(v)

	case []any:
		vals := make([]ref.Val, len(v))
		for i, item := range v {
			vals[i] = ConvertToCELValue(item)
		}

		return types.NewDynamicList(types.DefaultTypeAdapter, vals)

	case map[string]any:
		m := make(map[ref.Val]ref.Val, len(v))
		for key, val := range v {
			m[types.String(key)] = ConvertToCELValue(val)
		}

		return types.NewDynamicMap(types.DefaultTypeAdapter, m)

	case map[any]any:
		m := make(map[ref.Val]ref.Val, len(v))
		for key, val := range v {
			m[ConvertToCELValue(key)] = ConvertToCELValue(val)
		}

		return types.NewDynamicMap(types.DefaultTypeAdapter, m)
	}

	return types.NullValue
}

//nolint:ireturn // Following CEL's function signature.
func convertUint(v uint64) ref.Val {
	if v > math.MaxInt64 {
		return types.Double(float64(v))
	}

	return types.Int(int64(v))
}
