package v1beta1

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// GenerateSchema reflects a JSON schema from the Go type of v.
// Definitions are inlined and unknown properties are rejected.
func GenerateSchema(v any, title string) ([]byte, error) {
	r := &jsonschema.Reflector{
		DoNotReference: true,
	}

	jss := r.Reflect(v)
	jss.ID = ""
	jss.Title = title

	b, err := json.MarshalIndent(jss, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return b, nil
}
