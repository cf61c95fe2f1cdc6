package timeline

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Schema returns the JSON Schema describing the persisted timeline format.
func Schema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  true,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	schema := reflector.Reflect(&Timeline{})
	schema.Title = "Mascot timeline"
	schema.Description = "Timestamped gesture, emotion and shape events relative to recording start, in milliseconds."
	return json.MarshalIndent(schema, "", "  ")
}
