package companion

import (
	"encoding/json"
	"sync"

	"github.com/invopop/jsonschema"
)

var (
	schemaOnce sync.Once
	schemaJSON string
)

// SchemaJSON returns the JSON schema of Response, embedded in the model instruction.
func SchemaJSON() string {
	schemaOnce.Do(func() {
		reflector := jsonschema.Reflector{
			AllowAdditionalProperties:  false,
			DoNotReference:             true,
			RequiredFromJSONSchemaTags: true,
		}
		schema := reflector.Reflect(&Response{})
		// The draft URI is noise for the model.
		schema.Version = ""

		b, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			panic(err)
		}
		schemaJSON = string(b)
	})
	return schemaJSON
}
