package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// SchemaID identifies the generated schema document.
const SchemaID = "https://github.com/aretw0/waypoint/schemas/walkthrough-v1.json"

// GenerateJSONSchema produces the JSON Schema of Definition.
func GenerateJSONSchema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = false

	s := r.Reflect(&Definition{})
	s.ID = SchemaID
	s.Title = "Waypoint walkthrough definition v1"
	s.Description = "Schema for waypoint walkthrough YAML documents"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}
