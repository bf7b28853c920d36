package save

import (
	"encoding/json"
	"reflect"

	"github.com/invopop/jsonschema"

	"xss/internal/player"
)

var (
	setType = reflect.TypeOf(player.Set{})
	rawType = reflect.TypeOf(json.RawMessage{})
)

// Schema describes the save document.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			switch t {
			case setType:
				return &jsonschema.Schema{
					Type:        "array",
					Items:       &jsonschema.Schema{Type: "string"},
					UniqueItems: true,
				}
			case rawType:
				return &jsonschema.Schema{Description: "per-kind state of the active mission"}
			}
			return nil
		},
	}
	schema := reflector.Reflect(new(Snapshot))
	schema.Title = "XSS save file"
	schema.Description = "Player stats and network state written by the save command"
	return schema
}

// SchemaJSON renders Schema as indented JSON.
func SchemaJSON() ([]byte, error) {
	return json.MarshalIndent(Schema(), "", "  ")
}
