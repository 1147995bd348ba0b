package trigger

import (
	"errors"

	"github.com/xeipuuv/gojsonschema"
)

// resultSchema is the structural contract for the trigger result file: a JSON
// object whose array-valued members contain only objects. Field-level laxity
// is intentional; the screening program evolves its per-category fields.
const resultSchema = `{
	"type": "object",
	"properties": {
		"metadata": {"type": "object"}
	},
	"additionalProperties": {
		"anyOf": [
			{"type": "array", "items": {"type": "object"}},
			{"type": "object"},
			{"type": "string"},
			{"type": "number"},
			{"type": "boolean"},
			{"type": "null"}
		]
	}
}`

// validateShape checks raw result-file bytes against the structural schema.
func validateShape(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(resultSchema)
	docLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return err
	}
	if !result.Valid() {
		errs := result.Errors()
		if len(errs) > 0 {
			return errors.New(errs[0].String())
		}
		return errors.New("schema validation failed")
	}
	return nil
}
