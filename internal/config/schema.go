package config

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaDoc string

var schemaLoader = gojsonschema.NewStringLoader(schemaDoc)

// validateSchema checks a decoded configuration document against the
// structural JSON Schema before it is compiled into a Config. This
// catches shape errors (wrong types, unknown top-level keys, an
// alias missing `paths`) earlier and with better messages than letting
// json.Unmarshal fail field-by-field, the way the teacher validates
// its SARIF output against a reference schema.
func validateSchema(document any) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(document))
	if err != nil {
		return fmt.Errorf("validate config schema: %w", err)
	}
	if result.Valid() {
		return nil
	}
	messages := make([]string, 0, len(result.Errors()))
	for _, item := range result.Errors() {
		messages = append(messages, item.String())
	}
	return fmt.Errorf("config failed schema validation: %s", strings.Join(messages, "; "))
}
