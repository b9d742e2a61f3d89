package record

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// canonicalSchemaJSON is the JSON Schema every extraction oracle's output
// must satisfy. It is deliberately lenient about fields the pipeline
// defaults afterwards (timestamp, source, thread_id) and strict about the
// ones it cannot invent (type, intent, extracted_values).
const canonicalSchemaJSON = `{
  "type": "object",
  "required": ["type", "intent", "extracted_values"],
  "properties": {
    "source":  {"type": ["string", "null"]},
    "type":    {"type": "string"},
    "timestamp": {"type": ["string", "null"]},
    "intent":  {"type": "string", "minLength": 1},
    "extracted_values": {"type": "object"},
    "thread_id": {"type": ["string", "null"]}
  }
}`

var canonicalSchema = mustCompileSchema(canonicalSchemaJSON)

func mustCompileSchema(src string) *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("record.json", strings.NewReader(src)); err != nil {
		panic(fmt.Sprintf("record: adding schema resource: %v", err))
	}
	return c.MustCompile("record.json")
}

// ValidateCanonical checks that data is a syntactically valid instance of
// the canonical record schema. It does not decode into a Record; callers
// unmarshal separately after validation passes.
func ValidateCanonical(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decoding record json: %w", err)
	}
	if err := canonicalSchema.Validate(v); err != nil {
		return fmt.Errorf("record does not match canonical schema: %w", err)
	}
	return nil
}
