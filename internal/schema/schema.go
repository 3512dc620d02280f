package schema

import (
	"github.com/joseph-ayodele/maritime-tracker/internal/maritime"
)

const (
	datePattern  = `^\d{4}-\d{2}-\d{2}$`
	clockPattern = `^\d{1,2}:\d{2}(\s*[AaPp][Mm])?$`
)

// BuildRecordJSONSchema returns a JSON-Schema (draft 2020-12 subset) for an
// extraction record as a generic map. Every field is optional; unknown keys are rejected.
func BuildRecordJSONSchema() map[string]any {
	props := make(map[string]any, len(maritime.Vocabulary()))
	for _, name := range maritime.Vocabulary() {
		props[name] = map[string]any{"type": "string", "minLength": 1}
	}
	for _, name := range maritime.IntegerFields {
		props[name] = countProp()
	}
	for _, name := range maritime.FloatFields {
		props[name] = map[string]any{"type": "number", "minimum": 0}
	}
	props[maritime.FieldOperationDate] = map[string]any{"type": "string", "pattern": datePattern}
	props[maritime.FieldShiftStart] = map[string]any{"type": "string", "pattern": clockPattern}
	props[maritime.FieldShiftEnd] = map[string]any{"type": "string", "pattern": clockPattern}
	props[maritime.FieldBerthLocation] = map[string]any{"type": "string", "pattern": `^Berth\s*[1-3]$`}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
	}
}

func countProp() map[string]any {
	return map[string]any{"type": "integer", "minimum": 0}
}
