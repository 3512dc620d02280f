package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const recordSchemaURL = "maritime-record.json"

// Validator checks record JSON against the compiled record schema.
// It is safe for concurrent use.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles BuildRecordJSONSchema.
func NewValidator() (*Validator, error) {
	s, err := compile(recordSchemaURL, BuildRecordJSONSchema())
	if err != nil {
		return nil, err
	}
	return &Validator{schema: s}, nil
}

// Validate reports the first schema violation of data, or nil.
func (v *Validator) Validate(data []byte) error {
	doc, err := decode(data)
	if err != nil {
		return err
	}
	if err := v.schema.Validate(doc); err != nil {
		return fmt.Errorf("record does not match schema: %w", err)
	}
	return nil
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	s, err := compile("schema.json", schemaMap)
	if err != nil {
		return err
	}
	doc, err := decode(data)
	if err != nil {
		return err
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

func compile(url string, schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	s, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return s, nil
}

func decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("unmarshal data: %w", err)
	}
	return v, nil
}
