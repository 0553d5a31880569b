// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

// Field is one required string property of a structured response.
type Field struct {
	Name        string
	Description string
}

// Schema describes a flat JSON object whose properties are all required
// strings. Name is used where a provider wants a schema identifier.
type Schema struct {
	Name   string
	Fields []Field
}

// FieldNames returns the property names in declaration order.
func (s Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// jsonSchema renders the schema in JSON Schema form.
func (s Schema) jsonSchema() map[string]any {
	props := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		props[f.Name] = map[string]any{
			"type":        "string",
			"description": f.Description,
		}
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             s.FieldNames(),
		"additionalProperties": false,
	}
}
