package model

import "strings"

// Spec is the validated, in-memory OpenAPI document. The loader builds it
// once per load; after that it is treated as immutable and replaced
// wholesale on reload.
type Spec struct {
	OpenAPIVersion string           `json:"openapi"`
	Info           Info             `json:"info"`
	Servers        []Server         `json:"servers,omitempty"`
	Tags           []Tag            `json:"tags,omitempty"`
	Paths          []Path           `json:"paths,omitempty"`
	Schemas        []Schema         `json:"schemas,omitempty"`
	Security       []SecurityScheme `json:"securitySchemes,omitempty"`
}

// SchemaByName returns a named component schema, or nil if not declared.
func (s *Spec) SchemaByName(name string) *Schema {
	for i := range s.Schemas {
		if s.Schemas[i].Name == name {
			return &s.Schemas[i]
		}
	}
	return nil
}

// SchemaByRef returns a schema by its $ref path (e.g., "#/components/schemas/User").
// Returns nil if the schema is not found.
func (s *Spec) SchemaByRef(ref string) *Schema {
	parts := strings.Split(ref, "/")
	if len(parts) == 0 {
		return nil
	}
	return s.SchemaByName(parts[len(parts)-1])
}

type Info struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version"`
}

type Server struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

type Tag struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type Path struct {
	Path       string      `json:"path"`
	Operations []Operation `json:"operations,omitempty"`
}
