package model

import "strings"

// Operation is one HTTP method bound to one path. Extracted operations are
// self-contained: path and method are copied on so consumers never need a
// back-reference into the document.
type Operation struct {
	ID          string                `json:"operationId,omitempty"`
	Method      Method                `json:"method"`
	Path        string                `json:"path"`
	Summary     string                `json:"summary,omitempty"`
	Description string                `json:"description,omitempty"`
	Tags        []string              `json:"tags,omitempty"`
	Parameters  []Parameter           `json:"parameters,omitempty"`
	RequestBody *RequestBody          `json:"requestBody,omitempty"`
	Responses   []Response            `json:"responses,omitempty"`
	Deprecated  bool                  `json:"deprecated,omitempty"`
	Security    []SecurityRequirement `json:"security,omitempty"`
}

type Method string

const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodPatch   Method = "PATCH"
	MethodDelete  Method = "DELETE"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
	MethodTrace   Method = "TRACE"
)

// ParseMethod maps a path-item key to one of the eight recognized HTTP
// methods, case-insensitively. The second return is false for anything else
// (shared parameters blocks, vendor extensions, unknown verbs).
func ParseMethod(key string) (Method, bool) {
	switch Method(strings.ToUpper(key)) {
	case MethodGet, MethodPost, MethodPut, MethodPatch,
		MethodDelete, MethodHead, MethodOptions, MethodTrace:
		return Method(strings.ToUpper(key)), true
	}
	return "", false
}

type ParameterLocation string

const (
	LocationPath   ParameterLocation = "path"
	LocationQuery  ParameterLocation = "query"
	LocationHeader ParameterLocation = "header"
	LocationCookie ParameterLocation = "cookie"
)

type Parameter struct {
	Name        string            `json:"name"`
	In          ParameterLocation `json:"in"`
	Description string            `json:"description,omitempty"`
	Required    bool              `json:"required,omitempty"`
	Deprecated  bool              `json:"deprecated,omitempty"`
	Schema      *Schema           `json:"schema,omitempty"`
}

type RequestBody struct {
	Description string             `json:"description,omitempty"`
	Required    bool               `json:"required,omitempty"`
	Content     []MediaTypeContent `json:"content,omitempty"`
}

type MediaTypeContent struct {
	MediaType string  `json:"mediaType"`
	Schema    *Schema `json:"schema,omitempty"`
}

type Response struct {
	StatusCode  string             `json:"statusCode"`
	Description string             `json:"description,omitempty"`
	Content     []MediaTypeContent `json:"content,omitempty"`
	Headers     []Header           `json:"headers,omitempty"`
}

type Header struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Required    bool    `json:"required,omitempty"`
	Schema      *Schema `json:"schema,omitempty"`
}

type SecurityRequirement struct {
	Name   string   `json:"name"`
	Scopes []string `json:"scopes,omitempty"`
}
