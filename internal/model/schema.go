package model

// Schema is a recursive JSON-Schema-like node. Component schemas carry their
// declared name; inline schemas leave it empty. References to named
// components are kept as Ref so consumers can decide whether to chase them.
type Schema struct {
	Name        string     `json:"name,omitempty"`
	Description string     `json:"description,omitempty"`
	Type        SchemaType `json:"type,omitempty"`
	Format      string     `json:"format,omitempty"`
	Nullable    bool       `json:"nullable,omitempty"`
	Deprecated  bool       `json:"deprecated,omitempty"`
	Default     any        `json:"default,omitempty"`
	Example     any        `json:"example,omitempty"`

	// Object properties, in declaration order.
	Properties []Property `json:"properties,omitempty"`
	Required   []string   `json:"required,omitempty"`

	// Array items
	Items *Schema `json:"items,omitempty"`

	// Enum values
	Enum []any `json:"enum,omitempty"`

	// Composition
	AllOf []*Schema `json:"allOf,omitempty"`
	OneOf []*Schema `json:"oneOf,omitempty"`
	AnyOf []*Schema `json:"anyOf,omitempty"`

	// Discriminator for oneOf/anyOf polymorphism
	Discriminator *Discriminator `json:"discriminator,omitempty"`

	// Reference to a named component, e.g. "#/components/schemas/User"
	Ref string `json:"$ref,omitempty"`

	// Additional properties for maps
	AdditionalProperties *Schema `json:"additionalProperties,omitempty"`

	// Constraints
	Minimum   *float64 `json:"minimum,omitempty"`
	Maximum   *float64 `json:"maximum,omitempty"`
	MinLength *int64   `json:"minLength,omitempty"`
	MaxLength *int64   `json:"maxLength,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
	MinItems  *int64   `json:"minItems,omitempty"`
	MaxItems  *int64   `json:"maxItems,omitempty"`
}

type SchemaType string

const (
	TypeString  SchemaType = "string"
	TypeNumber  SchemaType = "number"
	TypeInteger SchemaType = "integer"
	TypeBoolean SchemaType = "boolean"
	TypeArray   SchemaType = "array"
	TypeObject  SchemaType = "object"
	TypeNull    SchemaType = "null"
)

type Property struct {
	Name   string  `json:"name"`
	Schema *Schema `json:"schema,omitempty"`
}

type Discriminator struct {
	PropertyName string            `json:"propertyName"`
	Mapping      map[string]string `json:"mapping,omitempty"`
}

type SecurityScheme struct {
	Name         string             `json:"name"`
	Type         SecuritySchemeType `json:"type"`
	Description  string             `json:"description,omitempty"`
	In           string             `json:"in,omitempty"`
	Scheme       string             `json:"scheme,omitempty"`
	BearerFormat string             `json:"bearerFormat,omitempty"`
	Flows        *OAuthFlows        `json:"flows,omitempty"`
}

type SecuritySchemeType string

const (
	SecurityTypeAPIKey        SecuritySchemeType = "apiKey"
	SecurityTypeHTTP          SecuritySchemeType = "http"
	SecurityTypeOAuth2        SecuritySchemeType = "oauth2"
	SecurityTypeOpenIDConnect SecuritySchemeType = "openIdConnect"
	SecurityTypeMutualTLS     SecuritySchemeType = "mutualTLS"
)

type OAuthFlows struct {
	Implicit          *OAuthFlow `json:"implicit,omitempty"`
	Password          *OAuthFlow `json:"password,omitempty"`
	ClientCredentials *OAuthFlow `json:"clientCredentials,omitempty"`
	AuthorizationCode *OAuthFlow `json:"authorizationCode,omitempty"`
}

type OAuthFlow struct {
	AuthorizationURL string            `json:"authorizationUrl,omitempty"`
	TokenURL         string            `json:"tokenUrl,omitempty"`
	RefreshURL       string            `json:"refreshUrl,omitempty"`
	Scopes           map[string]string `json:"scopes,omitempty"`
}
