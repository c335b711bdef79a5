package loader

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mockd/mockd/internal/model"
)

const petstoreSpec = `
openapi: 3.0.3
info:
  title: Petstore
  version: 1.0.0
  description: A sample API
servers:
  - url: https://api.example.com/v1
tags:
  - name: pets
    description: Pet operations
security:
  - apiKey: []
paths:
  /pets:
    get:
      operationId: listPets
      summary: List all pets
      tags: [pets]
      responses:
        "200":
          description: A list of pets
          headers:
            X-Total-Count:
              schema:
                type: integer
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: '#/components/schemas/Pet'
    post:
      operationId: createPet
      security:
        - oauth: [write]
      requestBody:
        required: true
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/Pet'
      responses:
        "201":
          description: Created
  /pets/{petId}:
    parameters:
      - name: petId
        in: path
        required: true
        schema:
          type: string
    get:
      operationId: getPet
      parameters:
        - name: verbose
          in: query
          schema:
            type: boolean
      responses:
        "200":
          description: A pet
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Pet'
components:
  schemas:
    Pet:
      type: object
      required: [id, name]
      properties:
        id:
          type: integer
          minimum: 1
        name:
          type: string
          example: Rex
        status:
          type: string
          enum: [available, pending, sold]
  securitySchemes:
    apiKey:
      type: apiKey
      in: header
      name: X-API-Key
    oauth:
      type: oauth2
      flows:
        clientCredentials:
          tokenUrl: https://auth.example.com/token
          scopes:
            write: Write access
`

func TestLoadBytes(t *testing.T) {
	spec, err := LoadBytes([]byte(petstoreSpec), Options{})
	require.NoError(t, err)

	t.Run("document metadata", func(t *testing.T) {
		require.Equal(t, "3.0.3", spec.OpenAPIVersion)
		require.Equal(t, "Petstore", spec.Info.Title)
		require.Equal(t, "1.0.0", spec.Info.Version)
		require.Len(t, spec.Servers, 1)
		require.Equal(t, "https://api.example.com/v1", spec.Servers[0].URL)
		require.Len(t, spec.Tags, 1)
	})

	t.Run("paths and operations in declaration order", func(t *testing.T) {
		require.Len(t, spec.Paths, 2)
		require.Equal(t, "/pets", spec.Paths[0].Path)
		require.Equal(t, "/pets/{petId}", spec.Paths[1].Path)

		ops := spec.Paths[0].Operations
		require.Len(t, ops, 2)
		require.Equal(t, model.MethodGet, ops[0].Method)
		require.Equal(t, "listPets", ops[0].ID)
		require.Equal(t, "/pets", ops[0].Path)
		require.Equal(t, model.MethodPost, ops[1].Method)
	})

	t.Run("component refs are inlined with the ref preserved", func(t *testing.T) {
		getPet := spec.Paths[1].Operations[0]
		require.Len(t, getPet.Responses, 1)
		schema := getPet.Responses[0].Content[0].Schema
		require.Equal(t, "#/components/schemas/Pet", schema.Ref)
		require.Equal(t, model.TypeObject, schema.Type)
		require.Len(t, schema.Properties, 3)
	})

	t.Run("schema details survive the transform", func(t *testing.T) {
		pet := spec.SchemaByName("Pet")
		require.NotNil(t, pet)
		require.Equal(t, model.TypeObject, pet.Type)
		require.Equal(t, []string{"id", "name"}, pet.Required)

		require.Equal(t, "id", pet.Properties[0].Name)
		require.NotNil(t, pet.Properties[0].Schema.Minimum)
		require.Equal(t, float64(1), *pet.Properties[0].Schema.Minimum)

		require.Equal(t, "Rex", pet.Properties[1].Schema.Example)

		require.Equal(t, []any{"available", "pending", "sold"}, pet.Properties[2].Schema.Enum)
	})

	t.Run("response headers carry schemas", func(t *testing.T) {
		listPets := spec.Paths[0].Operations[0]
		require.Len(t, listPets.Responses[0].Headers, 1)
		require.Equal(t, "X-Total-Count", listPets.Responses[0].Headers[0].Name)
		require.Equal(t, model.TypeInteger, listPets.Responses[0].Headers[0].Schema.Type)
	})

	t.Run("document security is the default, operations may override", func(t *testing.T) {
		listPets := spec.Paths[0].Operations[0]
		require.Len(t, listPets.Security, 1)
		require.Equal(t, "apiKey", listPets.Security[0].Name)

		createPet := spec.Paths[0].Operations[1]
		require.Len(t, createPet.Security, 1)
		require.Equal(t, "oauth", createPet.Security[0].Name)
		require.Equal(t, []string{"write"}, createPet.Security[0].Scopes)
	})

	t.Run("security schemes", func(t *testing.T) {
		require.Len(t, spec.Security, 2)
		require.Equal(t, model.SecurityTypeAPIKey, spec.Security[0].Type)
		require.Equal(t, "header", spec.Security[0].In)

		oauth := spec.Security[1]
		require.Equal(t, model.SecurityTypeOAuth2, oauth.Type)
		require.NotNil(t, oauth.Flows)
		require.NotNil(t, oauth.Flows.ClientCredentials)
		require.Equal(t, "https://auth.example.com/token", oauth.Flows.ClientCredentials.TokenURL)
	})

	t.Run("shared parameters block is not an operation", func(t *testing.T) {
		require.Len(t, spec.Paths[1].Operations, 1)
	})
}

func TestLoadBytesRejectsSwagger2(t *testing.T) {
	doc := `
swagger: "2.0"
info:
  title: Old
  version: 1.0.0
paths: {}
`
	_, err := LoadBytes([]byte(doc), Options{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported OpenAPI version")
}

func TestLoadBytesRejectsGarbage(t *testing.T) {
	_, err := LoadBytes([]byte("not: [valid"), Options{})
	require.Error(t, err)
}

func TestLoadBytesValidation(t *testing.T) {
	// info.version is required by the meta-schema; without --validate the
	// document still loads.
	doc := `
openapi: 3.0.3
info:
  title: Missing version
paths:
  /ping:
    get:
      responses:
        "200":
          description: pong
`

	t.Run("validation off tolerates it", func(t *testing.T) {
		spec, err := LoadBytes([]byte(doc), Options{})
		require.NoError(t, err)
		require.Equal(t, "Missing version", spec.Info.Title)
	})

	t.Run("validation on rejects it", func(t *testing.T) {
		_, err := LoadBytes([]byte(doc), Options{Validate: true})
		require.Error(t, err)
		require.Contains(t, err.Error(), "validation failed")
	})
}

func TestCyclicSchemaTruncation(t *testing.T) {
	doc := `
openapi: 3.0.3
info:
  title: Cyclic
  version: 1.0.0
paths:
  /nodes:
    get:
      operationId: listNodes
      responses:
        "200":
          description: Nodes
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Node'
components:
  schemas:
    Node:
      type: object
      properties:
        value:
          type: string
        next:
          $ref: '#/components/schemas/Node'
`
	spec, err := LoadBytes([]byte(doc), Options{})
	require.NoError(t, err)

	node := spec.SchemaByName("Node")
	require.NotNil(t, node)
	require.Len(t, node.Properties, 2)

	// The self-reference is truncated to a type-less stub, which the
	// generator maps to null.
	next := node.Properties[1].Schema
	require.Equal(t, "#/components/schemas/Node", next.Ref)
	require.Empty(t, next.Type)
	require.Empty(t, next.Properties)

	// The same truncation applies where the cycle is entered through a
	// response reference rather than the component declaration.
	resp := spec.Paths[0].Operations[0].Responses[0].Content[0].Schema
	require.Equal(t, model.TypeObject, resp.Type)
	require.Len(t, resp.Properties, 2)
	require.Empty(t, resp.Properties[1].Schema.Type)
	require.Empty(t, resp.Properties[1].Schema.Properties)
}

func TestMutualCycleTruncation(t *testing.T) {
	doc := `
openapi: 3.0.3
info:
  title: Mutual
  version: 1.0.0
paths:
  /a:
    get:
      operationId: getA
      responses:
        "200":
          description: A
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/A'
components:
  schemas:
    A:
      type: object
      properties:
        b:
          $ref: '#/components/schemas/B'
    B:
      type: object
      properties:
        a:
          $ref: '#/components/schemas/A'
`
	spec, err := LoadBytes([]byte(doc), Options{})
	require.NoError(t, err)

	a := spec.SchemaByName("A")
	require.NotNil(t, a)

	// A inlines B one level deep; B's back-reference to A is the stub.
	b := a.Properties[0].Schema
	require.Equal(t, model.TypeObject, b.Type)
	require.Len(t, b.Properties, 1)

	back := b.Properties[0].Schema
	require.Equal(t, "#/components/schemas/A", back.Ref)
	require.Empty(t, back.Type)
	require.Empty(t, back.Properties)
}
