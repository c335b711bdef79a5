package loader

import (
	"log/slog"

	"github.com/pb33f/libopenapi"
	"github.com/pb33f/libopenapi/datamodel/high/base"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
	"go.yaml.in/yaml/v4"

	"github.com/mockd/mockd/internal/model"
)

type transformer struct {
	componentSchemas map[*base.Schema]string
	// inProgress tracks the $ref paths currently being expanded. Keyed on
	// the ref string, not schema pointer identity: the resolver may hand
	// back distinct pointers for the same component at different ref sites.
	inProgress  map[string]bool
	docSecurity []model.SecurityRequirement
	log         *slog.Logger
}

// transform converts the libopenapi high-level model into the plain-data
// internal model consumed by the catalog, generator, and server.
func transform(docModel *libopenapi.DocumentModel[v3.Document], version string, log *slog.Logger) (*model.Spec, error) {
	doc := docModel.Model

	t := &transformer{
		componentSchemas: make(map[*base.Schema]string),
		inProgress:       make(map[string]bool),
		log:              log,
	}

	if doc.Components != nil && doc.Components.Schemas != nil {
		for name, schemaProxy := range doc.Components.Schemas.FromOldest() {
			t.componentSchemas[schemaProxy.Schema()] = "#/components/schemas/" + name
		}
	}

	for _, secReq := range doc.Security {
		if secReq.Requirements == nil {
			continue
		}
		for name, scopes := range secReq.Requirements.FromOldest() {
			t.docSecurity = append(t.docSecurity, model.SecurityRequirement{
				Name:   name,
				Scopes: scopes,
			})
		}
	}

	spec := &model.Spec{
		OpenAPIVersion: version,
		Info:           transformInfo(doc.Info),
		Servers:        transformServers(doc.Servers),
		Tags:           transformTags(doc.Tags),
	}

	if doc.Components != nil && doc.Components.Schemas != nil {
		for name, schemaProxy := range doc.Components.Schemas.FromOldest() {
			ref := "#/components/schemas/" + name
			t.inProgress[ref] = true
			schema := t.transformSchema(name, schemaProxy.Schema())
			delete(t.inProgress, ref)
			spec.Schemas = append(spec.Schemas, *schema)
		}
	}

	if doc.Paths != nil {
		for pathStr, pathItem := range doc.Paths.PathItems.FromOldest() {
			spec.Paths = append(spec.Paths, t.transformPath(pathStr, pathItem))
		}
	}

	if doc.Components != nil && doc.Components.SecuritySchemes != nil {
		for name, scheme := range doc.Components.SecuritySchemes.FromOldest() {
			spec.Security = append(spec.Security, transformSecurityScheme(name, scheme))
		}
	}

	return spec, nil
}

func transformInfo(info *base.Info) model.Info {
	if info == nil {
		return model.Info{}
	}
	return model.Info{
		Title:       info.Title,
		Description: info.Description,
		Version:     info.Version,
	}
}

func transformServers(servers []*v3.Server) []model.Server {
	var result []model.Server
	for _, s := range servers {
		result = append(result, model.Server{
			URL:         s.URL,
			Description: s.Description,
		})
	}
	return result
}

func transformTags(tags []*base.Tag) []model.Tag {
	var result []model.Tag
	for _, t := range tags {
		result = append(result, model.Tag{
			Name:        t.Name,
			Description: t.Description,
		})
	}
	return result
}

// transformPath walks the path item's operations in document order, keeping
// only the eight recognized HTTP methods. Anything else is skipped with a
// warning, not an error.
func (t *transformer) transformPath(pathStr string, pathItem *v3.PathItem) model.Path {
	path := model.Path{Path: pathStr}

	for key, op := range pathItem.GetOperations().FromOldest() {
		method, ok := model.ParseMethod(key)
		if !ok {
			t.log.Warn("skipping unrecognized path item key", "path", pathStr, "key", key)
			continue
		}
		path.Operations = append(path.Operations, t.transformOperation(method, pathStr, op))
	}

	return path
}

func (t *transformer) transformOperation(method model.Method, path string, op *v3.Operation) model.Operation {
	operation := model.Operation{
		ID:          op.OperationId,
		Method:      method,
		Path:        path,
		Summary:     op.Summary,
		Description: op.Description,
		Tags:        op.Tags,
		Deprecated:  boolPtr(op.Deprecated),
	}

	for _, p := range op.Parameters {
		operation.Parameters = append(operation.Parameters, t.transformParameter(p))
	}

	if op.RequestBody != nil {
		operation.RequestBody = t.transformRequestBody(op.RequestBody)
	}

	if op.Responses != nil && op.Responses.Codes != nil {
		for code, resp := range op.Responses.Codes.FromOldest() {
			operation.Responses = append(operation.Responses, t.transformResponse(code, resp))
		}
	}

	// Operation-level security overrides the document-level default.
	if op.Security != nil {
		for _, secReq := range op.Security {
			if secReq.Requirements == nil {
				continue
			}
			for name, scopes := range secReq.Requirements.FromOldest() {
				operation.Security = append(operation.Security, model.SecurityRequirement{
					Name:   name,
					Scopes: scopes,
				})
			}
		}
	} else {
		operation.Security = t.docSecurity
	}

	return operation
}

func (t *transformer) transformParameter(p *v3.Parameter) model.Parameter {
	param := model.Parameter{
		Name:        p.Name,
		In:          model.ParameterLocation(p.In),
		Description: p.Description,
		Required:    boolPtr(p.Required),
		Deprecated:  p.Deprecated,
	}

	if p.Schema != nil {
		param.Schema = t.transformSchemaProxy(p.Schema)
	}

	return param
}

func (t *transformer) transformRequestBody(rb *v3.RequestBody) *model.RequestBody {
	body := &model.RequestBody{
		Description: rb.Description,
		Required:    boolPtr(rb.Required),
	}

	if rb.Content != nil {
		for mediaType, content := range rb.Content.FromOldest() {
			mtc := model.MediaTypeContent{MediaType: mediaType}
			if content.Schema != nil {
				mtc.Schema = t.transformSchemaProxy(content.Schema)
			}
			body.Content = append(body.Content, mtc)
		}
	}

	return body
}

func (t *transformer) transformResponse(code string, resp *v3.Response) model.Response {
	response := model.Response{
		StatusCode:  code,
		Description: resp.Description,
	}

	if resp.Content != nil {
		for mediaType, content := range resp.Content.FromOldest() {
			mtc := model.MediaTypeContent{MediaType: mediaType}
			if content.Schema != nil {
				mtc.Schema = t.transformSchemaProxy(content.Schema)
			}
			response.Content = append(response.Content, mtc)
		}
	}

	if resp.Headers != nil {
		for name, header := range resp.Headers.FromOldest() {
			h := model.Header{
				Name:        name,
				Description: header.Description,
				Required:    header.Required,
			}
			if header.Schema != nil {
				h.Schema = t.transformSchemaProxy(header.Schema)
			}
			response.Headers = append(response.Headers, h)
		}
	}

	return response
}

// transformSchemaProxy resolves a schema reference. References to named
// component schemas are inlined (the dereferencer guarantees they resolve)
// with the $ref path preserved for introspection.
func (t *transformer) transformSchemaProxy(proxy *base.SchemaProxy) *model.Schema {
	if proxy == nil {
		return nil
	}

	ref := proxy.GetReference()
	if ref == "" {
		if resolved, ok := t.componentSchemas[proxy.Schema()]; ok {
			ref = resolved
		}
	}

	// Cyclic references are truncated to a bare, type-less $ref stub; the
	// generator emits null for such nodes.
	if ref != "" {
		if t.inProgress[ref] {
			return &model.Schema{Ref: ref}
		}
		t.inProgress[ref] = true
		defer delete(t.inProgress, ref)
	}

	schema := t.transformSchema("", proxy.Schema())
	if schema != nil && ref != "" {
		schema.Ref = ref
	}
	return schema
}

func (t *transformer) transformSchema(name string, s *base.Schema) *model.Schema {
	if s == nil {
		return nil
	}

	schema := &model.Schema{
		Name:        name,
		Description: s.Description,
		Format:      s.Format,
		Nullable:    boolPtr(s.Nullable),
		Deprecated:  boolPtr(s.Deprecated),
		Default:     decodeNode(s.Default),
		Example:     decodeNode(s.Example),
		Pattern:     s.Pattern,
	}

	if len(s.Type) > 0 {
		schema.Type = model.SchemaType(s.Type[0])
	}

	for _, e := range s.Enum {
		schema.Enum = append(schema.Enum, decodeNode(e))
	}

	if s.Properties != nil {
		for propName, propProxy := range s.Properties.FromOldest() {
			propSchema := t.transformSchemaProxy(propProxy)
			if propSchema != nil && propSchema.Name == "" {
				propSchema.Name = propName
			}
			schema.Properties = append(schema.Properties, model.Property{
				Name:   propName,
				Schema: propSchema,
			})
		}
	}

	schema.Required = s.Required

	if s.Items != nil && s.Items.A != nil {
		schema.Items = t.transformSchemaProxy(s.Items.A)
	}

	if s.AdditionalProperties != nil && s.AdditionalProperties.A != nil {
		schema.AdditionalProperties = t.transformSchemaProxy(s.AdditionalProperties.A)
	}

	for _, proxy := range s.AllOf {
		schema.AllOf = append(schema.AllOf, t.transformSchemaProxy(proxy))
	}
	for _, proxy := range s.OneOf {
		schema.OneOf = append(schema.OneOf, t.transformSchemaProxy(proxy))
	}
	for _, proxy := range s.AnyOf {
		schema.AnyOf = append(schema.AnyOf, t.transformSchemaProxy(proxy))
	}

	if s.Discriminator != nil {
		schema.Discriminator = &model.Discriminator{
			PropertyName: s.Discriminator.PropertyName,
			Mapping:      make(map[string]string),
		}
		if s.Discriminator.Mapping != nil {
			for k, v := range s.Discriminator.Mapping.FromOldest() {
				schema.Discriminator.Mapping[k] = v
			}
		}
	}

	if s.Minimum != nil {
		v := float64(*s.Minimum)
		schema.Minimum = &v
	}
	if s.Maximum != nil {
		v := float64(*s.Maximum)
		schema.Maximum = &v
	}
	if s.MinLength != nil {
		v := int64(*s.MinLength)
		schema.MinLength = &v
	}
	if s.MaxLength != nil {
		v := int64(*s.MaxLength)
		schema.MaxLength = &v
	}
	if s.MinItems != nil {
		v := int64(*s.MinItems)
		schema.MinItems = &v
	}
	if s.MaxItems != nil {
		v := int64(*s.MaxItems)
		schema.MaxItems = &v
	}

	return schema
}

// decodeNode converts a raw YAML node (example, default, enum member) into a
// plain Go value so it can be returned verbatim and serialized as JSON.
func decodeNode(n *yaml.Node) any {
	if n == nil {
		return nil
	}
	var v any
	if err := n.Decode(&v); err != nil {
		return n.Value
	}
	return v
}

func transformSecurityScheme(name string, scheme *v3.SecurityScheme) model.SecurityScheme {
	ss := model.SecurityScheme{
		Name:         name,
		Type:         model.SecuritySchemeType(scheme.Type),
		Description:  scheme.Description,
		In:           scheme.In,
		Scheme:       scheme.Scheme,
		BearerFormat: scheme.BearerFormat,
	}

	if scheme.Flows != nil {
		ss.Flows = &model.OAuthFlows{}
		if scheme.Flows.Implicit != nil {
			ss.Flows.Implicit = transformOAuthFlow(scheme.Flows.Implicit)
		}
		if scheme.Flows.Password != nil {
			ss.Flows.Password = transformOAuthFlow(scheme.Flows.Password)
		}
		if scheme.Flows.ClientCredentials != nil {
			ss.Flows.ClientCredentials = transformOAuthFlow(scheme.Flows.ClientCredentials)
		}
		if scheme.Flows.AuthorizationCode != nil {
			ss.Flows.AuthorizationCode = transformOAuthFlow(scheme.Flows.AuthorizationCode)
		}
	}

	return ss
}

func transformOAuthFlow(flow *v3.OAuthFlow) *model.OAuthFlow {
	f := &model.OAuthFlow{
		AuthorizationURL: flow.AuthorizationUrl,
		TokenURL:         flow.TokenUrl,
		RefreshURL:       flow.RefreshUrl,
		Scopes:           make(map[string]string),
	}

	if flow.Scopes != nil {
		for scope, desc := range flow.Scopes.FromOldest() {
			f.Scopes[scope] = desc
		}
	}

	return f
}

func boolPtr(b *bool) bool {
	if b == nil {
		return false
	}
	return *b
}
