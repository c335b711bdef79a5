package mock

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/mockd/mockd/internal/model"
)

// maxDepth bounds recursion over the schema graph. Cyclic schemas that
// survive the loader's truncation, or absurdly nested documents, bottom out
// as null subtrees instead of overflowing the stack.
const maxDepth = 32

const (
	placeholderEmail = "user@example.com"
	placeholderURL   = "https://example.com"
)

const alnumChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Generator produces representative values for schema nodes. It is a pure
// function over its inputs: no I/O, no shared state, safe for concurrent use
// apart from the faker's internal RNG, which is already goroutine-safe.
type Generator struct {
	faker *gofakeit.Faker
}

// NewGenerator returns a generator with a randomly seeded source.
func NewGenerator() *Generator {
	return &Generator{faker: gofakeit.New(0)}
}

// NewSeededGenerator returns a generator whose output is reproducible for a
// given seed. Structure is always deterministic; this pins the leaves too.
func NewSeededGenerator(seed uint64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

// Generate synthesizes a value consistent with the schema's declared shape.
// It is total over well-formed schemas and never panics: unknown or absent
// types, empty schemas, and exhausted recursion depth all yield nil.
func (g *Generator) Generate(schema *model.Schema, opts Options) any {
	return g.generate(schema, opts, 0)
}

func (g *Generator) generate(s *model.Schema, opts Options, depth int) any {
	if s == nil || depth > maxDepth {
		return nil
	}

	// Examples are authoritative and bypass type dispatch, including for
	// composite nodes.
	if opts.UseExamples && s.Example != nil {
		return s.Example
	}

	switch s.Type {
	case model.TypeString:
		return g.generateString(s, opts)
	case model.TypeNumber, model.TypeInteger:
		// Both paths return a whole number; integer semantics are not
		// distinguished from floating ones.
		return g.generateNumber(s)
	case model.TypeBoolean:
		return g.faker.Bool()
	case model.TypeArray:
		return g.generateArray(s, opts, depth)
	case model.TypeObject:
		return g.generateObject(s, opts, depth)
	default:
		// Bare $ref, oneOf/anyOf/allOf, and unconstrained schemas land here.
		// Composite expansion is deliberately not performed; this dispatch
		// point is the seam for adding it.
		return nil
	}
}

func (g *Generator) generateString(s *model.Schema, opts Options) any {
	if len(s.Enum) > 0 {
		return s.Enum[g.faker.Number(0, len(s.Enum)-1)]
	}

	switch s.Format {
	case "date":
		return time.Now().Format("2006-01-02")
	case "date-time":
		return time.Now().Format(time.RFC3339)
	case "email":
		return placeholderEmail
	case "uri":
		return placeholderURL
	}

	if !opts.GenerateRandomStrings {
		return "string"
	}

	lo, hi := 5, 10
	if s.MinLength != nil {
		lo = int(*s.MinLength)
	}
	if s.MaxLength != nil {
		hi = int(*s.MaxLength)
	}
	if lo < 0 {
		lo = 0
	}
	if lo > hi {
		lo = hi
	}
	n := g.faker.Number(lo, hi)
	if n <= 0 {
		return ""
	}
	// Drawn byte by byte; gofakeit's password helper silently raises short
	// lengths to its own minimum, which would violate maxLength here.
	b := make([]byte, n)
	for i := range b {
		b[i] = alnumChars[g.faker.Number(0, len(alnumChars)-1)]
	}
	return string(b)
}

func (g *Generator) generateNumber(s *model.Schema) any {
	lo, hi := 0, 100
	if s.Minimum != nil {
		lo = int(*s.Minimum)
	}
	if s.Maximum != nil {
		hi = int(*s.Maximum)
	}
	if lo > hi {
		lo = hi
	}
	return g.faker.Number(lo, hi)
}

func (g *Generator) generateArray(s *model.Schema, opts Options, depth int) any {
	n := opts.MaxArrayLength
	if s.MaxItems != nil && int(*s.MaxItems) < n {
		n = int(*s.MaxItems)
	}
	if n < 0 {
		n = 0
	}

	items := s.Items
	if items == nil {
		items = &model.Schema{Type: model.TypeString}
	}

	out := make([]any, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, g.generate(items, opts, depth+1))
	}
	return out
}

func (g *Generator) generateObject(s *model.Schema, opts Options, depth int) any {
	out := make(map[string]any, len(s.Properties))
	for _, p := range s.Properties {
		out[p.Name] = g.generate(p.Schema, opts, depth+1)
	}
	return out
}
