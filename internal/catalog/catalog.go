// Package catalog flattens a specification into an ordered list of
// operations and provides the lookups the server and CLI need.
package catalog

import (
	"errors"
	"slices"

	"github.com/mockd/mockd/internal/model"
)

// ErrNotFound reports a lookup key that matches no cataloged operation.
var ErrNotFound = errors.New("operation not found")

// Catalog holds the flattened (method, path, operation) tuples extracted
// from a specification, in declaration order. It is read-only after New.
type Catalog struct {
	ops []model.Operation
}

// New extracts every operation from the spec, walking paths and their
// methods in declaration order. Each operation is self-contained, so
// consumers never reach back into the spec.
func New(spec *model.Spec) *Catalog {
	var ops []model.Operation
	for _, p := range spec.Paths {
		ops = append(ops, p.Operations...)
	}
	return &Catalog{ops: ops}
}

// Operations returns the cataloged operations in extraction order.
func (c *Catalog) Operations() []model.Operation {
	return c.ops
}

// Len returns the number of cataloged operations.
func (c *Catalog) Len() int {
	return len(c.ops)
}

// ByOperationID returns the first operation declared with the given id.
// Duplicate ids are not rejected; the first match wins.
func (c *Catalog) ByOperationID(id string) (*model.Operation, error) {
	for i := range c.ops {
		if c.ops[i].ID == id {
			return &c.ops[i], nil
		}
	}
	return nil, ErrNotFound
}

// ByRoute returns the operation registered for a method and path template.
func (c *Catalog) ByRoute(method model.Method, path string) (*model.Operation, error) {
	for i := range c.ops {
		if c.ops[i].Method == method && c.ops[i].Path == path {
			return &c.ops[i], nil
		}
	}
	return nil, ErrNotFound
}

// ByTag returns all operations tagged with the literal tag, case-sensitive.
func (c *Catalog) ByTag(tag string) []model.Operation {
	var out []model.Operation
	for _, op := range c.ops {
		if slices.Contains(op.Tags, tag) {
			out = append(out, op)
		}
	}
	return out
}
