package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/invopop/jsonschema"
)

// Tool is a callable operation exposed to an external agent dispatcher.
type Tool interface {
	// Name returns the name the tool is invoked by.
	Name() string
	// Description returns what the tool does, to be shown to the agent.
	Description() string
	// Parameters returns the JSON schema of the tool input.
	Parameters() *jsonschema.Schema
	// Call executes the tool with a JSON-encoded input and returns a
	// JSON-encodable result. Domain failures are reported inside the result;
	// an error return means the input could not be processed at all.
	Call(ctx context.Context, input json.RawMessage) (interface{}, error)
}

// Descriptor is the listable form of a tool.
type Descriptor struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	InputSchema *jsonschema.Schema `json:"input_schema"`
}

// Registry holds the registered tools and dispatches calls by name.
type Registry struct {
	tools map[string]Tool
}

func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		r.tools[t.Name()] = t
	}
	return r
}

// List returns the descriptors of all registered tools, sorted by name.
func (r *Registry) List() []Descriptor {
	descriptors := make([]Descriptor, 0, len(r.tools))
	for _, t := range r.tools {
		descriptors = append(descriptors, Descriptor{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: t.Parameters(),
		})
	}
	sort.Slice(descriptors, func(i, j int) bool { return descriptors[i].Name < descriptors[j].Name })
	return descriptors
}

// Call dispatches an invocation to the named tool.
func (r *Registry) Call(ctx context.Context, name string, input json.RawMessage) (interface{}, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("tool not found: %s", name)
	}
	return t.Call(ctx, input)
}

// Has reports whether a tool with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.tools[name]
	return ok
}

// inputSchema reflects a request struct into a self-contained JSON schema.
func inputSchema(v interface{}) *jsonschema.Schema {
	reflector := jsonschema.Reflector{DoNotReference: true}
	return reflector.Reflect(v)
}
