// Package tools defines the store management tools exposed to the
// model: their schemas, their sensitivity, and the handlers that call
// the Tiendanube API.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tadeodonegana/nube-agent/internal/api"
	"github.com/tadeodonegana/nube-agent/internal/config"
	"github.com/tadeodonegana/nube-agent/internal/llm"
)

// Handler executes a tool call and returns the result text for the model.
type Handler func(ctx context.Context, args map[string]interface{}) string

// Definition describes one tool. Sensitive tools are never executed
// directly; they surface as action requests for the user to approve.
type Definition struct {
	Name        string
	Description string
	Parameters  json.RawMessage
	Sensitive   bool
	Handler     Handler
}

// Registry is an immutable, ordered collection of tool definitions.
type Registry struct {
	defs  []Definition
	index map[string]int
}

// NewRegistry builds a registry from definitions, applying sensitivity
// overrides from the config: names under [sensitivity].sensitive gain
// confirmation, names under [sensitivity].safe lose it.
func NewRegistry(defs []Definition, overrides config.SensitivityConfig) *Registry {
	mark := map[string]bool{}
	for _, name := range overrides.Sensitive {
		mark[name] = true
	}
	for _, name := range overrides.Safe {
		mark[name] = false
	}

	r := &Registry{index: make(map[string]int, len(defs))}
	for _, d := range defs {
		if v, ok := mark[d.Name]; ok {
			d.Sensitive = v
		}
		r.index[d.Name] = len(r.defs)
		r.defs = append(r.defs, d)
	}
	return r
}

// Get returns the definition for a tool name.
func (r *Registry) Get(name string) (Definition, bool) {
	i, ok := r.index[name]
	if !ok {
		return Definition{}, false
	}
	return r.defs[i], true
}

// Has reports whether a tool is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Names returns all tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.defs))
	for i, d := range r.defs {
		names[i] = d.Name
	}
	return names
}

// Schemas returns the model-facing schemas for the named tools, in the
// given order. With no names it returns every registered tool.
func (r *Registry) Schemas(names ...string) ([]llm.ToolSchema, error) {
	if len(names) == 0 {
		names = r.Names()
	}
	schemas := make([]llm.ToolSchema, 0, len(names))
	for _, name := range names {
		d, ok := r.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown tool: %s", name)
		}
		schemas = append(schemas, llm.ToolSchema{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  d.Parameters,
		})
	}
	return schemas, nil
}

// All assembles every store management tool against the given client.
func All(c *api.Client, store *api.StoreInfo) []Definition {
	var defs []Definition
	defs = append(defs, storeTools(c)...)
	defs = append(defs, productTools(c, store)...)
	defs = append(defs, categoryTools(c, store)...)
	defs = append(defs, variantTools(c)...)
	defs = append(defs, imageTools(c)...)
	defs = append(defs, orderTools(c)...)
	defs = append(defs, customerTools(c)...)
	defs = append(defs, couponTools(c)...)
	defs = append(defs, checkoutTools(c)...)
	defs = append(defs, pageTools(c, store)...)
	return defs
}
