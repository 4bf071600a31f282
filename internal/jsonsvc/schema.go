package jsonsvc

import (
	"context"
	"sync"

	"github.com/tidwall/gjson"
)

// Resolver fetches the textual content of a schema document by URL. The
// service calls it when a document declares a $schema; transport errors
// fail the request that needed the schema.
type Resolver func(ctx context.Context, url string) (string, error)

// Schema is the subset of JSON Schema the service understands: the root
// type, property declarations with descriptions and enums, and the
// required-property list. Anything else in the schema document is
// ignored.
type Schema struct {
	URL        string
	Type       string
	Properties []SchemaProperty
	Required   []string
}

// SchemaProperty describes one declared property.
type SchemaProperty struct {
	Name        string
	Type        string
	Description string

	// Enum holds the raw JSON literals of allowed values, in schema
	// order, e.g. `"unix"` or `42`.
	Enum []string
}

// Property returns the declared property with the given name, or nil.
func (s *Schema) Property(name string) *SchemaProperty {
	for i := range s.Properties {
		if s.Properties[i].Name == name {
			return &s.Properties[i]
		}
	}
	return nil
}

// IsRequired reports whether the schema requires the property.
func (s *Schema) IsRequired(name string) bool {
	for _, req := range s.Required {
		if req == name {
			return true
		}
	}
	return false
}

// parseSchema reads the understood subset out of a schema document.
// Unparseable documents yield an empty schema rather than an error; a
// broken schema should not break editing.
func parseSchema(url, content string) *Schema {
	schema := &Schema{URL: url}
	if !gjson.Valid(content) {
		return schema
	}

	root := gjson.Parse(content)
	schema.Type = root.Get("type").String()

	root.Get("properties").ForEach(func(key, value gjson.Result) bool {
		prop := SchemaProperty{
			Name:        key.String(),
			Type:        value.Get("type").String(),
			Description: value.Get("description").String(),
		}
		value.Get("enum").ForEach(func(_, item gjson.Result) bool {
			prop.Enum = append(prop.Enum, item.Raw)
			return true
		})
		schema.Properties = append(schema.Properties, prop)
		return true
	})

	root.Get("required").ForEach(func(_, value gjson.Result) bool {
		schema.Required = append(schema.Required, value.String())
		return true
	})

	return schema
}

// schemaCache memoizes resolved schemas per URL so a burst of
// completion and validation requests fetches each schema once.
type schemaCache struct {
	mu       sync.Mutex
	resolver Resolver
	schemas  map[string]*Schema
}

func newSchemaCache(resolver Resolver) *schemaCache {
	return &schemaCache{
		resolver: resolver,
		schemas:  make(map[string]*Schema),
	}
}

// get resolves and parses the schema at url, serving repeats from cache.
func (c *schemaCache) get(ctx context.Context, url string) (*Schema, error) {
	c.mu.Lock()
	cached, ok := c.schemas[url]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	content, err := c.resolver(ctx, url)
	if err != nil {
		return nil, err
	}

	schema := parseSchema(url, content)

	c.mu.Lock()
	c.schemas[url] = schema
	c.mu.Unlock()
	return schema, nil
}

// invalidate drops a cached schema, forcing a re-fetch on next use.
func (c *schemaCache) invalidate(url string) {
	c.mu.Lock()
	delete(c.schemas, url)
	c.mu.Unlock()
}
