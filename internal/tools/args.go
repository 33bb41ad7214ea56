package tools

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// JSON numbers decode as float64; the API wants integers in paths.
func intArg(args map[string]interface{}, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func strArg(args map[string]interface{}, key, def string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return def
}

func boolArg(args map[string]interface{}, key string, def bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return def
}

// pageParams clamps pagination: page >= 1, 1 <= per_page <= max.
func pageParams(args map[string]interface{}, defaultPerPage, maxPerPage int) url.Values {
	page := intArg(args, "page", 1)
	if page < 1 {
		page = 1
	}
	perPage := intArg(args, "per_page", defaultPerPage)
	if perPage < 1 {
		perPage = 1
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return url.Values{
		"page":     {strconv.Itoa(page)},
		"per_page": {strconv.Itoa(perPage)},
	}
}

// setIfPresent copies string-valued filters from args into params.
func setIfPresent(params url.Values, args map[string]interface{}, keys ...string) {
	for _, key := range keys {
		if v := strArg(args, key, ""); v != "" {
			params.Set(key, v)
		}
	}
}

// objSchema builds a JSON schema for an object parameter block.
func objSchema(props map[string]interface{}, required ...string) json.RawMessage {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	raw, err := json.Marshal(schema)
	if err != nil {
		panic(fmt.Sprintf("tool schema: %v", err))
	}
	return raw
}

func prop(typ, desc string) map[string]interface{} {
	return map[string]interface{}{"type": typ, "description": desc}
}

func propEnum(desc string, values ...string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": desc, "enum": values}
}
