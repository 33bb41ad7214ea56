package tools

import (
	"context"
	"fmt"

	"github.com/tadeodonegana/nube-agent/internal/api"
)

func variantTools(c *api.Client) []Definition {
	return []Definition{
		{
			Name: "list_variants",
			Description: "List all variants of a product. Returns a JSON list of variants " +
				"with id, price, stock, sku, values, etc.",
			Parameters: objSchema(map[string]interface{}{
				"product_id": prop("integer", "The numeric product ID."),
			}, "product_id"),
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				return c.Get(ctx, fmt.Sprintf("/products/%d/variants", intArg(args, "product_id", 0)), nil)
			},
		},
		{
			Name: "get_variant",
			Description: "Get detailed information about a specific variant, including " +
				"price, stock, sku, dimensions, weight.",
			Parameters: objSchema(map[string]interface{}{
				"product_id": prop("integer", "The numeric product ID."),
				"variant_id": prop("integer", "The numeric variant ID."),
			}, "product_id", "variant_id"),
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				return c.Get(ctx, fmt.Sprintf("/products/%d/variants/%d",
					intArg(args, "product_id", 0), intArg(args, "variant_id", 0)), nil)
			},
		},
		{
			Name: "create_variant",
			Description: "Create a new variant for a product. IMPORTANT: the number of " +
				"\"values\" MUST match the number of \"attributes\" defined on the product. " +
				"If the product has 0 attributes, do NOT send values. If the product has no " +
				"attributes yet, first use update_product to add them, then update the " +
				"existing variant's values, then create new variants.",
			Parameters: objSchema(map[string]interface{}{
				"product_id": prop("integer", "The numeric product ID."),
				"variant_json": prop("string", "JSON string with variant data. Fields: price (str), "+
					"stock (int), sku (str), weight (str), width (str), height (str), depth (str), "+
					"values (list of {lang: \"value\"} matching the product attributes count, where "+
					"lang is the store's language key). "+
					`Example (1 attribute): '{"price": "150.00", "stock": 5, "values": [{"es": "L"}]}'.`),
			}, "product_id", "variant_json"),
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				body, errstr := api.ParseJSON(strArg(args, "variant_json", ""), "variant_json")
				if errstr != "" {
					return errstr
				}
				return c.Post(ctx, fmt.Sprintf("/products/%d/variants", intArg(args, "product_id", 0)), body)
			},
		},
		{
			Name: "update_variant",
			Description: "Update an existing variant. Supported fields: price, stock, sku, " +
				"weight, width, height, depth, values. " +
				`Example: '{"price": "200.00", "stock": 20}'. ` +
				`To set option values: '{"values": [{lang: "M"}]}' where lang is the store's language key.`,
			Parameters: objSchema(map[string]interface{}{
				"product_id":   prop("integer", "The numeric product ID."),
				"variant_id":   prop("integer", "The numeric variant ID."),
				"updates_json": prop("string", "JSON string with fields to update."),
			}, "product_id", "variant_id", "updates_json"),
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				body, errstr := api.ParseJSON(strArg(args, "updates_json", ""), "updates_json")
				if errstr != "" {
					return errstr
				}
				return c.Put(ctx, fmt.Sprintf("/products/%d/variants/%d",
					intArg(args, "product_id", 0), intArg(args, "variant_id", 0)), body)
			},
		},
		{
			Name: "delete_variant",
			Description: "Delete a variant from a product. A product must keep at least one " +
				"variant. This action is irreversible.",
			Parameters: objSchema(map[string]interface{}{
				"product_id": prop("integer", "The numeric product ID."),
				"variant_id": prop("integer", "The numeric variant ID to delete."),
			}, "product_id", "variant_id"),
			Sensitive: true,
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				return c.Delete(ctx, fmt.Sprintf("/products/%d/variants/%d",
					intArg(args, "product_id", 0), intArg(args, "variant_id", 0)))
			},
		},
		{
			Name: "bulk_update_stock_price",
			Description: "Bulk update stock and/or price for multiple variants of a product. " +
				"Iterates over variants and updates each one. Useful for changing prices or " +
				"restocking all variants at once.",
			Parameters: objSchema(map[string]interface{}{
				"product_id": prop("integer", "The numeric product ID."),
				"updates_json": prop("string", "JSON string with a list of objects, each having "+
					"\"variant_id\" (int) and any of: \"price\" (str), \"stock\" (int). "+
					`Example: '[{"variant_id": 123, "price": "99.00"}, {"variant_id": 456, "stock": 50}]'.`),
			}, "product_id", "updates_json"),
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				parsed, errstr := api.ParseJSON(strArg(args, "updates_json", ""), "updates_json")
				if errstr != "" {
					return errstr
				}
				items, ok := parsed.([]interface{})
				if !ok {
					return "Error: updates_json must be a JSON array, not a single object."
				}
				productID := intArg(args, "product_id", 0)
				results := make([]interface{}, 0, len(items))
				for _, raw := range items {
					item, ok := raw.(map[string]interface{})
					if !ok {
						results = append(results, map[string]interface{}{
							"error": "Expected an object", "item": raw,
						})
						continue
					}
					vid := intArg(item, "variant_id", 0)
					if vid == 0 {
						results = append(results, map[string]interface{}{
							"error": "Missing 'variant_id' in item", "item": item,
						})
						continue
					}
					body := map[string]interface{}{}
					for k, v := range item {
						if k != "variant_id" {
							body[k] = v
						}
					}
					resp := c.Put(ctx, fmt.Sprintf("/products/%d/variants/%d", productID, vid), body)
					results = append(results, map[string]interface{}{
						"variant_id": vid, "result": resp,
					})
				}
				return api.ToJSON(results)
			},
		},
	}
}
