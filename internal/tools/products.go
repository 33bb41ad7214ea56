package tools

import (
	"context"
	"fmt"

	"github.com/tadeodonegana/nube-agent/internal/api"
)

func productTools(c *api.Client, store *api.StoreInfo) []Definition {
	return []Definition{
		{
			Name: "list_products",
			Description: "List products in the store with pagination. Returns a JSON list " +
				"of products with id, name, variants, price, stock, etc.",
			Parameters: objSchema(map[string]interface{}{
				"page":     prop("integer", "Page number (default 1)."),
				"per_page": prop("integer", "Products per page, max 200 (default 10)."),
			}),
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				return c.Get(ctx, "/products", pageParams(args, 10, 200))
			},
		},
		{
			Name: "get_product",
			Description: "Get detailed information about a single product by its ID, " +
				"including name, description, variants, images, categories, and all attributes.",
			Parameters: objSchema(map[string]interface{}{
				"product_id": prop("integer", "The numeric product ID."),
			}, "product_id"),
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				return c.Get(ctx, fmt.Sprintf("/products/%d", intArg(args, "product_id", 0)), nil)
			},
		},
		{
			Name: "create_product",
			Description: "Create a new product in the store. If variants_json is empty, " +
				"a single default variant is created. IMPORTANT: if attributes are set, " +
				"every variant MUST have a matching number of values " +
				"(e.g. 2 attributes = 2 values per variant).",
			Parameters: objSchema(map[string]interface{}{
				"name": prop("string", "Product name in the store's language."),
				"variants_json": prop("string", "Optional JSON string with a list of variant objects. "+
					"Each variant can have: price, stock, sku, weight, width, height, depth, and "+
					"values (list of {lang: \"value\"} matching the product attributes, where lang "+
					"is the store's language key). "+
					`Example without options: '[{"price": "100.00", "stock": 10}]'. `+
					`Example with options: '[{"price": "100.00", "stock": 10, "values": [{"es": "S"}, {"es": "Rojo"}]}]'.`),
				"description": prop("string", "Optional product description in the store's language (HTML allowed)."),
				"attributes_json": prop("string", "Optional JSON string with a list of attribute name objects. "+
					"These define variant option names (e.g., Talla, Color). Max 3. "+
					`Example: '[{"es": "Talla"}, {"es": "Color"}]'.`),
				"published": prop("boolean", "Whether the product is visible in the store (default true)."),
			}, "name"),
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				lang := store.Language(ctx)
				body := map[string]interface{}{
					"name":      map[string]interface{}{lang: strArg(args, "name", "")},
					"published": boolArg(args, "published", true),
				}
				if desc := strArg(args, "description", ""); desc != "" {
					body["description"] = map[string]interface{}{lang: desc}
				}
				if raw := strArg(args, "attributes_json", ""); raw != "" {
					parsed, errstr := api.ParseJSON(raw, "attributes_json")
					if errstr != "" {
						return errstr
					}
					body["attributes"] = parsed
				}
				if raw := strArg(args, "variants_json", ""); raw != "" {
					parsed, errstr := api.ParseJSON(raw, "variants_json")
					if errstr != "" {
						return errstr
					}
					body["variants"] = parsed
				}
				return c.Post(ctx, "/products", body)
			},
		},
		{
			Name: "update_product",
			Description: "Update an existing product. Supported fields: name ({lang: \"...\"}), " +
				"description ({lang: \"...\"}), published (bool), tags, brand, handle, " +
				"attributes (list of {lang: \"...\"}), where lang is the store's language key. " +
				`Example: '{"name": {"es": "New Name"}, "published": false}'. ` +
				"IMPORTANT: after adding attributes, update existing variants to set their " +
				"values too, or new variant creation will fail with 422.",
			Parameters: objSchema(map[string]interface{}{
				"product_id":   prop("integer", "The numeric product ID to update."),
				"updates_json": prop("string", "JSON string with fields to update."),
			}, "product_id", "updates_json"),
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				body, errstr := api.ParseJSON(strArg(args, "updates_json", ""), "updates_json")
				if errstr != "" {
					return errstr
				}
				return c.Put(ctx, fmt.Sprintf("/products/%d", intArg(args, "product_id", 0)), body)
			},
		},
		{
			Name:        "delete_product",
			Description: "Delete a product from the store. This action is irreversible.",
			Parameters: objSchema(map[string]interface{}{
				"product_id": prop("integer", "The numeric product ID to delete."),
			}, "product_id"),
			Sensitive: true,
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				return c.Delete(ctx, fmt.Sprintf("/products/%d", intArg(args, "product_id", 0)))
			},
		},
	}
}
