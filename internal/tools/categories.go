package tools

import (
	"context"
	"fmt"

	"github.com/tadeodonegana/nube-agent/internal/api"
)

func categoryTools(c *api.Client, store *api.StoreInfo) []Definition {
	return []Definition{
		{
			Name: "list_categories",
			Description: "List all categories in the store with pagination. Returns a JSON " +
				"list of categories with id, name, parent, subcategories count.",
			Parameters: objSchema(map[string]interface{}{
				"page":     prop("integer", "Page number (default 1)."),
				"per_page": prop("integer", "Categories per page, max 200 (default 50)."),
			}),
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				return c.Get(ctx, "/categories", pageParams(args, 50, 200))
			},
		},
		{
			Name: "get_category",
			Description: "Get detailed information about a single category, including name, " +
				"description, parent, handle.",
			Parameters: objSchema(map[string]interface{}{
				"category_id": prop("integer", "The numeric category ID."),
			}, "category_id"),
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				return c.Get(ctx, fmt.Sprintf("/categories/%d", intArg(args, "category_id", 0)), nil)
			},
		},
		{
			Name:        "create_category",
			Description: "Create a new category in the store.",
			Parameters: objSchema(map[string]interface{}{
				"name":        prop("string", "Category name in the store's language."),
				"parent_id":   prop("integer", "Optional parent category ID for subcategories (0 for top-level)."),
				"description": prop("string", "Optional description in the store's language."),
			}, "name"),
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				lang := store.Language(ctx)
				body := map[string]interface{}{
					"name": map[string]interface{}{lang: strArg(args, "name", "")},
				}
				if parent := intArg(args, "parent_id", 0); parent != 0 {
					body["parent"] = parent
				}
				if desc := strArg(args, "description", ""); desc != "" {
					body["description"] = map[string]interface{}{lang: desc}
				}
				return c.Post(ctx, "/categories", body)
			},
		},
		{
			Name: "update_category",
			Description: "Update an existing category. Supported fields: name ({lang: \"...\"}), " +
				"description ({lang: \"...\"}), parent (int), handle (str), where lang is the " +
				`store's language key. Example: '{"name": {"es": "New Name"}}'.`,
			Parameters: objSchema(map[string]interface{}{
				"category_id":  prop("integer", "The numeric category ID to update."),
				"updates_json": prop("string", "JSON string with fields to update."),
			}, "category_id", "updates_json"),
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				body, errstr := api.ParseJSON(strArg(args, "updates_json", ""), "updates_json")
				if errstr != "" {
					return errstr
				}
				return c.Put(ctx, fmt.Sprintf("/categories/%d", intArg(args, "category_id", 0)), body)
			},
		},
		{
			Name:        "delete_category",
			Description: "Delete a category from the store. This action is irreversible.",
			Parameters: objSchema(map[string]interface{}{
				"category_id": prop("integer", "The numeric category ID to delete."),
			}, "category_id"),
			Sensitive: true,
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				return c.Delete(ctx, fmt.Sprintf("/categories/%d", intArg(args, "category_id", 0)))
			},
		},
	}
}
