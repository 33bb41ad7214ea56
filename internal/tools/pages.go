package tools

import (
	"context"
	"fmt"

	"github.com/tadeodonegana/nube-agent/internal/api"
)

func pageTools(c *api.Client, store *api.StoreInfo) []Definition {
	return []Definition{
		{
			Name: "list_pages",
			Description: "List all content pages in the store. Returns a JSON list of pages " +
				"with id, name, handle, published status, and timestamps.",
			Parameters: objSchema(map[string]interface{}{
				"page":     prop("integer", "Page number (default 1)."),
				"per_page": prop("integer", "Pages per page, max 20 (default 20)."),
			}),
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				return c.Get(ctx, "/pages", pageParams(args, 20, 20))
			},
		},
		{
			Name: "get_page",
			Description: "Get detailed information about a single page by its ID, including " +
				"localized name, handle, HTML content, SEO title, SEO description, and " +
				"published status.",
			Parameters: objSchema(map[string]interface{}{
				"page_id": prop("integer", "The numeric page ID."),
			}, "page_id"),
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				return c.Get(ctx, fmt.Sprintf("/pages/%d", intArg(args, "page_id", 0)), nil)
			},
		},
		{
			Name:        "create_page",
			Description: "Create a new content page in the store.",
			Parameters: objSchema(map[string]interface{}{
				"title":           prop("string", "Page title in the store's language."),
				"content":         prop("string", "Page content in the store's language (HTML allowed)."),
				"published":       prop("boolean", "Whether the page is visible on the store (default true)."),
				"seo_title":       prop("string", "Optional SEO title for search engines."),
				"seo_description": prop("string", "Optional SEO meta description."),
				"seo_handle":      prop("string", "Optional URL slug (e.g., \"about-us\"). Auto-generated if empty."),
			}, "title", "content"),
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				localeData := map[string]interface{}{
					"title":   strArg(args, "title", ""),
					"content": strArg(args, "content", ""),
				}
				for _, key := range []string{"seo_title", "seo_description", "seo_handle"} {
					if v := strArg(args, key, ""); v != "" {
						localeData[key] = v
					}
				}
				body := map[string]interface{}{
					"page": map[string]interface{}{
						"publish": boolArg(args, "published", true),
						"i18n":    map[string]interface{}{store.Locale(ctx): localeData},
					},
				}
				return c.Post(ctx, "/pages", body)
			},
		},
		{
			Name: "update_page",
			Description: "Update an existing content page. Supported fields: title (str), " +
				"content (str, HTML allowed), published (bool), seo_title (str), " +
				"seo_description (str), seo_handle (str). " +
				`Example: '{"title": "Sobre Nosotros", "content": "<p>Somos...</p>"}'.`,
			Parameters: objSchema(map[string]interface{}{
				"page_id":      prop("integer", "The numeric page ID."),
				"updates_json": prop("string", "JSON string with fields to update."),
			}, "page_id", "updates_json"),
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				parsed, errstr := api.ParseJSON(strArg(args, "updates_json", ""), "updates_json")
				if errstr != "" {
					return errstr
				}
				updates, ok := parsed.(map[string]interface{})
				if !ok {
					return "Invalid JSON in updates_json: expected an object"
				}

				localeData := map[string]interface{}{}
				for _, key := range []string{"title", "content", "seo_title", "seo_description", "seo_handle"} {
					if v, ok := updates[key]; ok {
						localeData[key] = v
					}
				}
				page := map[string]interface{}{}
				if len(localeData) > 0 {
					page["i18n"] = map[string]interface{}{store.Locale(ctx): localeData}
				}
				if v, ok := updates["published"]; ok {
					page["publish"] = v
				}
				return c.Put(ctx, fmt.Sprintf("/pages/%d", intArg(args, "page_id", 0)),
					map[string]interface{}{"page": page})
			},
		},
		{
			Name:        "delete_page",
			Description: "Delete a content page. This action is irreversible.",
			Parameters: objSchema(map[string]interface{}{
				"page_id": prop("integer", "The numeric page ID to delete."),
			}, "page_id"),
			Sensitive: true,
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				return c.Delete(ctx, fmt.Sprintf("/pages/%d", intArg(args, "page_id", 0)))
			},
		},
	}
}
