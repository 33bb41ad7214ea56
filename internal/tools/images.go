package tools

import (
	"context"
	"fmt"

	"github.com/tadeodonegana/nube-agent/internal/api"
)

func imageTools(c *api.Client) []Definition {
	return []Definition{
		{
			Name: "list_images",
			Description: "List all images of a product. Returns a JSON list of images with " +
				"id, src, position, and alt text.",
			Parameters: objSchema(map[string]interface{}{
				"product_id": prop("integer", "The numeric product ID."),
			}, "product_id"),
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				return c.Get(ctx, fmt.Sprintf("/products/%d/images", intArg(args, "product_id", 0)), nil)
			},
		},
		{
			Name:        "add_image",
			Description: "Add an image to a product from a URL.",
			Parameters: objSchema(map[string]interface{}{
				"product_id": prop("integer", "The numeric product ID."),
				"src":        prop("string", "Public URL of the image to add."),
				"position":   prop("integer", "Display position (1 = main image, default 1)."),
			}, "product_id", "src"),
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				body := map[string]interface{}{
					"src":      strArg(args, "src", ""),
					"position": intArg(args, "position", 1),
				}
				return c.Post(ctx, fmt.Sprintf("/products/%d/images", intArg(args, "product_id", 0)), body)
			},
		},
		{
			Name: "update_image",
			Description: "Update an existing product image. Supported fields: position (int), " +
				"alt (str), src (str). " +
				`Example: '{"position": 2, "alt": "Product side view"}'.`,
			Parameters: objSchema(map[string]interface{}{
				"product_id":   prop("integer", "The numeric product ID."),
				"image_id":     prop("integer", "The numeric image ID."),
				"updates_json": prop("string", "JSON string with fields to update."),
			}, "product_id", "image_id", "updates_json"),
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				body, errstr := api.ParseJSON(strArg(args, "updates_json", ""), "updates_json")
				if errstr != "" {
					return errstr
				}
				return c.Put(ctx, fmt.Sprintf("/products/%d/images/%d",
					intArg(args, "product_id", 0), intArg(args, "image_id", 0)), body)
			},
		},
		{
			Name:        "delete_image",
			Description: "Delete an image from a product. This action is irreversible.",
			Parameters: objSchema(map[string]interface{}{
				"product_id": prop("integer", "The numeric product ID."),
				"image_id":   prop("integer", "The numeric image ID to delete."),
			}, "product_id", "image_id"),
			Sensitive: true,
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				return c.Delete(ctx, fmt.Sprintf("/products/%d/images/%d",
					intArg(args, "product_id", 0), intArg(args, "image_id", 0)))
			},
		},
	}
}
