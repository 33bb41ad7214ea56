package tools

import (
	"context"
	"fmt"

	"github.com/tadeodonegana/nube-agent/internal/api"
)

func couponTools(c *api.Client) []Definition {
	return []Definition{
		{
			Name: "list_coupons",
			Description: "List discount coupons with optional filters. Returns a JSON list of " +
				"coupons with id, code, type, value, start_date, end_date, max_uses, used, etc.",
			Parameters: objSchema(map[string]interface{}{
				"page":     prop("integer", "Page number (default 1)."),
				"per_page": prop("integer", "Results per page, max 200 (default 10)."),
				"valid":    propEnum("Filter by validity. Empty = all.", "true", "false"),
			}),
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				params := pageParams(args, 10, 200)
				setIfPresent(params, args, "valid")
				return c.Get(ctx, "/coupons", params)
			},
		},
		{
			Name: "get_coupon",
			Description: "Get detailed information about a single coupon by its ID, including " +
				"code, type, value, dates, usage stats, product/category restrictions, etc.",
			Parameters: objSchema(map[string]interface{}{
				"coupon_id": prop("integer", "The numeric coupon ID."),
			}, "coupon_id"),
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				return c.Get(ctx, fmt.Sprintf("/coupons/%d", intArg(args, "coupon_id", 0)), nil)
			},
		},
		{
			Name: "create_coupon",
			Description: "Create a new discount coupon. For percentage coupons the value is a " +
				"percentage (e.g. \"20\" for 20% off); for absolute coupons it is a fixed " +
				"amount in store currency; shipping coupons ignore the value.",
			Parameters: objSchema(map[string]interface{}{
				"code":                    prop("string", "Coupon code that customers enter (e.g., \"SUMMER20\")."),
				"coupon_type":             propEnum("Discount type.", "percentage", "absolute", "shipping"),
				"value":                   prop("string", "Discount value (required for percentage and absolute types)."),
				"start_date":              prop("string", "When the coupon becomes active (ISO 8601). Empty = immediately."),
				"end_date":                prop("string", "When the coupon expires (ISO 8601). Empty = no expiration."),
				"max_uses":                prop("integer", "Max number of times the coupon can be used. 0 = unlimited."),
				"min_price":               prop("string", "Minimum cart value required to use the coupon."),
				"includes_shipping":       prop("boolean", "Whether the discount also applies to shipping cost."),
				"first_consumer_purchase": prop("boolean", "Only allow first-time customers to use it."),
				"categories_json":         prop("string", `Optional JSON list of category IDs to restrict the coupon to. Example: '[12345, 67890]'.`),
				"products_json":           prop("string", `Optional JSON list of product IDs to restrict the coupon to. Example: '[111, 222]'.`),
			}, "code", "coupon_type"),
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				couponType := strArg(args, "coupon_type", "")
				value := strArg(args, "value", "")
				if (couponType == "percentage" || couponType == "absolute") && value == "" {
					return fmt.Sprintf("Error: 'value' is required for coupon type '%s'.", couponType)
				}
				body := map[string]interface{}{
					"code": strArg(args, "code", ""),
					"type": couponType,
				}
				if value != "" {
					body["value"] = value
				}
				if v := strArg(args, "start_date", ""); v != "" {
					body["start_date"] = v
				}
				if v := strArg(args, "end_date", ""); v != "" {
					body["end_date"] = v
				}
				if v := intArg(args, "max_uses", 0); v != 0 {
					body["max_uses"] = v
				}
				if v := strArg(args, "min_price", ""); v != "" {
					body["min_price"] = v
				}
				if boolArg(args, "includes_shipping", false) {
					body["includes_shipping"] = true
				}
				if boolArg(args, "first_consumer_purchase", false) {
					body["first_consumer_purchase"] = true
				}
				if raw := strArg(args, "categories_json", ""); raw != "" {
					parsed, errstr := api.ParseJSON(raw, "categories_json")
					if errstr != "" {
						return errstr
					}
					body["categories"] = parsed
				}
				if raw := strArg(args, "products_json", ""); raw != "" {
					parsed, errstr := api.ParseJSON(raw, "products_json")
					if errstr != "" {
						return errstr
					}
					body["products"] = parsed
				}
				return c.Post(ctx, "/coupons", body)
			},
		},
		{
			Name: "update_coupon",
			Description: "Update an existing coupon. Supported fields: code, type, value, " +
				"start_date, end_date, max_uses, min_price, valid, includes_shipping, " +
				"first_consumer_purchase, categories, products. " +
				`Example: '{"value": "30", "end_date": "2025-12-31T23:59:59"}'.`,
			Parameters: objSchema(map[string]interface{}{
				"coupon_id":    prop("integer", "The numeric coupon ID."),
				"updates_json": prop("string", "JSON string with fields to update."),
			}, "coupon_id", "updates_json"),
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				body, errstr := api.ParseJSON(strArg(args, "updates_json", ""), "updates_json")
				if errstr != "" {
					return errstr
				}
				return c.Put(ctx, fmt.Sprintf("/coupons/%d", intArg(args, "coupon_id", 0)), body)
			},
		},
		{
			Name:        "delete_coupon",
			Description: "Delete a coupon. This action is irreversible.",
			Parameters: objSchema(map[string]interface{}{
				"coupon_id": prop("integer", "The numeric coupon ID to delete."),
			}, "coupon_id"),
			Sensitive: true,
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				return c.Delete(ctx, fmt.Sprintf("/coupons/%d", intArg(args, "coupon_id", 0)))
			},
		},
	}
}
