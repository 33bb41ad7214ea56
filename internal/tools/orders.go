package tools

import (
	"context"
	"fmt"

	"github.com/tadeodonegana/nube-agent/internal/api"
)

func orderTools(c *api.Client) []Definition {
	return []Definition{
		{
			Name: "list_orders",
			Description: "List orders with optional filters and pagination. Returns a JSON " +
				"list of orders with id, number, status, total, customer, etc.",
			Parameters: objSchema(map[string]interface{}{
				"page":            prop("integer", "Page number (default 1)."),
				"per_page":        prop("integer", "Results per page, max 200 (default 10)."),
				"status":          propEnum("Filter by status.", "open", "closed", "cancelled"),
				"payment_status":  propEnum("Filter by payment status.", "pending", "authorized", "paid", "abandoned", "refunded", "voided"),
				"shipping_status": propEnum("Filter by shipping status.", "unpacked", "unfulfilled", "fulfilled"),
				"q":               prop("string", "Search by order number, customer name, or email."),
				"created_at_min":  prop("string", "Only orders created after this ISO 8601 date."),
				"created_at_max":  prop("string", "Only orders created before this ISO 8601 date."),
			}),
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				params := pageParams(args, 10, 200)
				setIfPresent(params, args, "status", "payment_status", "shipping_status",
					"q", "created_at_min", "created_at_max")
				return c.Get(ctx, "/orders", params)
			},
		},
		{
			Name: "get_order",
			Description: "Get detailed information about a single order by its ID, including " +
				"products, customer, payment, shipping, totals, notes, and timestamps.",
			Parameters: objSchema(map[string]interface{}{
				"order_id": prop("integer", "The numeric order ID."),
			}, "order_id"),
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				return c.Get(ctx, fmt.Sprintf("/orders/%d", intArg(args, "order_id", 0)), nil)
			},
		},
		{
			Name: "update_order",
			Description: "Update an order's owner note or status. Supported fields: " +
				"owner_note (str), status (\"open\"/\"closed\"/\"cancelled\"). " +
				`Example: '{"owner_note": "Customer requested gift wrapping"}'.`,
			Parameters: objSchema(map[string]interface{}{
				"order_id":     prop("integer", "The numeric order ID."),
				"updates_json": prop("string", "JSON string with fields to update."),
			}, "order_id", "updates_json"),
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				body, errstr := api.ParseJSON(strArg(args, "updates_json", ""), "updates_json")
				if errstr != "" {
					return errstr
				}
				return c.Put(ctx, fmt.Sprintf("/orders/%d", intArg(args, "order_id", 0)), body)
			},
		},
		{
			Name:        "close_order",
			Description: "Close (archive) an order.",
			Parameters: objSchema(map[string]interface{}{
				"order_id": prop("integer", "The numeric order ID."),
			}, "order_id"),
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				return c.Post(ctx, fmt.Sprintf("/orders/%d/close", intArg(args, "order_id", 0)), nil)
			},
		},
		{
			Name:        "open_order",
			Description: "Reopen a previously closed order.",
			Parameters: objSchema(map[string]interface{}{
				"order_id": prop("integer", "The numeric order ID."),
			}, "order_id"),
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				return c.Post(ctx, fmt.Sprintf("/orders/%d/open", intArg(args, "order_id", 0)), nil)
			},
		},
		{
			Name: "cancel_order",
			Description: "Cancel an order. This is a significant action — confirm with the " +
				"user first.",
			Parameters: objSchema(map[string]interface{}{
				"order_id":        prop("integer", "The numeric order ID."),
				"reason":          propEnum("Cancellation reason (default \"other\").", "customer", "inventory", "fraud", "other"),
				"restock":         prop("boolean", "Whether to return items to inventory (default true)."),
				"notify_customer": prop("boolean", "Whether to send a cancellation email (default true)."),
			}, "order_id"),
			Sensitive: true,
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				body := map[string]interface{}{
					"reason":  strArg(args, "reason", "other"),
					"restock": boolArg(args, "restock", true),
					"email":   boolArg(args, "notify_customer", true),
				}
				return c.Post(ctx, fmt.Sprintf("/orders/%d/cancel", intArg(args, "order_id", 0)), body)
			},
		},
	}
}
