package tools

import (
	"context"
	"fmt"

	"github.com/tadeodonegana/nube-agent/internal/api"
)

func customerTools(c *api.Client) []Definition {
	return []Definition{
		{
			Name: "list_customers",
			Description: "List customers with optional search and pagination. Returns a JSON " +
				"list of customers with id, name, email, phone, total_spent, last_order_id, etc.",
			Parameters: objSchema(map[string]interface{}{
				"page":           prop("integer", "Page number (default 1)."),
				"per_page":       prop("integer", "Results per page, max 200 (default 10)."),
				"q":              prop("string", "Search by name, email, or identification number."),
				"created_at_min": prop("string", "Only customers created after this ISO 8601 date."),
				"created_at_max": prop("string", "Only customers created before this ISO 8601 date."),
			}),
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				params := pageParams(args, 10, 200)
				setIfPresent(params, args, "q", "created_at_min", "created_at_max")
				return c.Get(ctx, "/customers", params)
			},
		},
		{
			Name: "get_customer",
			Description: "Get detailed information about a single customer by their ID, " +
				"including name, email, phone, addresses, total_spent, last_order_id, and timestamps.",
			Parameters: objSchema(map[string]interface{}{
				"customer_id": prop("integer", "The numeric customer ID."),
			}, "customer_id"),
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				return c.Get(ctx, fmt.Sprintf("/customers/%d", intArg(args, "customer_id", 0)), nil)
			},
		},
		{
			Name:        "create_customer",
			Description: "Create a new customer.",
			Parameters: objSchema(map[string]interface{}{
				"name":              prop("string", "Customer's full name."),
				"email":             prop("string", "Customer's email address."),
				"phone":             prop("string", "Optional phone number."),
				"send_email_invite": prop("boolean", "Whether to send an account invitation email (default false)."),
			}, "name", "email"),
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				body := map[string]interface{}{
					"name":  strArg(args, "name", ""),
					"email": strArg(args, "email", ""),
				}
				if phone := strArg(args, "phone", ""); phone != "" {
					body["phone"] = phone
				}
				body["send_email_invite"] = boolArg(args, "send_email_invite", false)
				return c.Post(ctx, "/customers", body)
			},
		},
		{
			Name: "update_customer",
			Description: "Update an existing customer. Supported fields: name, email, phone, note. " +
				`Example: '{"note": "VIP customer", "phone": "+5491155556666"}'.`,
			Parameters: objSchema(map[string]interface{}{
				"customer_id":  prop("integer", "The numeric customer ID."),
				"updates_json": prop("string", "JSON string with fields to update."),
			}, "customer_id", "updates_json"),
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				body, errstr := api.ParseJSON(strArg(args, "updates_json", ""), "updates_json")
				if errstr != "" {
					return errstr
				}
				return c.Put(ctx, fmt.Sprintf("/customers/%d", intArg(args, "customer_id", 0)), body)
			},
		},
	}
}
