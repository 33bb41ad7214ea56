package tools

import (
	"context"
	"fmt"

	"github.com/tadeodonegana/nube-agent/internal/api"
)

func checkoutTools(c *api.Client) []Definition {
	return []Definition{
		{
			Name: "list_abandoned_checkouts",
			Description: "List abandoned checkouts (carts where the customer left before " +
				"paying). These are created when a customer reaches checkout step 2 but does " +
				"not complete the purchase. Useful for recovery campaigns: the returned " +
				"abandoned_checkout_url can be sent to the customer to recover the sale.",
			Parameters: objSchema(map[string]interface{}{
				"page":           prop("integer", "Page number (default 1)."),
				"per_page":       prop("integer", "Results per page, max 200 (default 10)."),
				"created_at_min": prop("string", "Only checkouts created after this ISO 8601 date."),
				"created_at_max": prop("string", "Only checkouts created before this ISO 8601 date."),
			}),
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				params := pageParams(args, 10, 200)
				setIfPresent(params, args, "created_at_min", "created_at_max")
				return c.Get(ctx, "/checkouts", params)
			},
		},
		{
			Name: "get_abandoned_checkout",
			Description: "Get detailed information about a single abandoned checkout, " +
				"including customer contact info, products, totals, shipping/billing " +
				"addresses, payment details, and the recovery URL (abandoned_checkout_url).",
			Parameters: objSchema(map[string]interface{}{
				"checkout_id": prop("integer", "The numeric checkout ID."),
			}, "checkout_id"),
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				return c.Get(ctx, fmt.Sprintf("/checkouts/%d", intArg(args, "checkout_id", 0)), nil)
			},
		},
	}
}
