package tools

import (
	"context"

	"github.com/tadeodonegana/nube-agent/internal/api"
)

func storeTools(c *api.Client) []Definition {
	return []Definition{
		{
			Name: "get_store_info",
			Description: "Get general information about the store: name, description, " +
				"contact email, address, plan, domains, and other configuration details.",
			Parameters: objSchema(map[string]interface{}{}),
			Handler: func(ctx context.Context, args map[string]interface{}) string {
				return c.Get(ctx, "/store", nil)
			},
		},
	}
}
