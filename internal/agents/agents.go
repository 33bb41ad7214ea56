// Package agents defines the orchestrator and the specialist agents it
// delegates to, including the task tool that hands work between them.
package agents

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tadeodonegana/nube-agent/internal/llm"
)

// TaskToolName is the delegation tool exposed to the orchestrator.
const TaskToolName = "task"

// Agent describes one agent: its prompt and the tools it may call.
type Agent struct {
	Name         string
	Description  string
	SystemPrompt string
	Tools        []string
}

// Orchestrator returns the root agent. Its only tools are get_store_info
// and the task tool; everything else goes through a specialist.
func Orchestrator() Agent {
	return Agent{
		Name:         "nube-agent",
		Description:  "Root store management assistant.",
		SystemPrompt: orchestratorPrompt,
		Tools:        []string{"get_store_info"},
	}
}

// Specialists returns the domain agents in delegation order.
func Specialists() []Agent {
	return []Agent{
		{
			Name: "catalog-manager",
			Description: "Manages the product catalog via the Tiendanube API: list, view, " +
				"create, update, and delete products, categories, variants, and images. " +
				"Use when the user asks about products, stock, prices, categories, or images.",
			SystemPrompt: catalogPrompt,
			Tools: []string{
				"list_products", "get_product", "create_product", "update_product", "delete_product",
				"list_categories", "get_category", "create_category", "update_category", "delete_category",
				"list_variants", "get_variant", "create_variant", "update_variant", "delete_variant",
				"bulk_update_stock_price",
				"list_images", "add_image", "update_image", "delete_image",
			},
		},
		{
			Name: "order-manager",
			Description: "Manages orders via the Tiendanube API: list, view, update notes, " +
				"close, reopen, and cancel orders. Use when the user asks about orders, " +
				"sales, or shipping status.",
			SystemPrompt: orderPrompt,
			Tools: []string{
				"list_orders", "get_order", "update_order", "close_order", "open_order", "cancel_order",
			},
		},
		{
			Name: "customer-manager",
			Description: "Manages customers via the Tiendanube API: list, search, view, " +
				"create, and update customer profiles. Use when the user asks about " +
				"customers or contacts.",
			SystemPrompt: customerPrompt,
			Tools: []string{
				"list_customers", "get_customer", "create_customer", "update_customer",
			},
		},
		{
			Name: "marketing-manager",
			Description: "Manages marketing via the Tiendanube API: discount coupons " +
				"(create, update, delete) and abandoned checkout recovery. Use when the " +
				"user asks about coupons, discounts, promotions, or abandoned carts.",
			SystemPrompt: marketingPrompt,
			Tools: []string{
				"list_coupons", "get_coupon", "create_coupon", "update_coupon", "delete_coupon",
				"list_abandoned_checkouts", "get_abandoned_checkout",
			},
		},
		{
			Name: "content-manager",
			Description: "Manages content pages via the Tiendanube API: list, view, create, " +
				"update, and delete static pages (About Us, FAQ, Terms, etc.). Use when " +
				"the user asks about pages or site content.",
			SystemPrompt: contentPrompt,
			Tools: []string{
				"list_pages", "get_page", "create_page", "update_page", "delete_page",
			},
		},
	}
}

// ByName indexes the specialists for delegation lookups.
func ByName() map[string]Agent {
	m := map[string]Agent{}
	for _, a := range Specialists() {
		m[a.Name] = a
	}
	return m
}

// TaskTool builds the delegation tool schema. The description embeds
// each specialist so the model knows who handles what.
func TaskTool(specialists []Agent) llm.ToolSchema {
	var sb strings.Builder
	sb.WriteString("Delegate a task to a specialist agent. The specialist starts with no " +
		"conversation history, so the instruction must be complete and self-contained. " +
		"Available specialists:\n")
	names := make([]string, 0, len(specialists))
	for _, a := range specialists {
		fmt.Fprintf(&sb, "- %s: %s\n", a.Name, a.Description)
		names = append(names, a.Name)
	}

	params, err := json.Marshal(map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"agent": map[string]interface{}{
				"type":        "string",
				"description": "Name of the specialist to delegate to.",
				"enum":        names,
			},
			"instruction": map[string]interface{}{
				"type":        "string",
				"description": "Complete, self-contained instruction for the specialist.",
			},
		},
		"required": []string{"agent", "instruction"},
	})
	if err != nil {
		panic(fmt.Sprintf("task tool schema: %v", err))
	}

	return llm.ToolSchema{
		Name:        TaskToolName,
		Description: sb.String(),
		Parameters:  params,
	}
}
