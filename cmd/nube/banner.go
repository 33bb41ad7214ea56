package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	bannerBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(1, 2).
			Width(76)
	bannerTitle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	bannerDim   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	bannerCmd   = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	bannerBlue  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

// printBanner shows the welcome box with the store summary and the
// common commands. Store details are best-effort; a store that cannot
// be reached yet renders as unknown.
func (r *repl) printBanner(ctx context.Context) {
	info := r.store.Info(ctx)
	name := r.store.Name(ctx)
	if name == "" {
		name = "Unknown"
	}
	domain, _ := info["original_domain"].(string)
	if domain == "" {
		domain = "unknown"
	}
	currency, _ := info["main_currency"].(string)
	if currency == "" {
		currency = "?"
	}
	model := r.model
	if i := strings.LastIndex(model, ":"); i >= 0 {
		model = model[i+1:]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "☁  Welcome to %s\n\n", bannerTitle.Render("Nube Agent"))
	fmt.Fprintf(&b, "Store    %s\n", bannerTitle.Render(name))
	fmt.Fprintf(&b, "Model    %s\n", bannerDim.Render(model))
	fmt.Fprintf(&b, "Domain   %s\n", bannerDim.Render(domain))
	fmt.Fprintf(&b, "Currency %s\n\n", bannerDim.Render(currency))

	fmt.Fprintf(&b, "%s\n", bannerBlue.Render("Commands"))
	commands := [][2]string{
		{"/store", "Show store info"},
		{"/products", "List products"},
		{"/orders", "List orders"},
		{"/customers", "List customers"},
		{"/coupons", "List coupons"},
		{"/categories", "List categories"},
		{"/abandoned", "Abandoned carts"},
		{"/pages", "Content pages"},
		{"/debug", "Toggle debug"},
		{"/help", "All commands"},
		{"/exit", "Exit"},
	}
	for _, c := range commands {
		fmt.Fprintf(&b, "%s%s\n",
			bannerCmd.Render(fmt.Sprintf("%-14s", c[0])), bannerDim.Render(c[1]))
	}

	title := fmt.Sprintf(" Nube Agent v%s ", version)
	fmt.Fprintln(r.out, bannerBlue.Render(title))
	fmt.Fprintln(r.out, bannerBorder.Render(strings.TrimRight(b.String(), "\n")))
	fmt.Fprintln(r.out)
}
