package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"storefront/internal/catalog"
	"storefront/internal/filter"
	"storefront/internal/models"

	"github.com/spf13/cobra"
)

var (
	filterCategory    string
	filterSubcategory string
	addQuantity       int
)

func registerCommands(root *cobra.Command) {
	productsCmd := &cobra.Command{
		Use:   "products",
		Short: "List products, optionally filtered by category and subcategory",
		Args:  cobra.NoArgs,
		RunE:  runProducts,
	}
	productsCmd.Flags().StringVar(&filterCategory, "category", "", "category name")
	productsCmd.Flags().StringVar(&filterSubcategory, "subcategory", "", "subcategory name")

	productCmd := &cobra.Command{
		Use:   "product <id>",
		Short: "Show product details",
		Args:  cobra.ExactArgs(1),
		RunE:  runProduct,
	}

	categoriesCmd := &cobra.Command{
		Use:   "categories",
		Short: "List categories with product counts",
		Args:  cobra.NoArgs,
		RunE:  runCategories,
	}

	browseCmd := &cobra.Command{
		Use:   "browse [category] [subcategory]",
		Short: "Jump to the product listing with a category filter applied",
		Args:  cobra.MaximumNArgs(2),
		RunE:  runBrowse,
	}

	cartCmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the cart",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printCart(cmd.OutOrStdout(), storefront.Service.State())
		},
	}

	addCmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product with the chosen quantity",
		Args:  cobra.ExactArgs(1),
		RunE:  runAdd,
	}
	addCmd.Flags().IntVarP(&addQuantity, "quantity", "q", 1, "quantity to add")

	quickAddCmd := &cobra.Command{
		Use:   "quick-add <product-id>",
		Short: "Add one unit of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := storefront.Service.QuickAddProduct(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printCart(cmd.OutOrStdout(), state)
		},
	}

	updateCmd := &cobra.Command{
		Use:   "update <product-id> <quantity>",
		Short: "Set the quantity of a cart line; below 1 removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q: %w", args[1], err)
			}
			return printCart(cmd.OutOrStdout(), storefront.Service.SetLineQuantity(cmd.Context(), args[0], quantity))
		},
	}

	removeCmd := &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a cart line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printCart(cmd.OutOrStdout(), storefront.Service.RemoveLine(cmd.Context(), args[0]))
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printCart(cmd.OutOrStdout(), storefront.Service.ClearCart(cmd.Context()))
		},
	}

	checkoutCmd := &cobra.Command{
		Use:   "checkout",
		Short: "Proceed to checkout (no order is placed)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := storefront.Service.Checkout(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Checkout is not available yet. Your cart has been kept:")
			return printCart(cmd.OutOrStdout(), state)
		},
	}

	cartCmd.AddCommand(showCmd, addCmd, quickAddCmd, updateCmd, removeCmd, clearCmd, checkoutCmd)
	root.AddCommand(productsCmd, productCmd, categoriesCmd, browseCmd, cartCmd)
}

func runProducts(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	fc := filter.FromContext(ctx)

	if filterCategory != "" {
		fc.SelectCategory(ctx, filterCategory)
	}
	if filterSubcategory != "" {
		fc.SetSubcategory(ctx, filterSubcategory)
	}
	return printListing(cmd.OutOrStdout(), storefront.Catalog, fc.Selection())
}

func runBrowse(cmd *cobra.Command, args []string) error {
	var category, subcategory string
	if len(args) > 0 {
		category = args[0]
	}
	if len(args) > 1 {
		subcategory = args[1]
	}

	ctx := cmd.Context()
	filter.FromContext(ctx).NavigateAndFilter(ctx, category, subcategory)
	return nil
}

func runProduct(cmd *cobra.Command, args []string) error {
	p, err := storefront.Catalog.ProductByID(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, p)
	}

	fmt.Fprintf(out, "%s\n", p.Name)
	fmt.Fprintf(out, "  id:        %s\n", p.ID)
	fmt.Fprintf(out, "  category:  %s / %s\n", p.Category, p.Subcategory)
	fmt.Fprintf(out, "  price:     Rs. %s\n", formatPrice(p.Price))
	if p.OriginalPrice != nil && *p.OriginalPrice > p.Price {
		fmt.Fprintf(out, "  was:       Rs. %s\n", formatPrice(*p.OriginalPrice))
	}
	if p.Discount != nil {
		fmt.Fprintf(out, "  discount:  %d%% OFF\n", *p.Discount)
	}
	fmt.Fprintf(out, "  rating:    %.1f\n", p.Rating)
	description := p.Description
	if description == "" {
		description = "No description available."
	}
	fmt.Fprintf(out, "\n%s\n", description)
	return nil
}

func runCategories(cmd *cobra.Command, args []string) error {
	total, counts := storefront.Catalog.Counts()
	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, map[string]any{"total": total, "categories": counts})
	}

	categories := storefront.Catalog.Categories()
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t(%d)\n", models.All, total)
	for i, cat := range categories {
		fmt.Fprintf(tw, "%s\t(%d)\n", cat.Name, counts[i].Count)
		for _, sub := range cat.Subcategories {
			fmt.Fprintf(tw, "  %s\t(%d)\n", sub, counts[i].Subcategories[sub])
		}
	}
	return tw.Flush()
}

func runAdd(cmd *cobra.Command, args []string) error {
	tracker := storefront.Service.Tracker(args[0])
	tracker.Set(addQuantity)

	state, err := storefront.Service.AddProduct(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printCart(cmd.OutOrStdout(), state)
}

func printListing(out io.Writer, cat *catalog.Catalog, sel models.FilterSelection) error {
	products := cat.Filter(sel)
	if jsonOutput {
		return writeJSON(out, map[string]any{"filter": sel, "count": len(products), "products": products})
	}

	fmt.Fprintf(out, "%s / %s: %d products found\n", sel.Category, sel.Subcategory, len(products))
	if len(products) == 0 {
		fmt.Fprintln(out, "No products found. Try adjusting your filters to see more products.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tRATING\tCATEGORY")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\tRs. %s\t%.1f\t%s / %s\n",
			p.ID, p.Name, formatPrice(p.Price), p.Rating, p.Category, p.Subcategory)
	}
	return tw.Flush()
}

func printCart(out io.Writer, state models.CartState) error {
	if jsonOutput {
		return writeJSON(out, state)
	}

	fmt.Fprintf(out, "Cart (%d)\n", state.TotalQuantity)
	if len(state.Items) == 0 {
		fmt.Fprintln(out, "Your cart is empty")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tQTY\tTOTAL")
	for _, item := range state.Items {
		fmt.Fprintf(tw, "%s\t%s\tRs. %s\t%d\tRs. %s\n",
			item.ID, item.Name, formatPrice(item.Price), item.Quantity, formatPrice(item.TotalPrice))
	}
	fmt.Fprintf(tw, "\t\t\t%d\tRs. %s\n", state.TotalQuantity, formatPrice(state.TotalAmount))
	return tw.Flush()
}

// formatPrice renders amounts without trailing zeros
func formatPrice(v float64) string {
	if v < 0 {
		v = 0
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	return strings.TrimSuffix(strings.TrimRight(s, "0"), ".")
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
