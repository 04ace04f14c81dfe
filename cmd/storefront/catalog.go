package main

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/bazaargo/storefront/internal/api"
	"github.com/bazaargo/storefront/internal/domain"
	"github.com/bazaargo/storefront/internal/pricing"
)

func newCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := a.backend.Categories(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range cats {
				fmt.Printf("%d\t%s\n", c.ID, c.Name)
			}
			return nil
		},
	}
}

func newShopsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shops",
		Short: "List shops",
		RunE: func(cmd *cobra.Command, args []string) error {
			shops, err := a.backend.Shops(cmd.Context())
			if err != nil {
				return err
			}
			for _, s := range shops {
				fmt.Printf("%d\t%s\t%.1f\n", s.ID, s.Name, s.Rating)
			}
			return nil
		},
	}
}

func newProductsCmd(a *app) *cobra.Command {
	var filter api.ProductFilter
	var minPrice, maxPrice string

	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse products",
		RunE: func(cmd *cobra.Command, args []string) error {
			if minPrice != "" {
				d, err := decimal.NewFromString(minPrice)
				if err != nil {
					return fmt.Errorf("invalid --min-price: %w", err)
				}
				filter.MinPrice = d
			}
			if maxPrice != "" {
				d, err := decimal.NewFromString(maxPrice)
				if err != nil {
					return fmt.Errorf("invalid --max-price: %w", err)
				}
				filter.MaxPrice = d
			}

			page, err := a.backend.Products(cmd.Context(), filter)
			if err != nil {
				return err
			}
			for _, p := range page.Products {
				fmt.Printf("%d\t%s\t%s\n", p.ID, p.Name, formatPriceLine(p))
			}
			if page.Total > 0 {
				fmt.Printf("page %d, %d products total\n", page.Page, page.Total)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.Search, "search", "", "search term")
	cmd.Flags().Int64Var(&filter.Category, "category", 0, "category id")
	cmd.Flags().Int64Var(&filter.Shop, "shop", 0, "shop id")
	cmd.Flags().StringVar(&minPrice, "min-price", "", "minimum price")
	cmd.Flags().StringVar(&maxPrice, "max-price", "", "maximum price")
	cmd.Flags().StringVar(&filter.Sort, "sort", "", "sort order")
	cmd.Flags().IntVar(&filter.Page, "page", 0, "page number")
	cmd.Flags().IntVar(&filter.PageSize, "page-size", 0, "page size")
	return cmd
}

func newProductCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "product <id>",
		Short: "Show product details and reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}

			p, err := a.backend.Product(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Printf("%s\n%s\n", p.Name, formatPriceLine(*p))
			fmt.Printf("stock: %d\n", p.Stock)
			for _, v := range p.Variants {
				fmt.Printf("  variant %s size=%s color=%s stock=%d\n", v.ID, v.Size, v.Color, v.Stock)
			}

			reviews, err := a.backend.Reviews(cmd.Context(), id)
			if err != nil {
				return err
			}
			for _, r := range reviews {
				fmt.Printf("  %d/5 %s: %s\n", r.Rating, r.Author, r.Comment)
			}
			return nil
		},
	}
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show marketplace stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := a.backend.Stats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("%d products, %d shops, %d orders, %d customers\n",
				stats.Products, stats.Shops, stats.Orders, stats.Customers)
			return nil
		},
	}
}

func newNewsletterCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "newsletter <email>",
		Short: "Subscribe to the newsletter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.backend.SubscribeNewsletter(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("subscribed")
			return nil
		},
	}
}

func formatPriceLine(p domain.Product) string {
	line := pricing.FormatPrice(p.Price)
	if info := pricing.PriceInfo(p.Price, p.MRP); info.HasDiscount {
		line += fmt.Sprintf(" (was %s, %d%% off)", pricing.FormatPrice(info.MRP), info.DiscountPercent)
	}
	return line
}
