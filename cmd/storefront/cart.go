package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bazaargo/storefront/internal/cart"
	"github.com/bazaargo/storefront/internal/domain"
	"github.com/bazaargo/storefront/internal/pricing"
)

func newCartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the cart",
	}
	cmd.AddCommand(
		newCartAddCmd(a),
		newCartUpdateCmd(a),
		newCartRemoveCmd(a),
		newCartShowCmd(a),
		newCartClearCmd(a),
	)
	return cmd
}

func lineKeyFlags(cmd *cobra.Command, size, color, variant *string) {
	cmd.Flags().StringVar(size, "size", "", "size")
	cmd.Flags().StringVar(color, "color", "", "color")
	cmd.Flags().StringVar(variant, "variant", "", "variant id")
}

func newCartAddCmd(a *app) *cobra.Command {
	var size, color, variant string
	var quantity int

	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}

			// Fetch a fresh snapshot; the stored copy is what checkout
			// later drops in favor of server-side pricing.
			p, err := a.backend.Product(cmd.Context(), id)
			if err != nil {
				return err
			}

			if err := a.cart.AddItem(*p, quantity, size, color, variant); err != nil {
				var stockErr *cart.StockError
				if errors.As(err, &stockErr) {
					fmt.Println(stockErr.Error())
					return nil
				}
				return err
			}
			fmt.Printf("added %s x%d\n", p.Name, quantity)
			return nil
		},
	}

	cmd.Flags().IntVarP(&quantity, "quantity", "q", 1, "quantity")
	lineKeyFlags(cmd, &size, &color, &variant)
	return cmd
}

func newCartUpdateCmd(a *app) *cobra.Command {
	var size, color, variant string

	cmd := &cobra.Command{
		Use:   "update <product-id> <quantity>",
		Short: "Change the quantity of a cart line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}

			key := domain.LineKey{ProductID: id, Size: size, Color: color, VariantID: variant}
			if err := a.cart.UpdateQuantity(key, quantity); err != nil {
				var stockErr *cart.StockError
				if errors.As(err, &stockErr) {
					fmt.Println(stockErr.Error())
					return nil
				}
				return err
			}
			return nil
		},
	}

	lineKeyFlags(cmd, &size, &color, &variant)
	return cmd
}

func newCartRemoveCmd(a *app) *cobra.Command {
	var size, color, variant string

	cmd := &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a cart line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}
			a.cart.RemoveItem(domain.LineKey{ProductID: id, Size: size, Color: color, VariantID: variant})
			fmt.Println("removed")
			return nil
		},
	}

	lineKeyFlags(cmd, &size, &color, &variant)
	return cmd
}

func newCartShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show cart contents and totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			lines := a.cart.Lines()
			if len(lines) == 0 {
				fmt.Println("cart is empty")
				return nil
			}

			for _, l := range lines {
				desc := l.Product.Name
				if l.Size != "" {
					desc += " size=" + l.Size
				}
				if l.Color != "" {
					desc += " color=" + l.Color
				}
				fmt.Printf("%d\t%s\tx%d\t%s\n", l.Product.ID, desc, l.Quantity, pricing.FormatPrice(l.Product.Price))
			}

			t := a.cart.Totals()
			fmt.Printf("subtotal: %s\n", pricing.FormatPrice(t.Subtotal))
			if !t.Discount.IsZero() {
				fmt.Printf("discount: -%s\n", pricing.FormatPrice(t.Discount))
			}
			if t.CODFee.IsZero() {
				fmt.Println("delivery: free")
			} else {
				fmt.Printf("delivery: %s\n", pricing.FormatPrice(t.CODFee))
			}
			fmt.Printf("total: %s (%d items)\n", pricing.FormatPrice(t.Total), t.ItemCount)
			return nil
		},
	}
}

func newCartClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.cart.Clear()
			fmt.Println("cart cleared")
			return nil
		},
	}
}
