package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bazaargo/storefront/internal/api"
	"github.com/bazaargo/storefront/internal/pricing"
)

func newCouponCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "coupon <code>",
		Short: "Apply a coupon to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applied, err := a.checkout.ApplyCoupon(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("coupon %s applied, discount %s\n", applied.Code, pricing.FormatPrice(applied.Discount))
			return nil
		},
	}
}

func newCheckoutCmd(a *app) *cobra.Command {
	var address, coupon string

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place a cash-on-delivery order from the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			// The applied coupon does not survive between invocations, so
			// checkout revalidates the code itself.
			order, err := a.checkout.PlaceOrderWithCoupon(cmd.Context(), address, coupon)
			if err != nil {
				return err
			}
			fmt.Printf("order %d placed, total %s\n", order.ID, pricing.FormatPrice(order.Total))
			return nil
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "delivery address")
	cmd.Flags().StringVar(&coupon, "coupon", "", "coupon code")
	_ = cmd.MarkFlagRequired("address")
	return cmd
}

func newOrdersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "List your orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			orders, err := a.backend.Orders(cmd.Context())
			if err != nil {
				return err
			}
			for _, o := range orders {
				fmt.Printf("%d\t%s\t%s\t%s\n", o.ID, o.CreatedAt.Format("2006-01-02"), o.Status, pricing.FormatPrice(o.Total))
			}
			return nil
		},
	}
}

func newOrderCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "order <id>",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid order id %q", args[0])
			}
			o, err := a.backend.Order(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Printf("order %d (%s)\n", o.ID, o.Status)
			for _, item := range o.Items {
				fmt.Printf("  product %d x%d\n", item.ProductID, item.Quantity)
			}
			fmt.Printf("total %s\n", pricing.FormatPrice(o.Total))
			return nil
		},
	}
}

func newCancelCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <order-id>",
		Short: "Cancel an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid order id %q", args[0])
			}
			o, err := a.backend.CancelOrder(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Printf("order %d is now %s\n", o.ID, o.Status)
			return nil
		},
	}
}

func newReviewCmd(a *app) *cobra.Command {
	var rating int
	var comment string

	cmd := &cobra.Command{
		Use:   "review <product-id>",
		Short: "Review a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}
			if rating < 1 || rating > 5 {
				return fmt.Errorf("rating must be between 1 and 5")
			}
			_, err = a.backend.CreateReview(cmd.Context(), api.CreateReviewRequest{
				ProductID: id,
				Rating:    rating,
				Comment:   comment,
			})
			if err != nil {
				return err
			}
			fmt.Println("review submitted")
			return nil
		},
	}

	cmd.Flags().IntVar(&rating, "rating", 5, "rating from 1 to 5")
	cmd.Flags().StringVar(&comment, "comment", "", "review text")
	return cmd
}
