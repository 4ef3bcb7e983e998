package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/sweetcrumb/storefront/internal/cart"
	"github.com/sweetcrumb/storefront/internal/catalog"
	"github.com/sweetcrumb/storefront/internal/enum"
	"github.com/sweetcrumb/storefront/internal/matcher"
	"github.com/sweetcrumb/storefront/internal/order"
	"github.com/sweetcrumb/storefront/internal/pricing"
	"go.uber.org/zap"
)

var (
	errNoSuchProduct = errors.New("no product matches")
	errAmbiguous     = errors.New("more than one product matches")
	errNoSuchLine    = errors.New("no such cart line")
)

func newProductsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "products [search]",
		Short: "List products, optionally filtered by a search",
		RunE: func(cmd *cobra.Command, args []string) error {
			products := a.catalog.Products()
			if len(args) > 0 {
				products = a.matcher.Search(strings.Join(args, " "))
			}
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			for _, p := range products {
				fmt.Fprintf(tw, "%s\t%s %s\t%s\t%s\n", p.ID, order.Label(p.Category), p.Name, p.DisplayPrice, optionsSummary(p))
			}
			return tw.Flush()
		},
	}
}

// optionsSummary names what a product asks for before it can be added.
func optionsSummary(p catalog.Product) string {
	names := func(n int, at func(int) string) string {
		out := make([]string, n)
		for i := range out {
			out[i] = at(i)
		}
		return strings.Join(out, " | ")
	}
	sizes := names(len(p.Sizes), func(i int) string { return p.Sizes[i].Name })
	flavors := names(len(p.Flavors), func(i int) string { return p.Flavors[i].Name })
	subItems := names(len(p.SubItems), func(i int) string { return p.SubItems[i].Name })

	switch p.Kind {
	case enum.KindFixedPack:
		return "--pack " + sizes
	case enum.KindFlavorQuantity, enum.KindFlavorOnly:
		return "--flavor " + flavors
	case enum.KindMultiFlavor:
		return "--flavors " + flavors
	case enum.KindCookieMix:
		return "--count " + subItems
	case enum.KindSizeFlavorToppings:
		return "--size " + sizes + "  --flavor " + flavors
	}
	return ""
}

type addFlags struct {
	pack     string
	size     string
	flavor   string
	flavors  []string
	toppings []string
	counts   map[string]int
	quantity int
}

func newAddCmd(a *app) *cobra.Command {
	var f addFlags
	cmd := &cobra.Command{
		Use:   "add <product>",
		Short: "Add a product to the cart",
		Example: `  cart add sourdough-loaf --qty 2
  cart add brownie-box --pack "Box of 9" --flavors Walnut
  cart add cookie-mix --count "Chocolate Chip=6,Red Velvet=2"
  cart add custom-cake --size "8 inch" --flavor Vanilla --toppings Macarons`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.resolve(strings.Join(args, " "))
			if err != nil {
				return err
			}
			picks := pricing.Picks{
				Pack:     f.pack,
				Size:     f.size,
				Flavor:   f.flavor,
				Flavors:  f.flavors,
				Toppings: f.toppings,
				Counts:   f.counts,
				Quantity: f.quantity,
			}
			q, err := pricing.Quote(p, picks)
			if err != nil {
				return err
			}
			if !q.CanSubmit {
				return fmt.Errorf("%w for %s: %s", pricing.ErrIncompleteSelection, p.ID, optionsSummary(p))
			}

			a.store.Add(*q.Item)
			a.logger.Debug("added to cart", zap.String("id", q.Item.ID), zap.Int("quantity", q.Item.Quantity))

			line := fmt.Sprintf("Added %dx %s", q.Item.Quantity, p.Name)
			if d := order.Detail(*q.Item); d != "" {
				line += " (" + d + ")"
			}
			fmt.Fprintf(a.out, "%s = %s\n", line, order.FormatMoney(q.Subtotal))
			if q.Savings.Valid {
				fmt.Fprintf(a.out, "You save %s with this pack\n", order.FormatMoney(q.Savings.Decimal))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&f.pack, "pack", "", "pack size, e.g. \"Box of 4\"")
	cmd.Flags().StringVar(&f.size, "size", "", "cake size")
	cmd.Flags().StringVar(&f.flavor, "flavor", "", "single flavor")
	cmd.Flags().StringSliceVar(&f.flavors, "flavors", nil, "flavors for multi-flavor products and packs")
	cmd.Flags().StringSliceVar(&f.toppings, "toppings", nil, "cake toppings")
	cmd.Flags().StringToIntVar(&f.counts, "count", nil, "cookie mix counts, name=n")
	cmd.Flags().IntVarP(&f.quantity, "qty", "q", 1, "quantity")
	return cmd
}

// resolve finds a product by id or by free text.
func (a *app) resolve(text string) (catalog.Product, error) {
	res := a.matcher.Match(text)
	switch res.Status {
	case matcher.Matched:
		return *res.Product, nil
	case matcher.Ambiguous:
		ids := make([]string, len(res.Candidates))
		for i, c := range res.Candidates {
			ids[i] = c.ID
		}
		return catalog.Product{}, fmt.Errorf("%w %q: %s", errAmbiguous, text, strings.Join(ids, ", "))
	}
	return catalog.Product{}, fmt.Errorf("%w %q", errNoSuchProduct, text)
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.store.State()
			if len(s.Items) == 0 {
				fmt.Fprintln(a.out, "Your cart is empty.")
				return nil
			}
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			for i, it := range s.Items {
				fmt.Fprintf(tw, "%d.\t%dx %s\t%s\t%s\n", i+1, it.Quantity, it.Name, order.Detail(it), order.FormatMoney(it.Subtotal()))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			header := fmt.Sprintf("%d items, total %s", s.ItemCount(), order.FormatMoney(s.Total()))
			if !s.LastAdded.IsZero() {
				header += "  ✨ just added"
			}
			fmt.Fprintln(a.out, header)
			return nil
		},
	}
}

// line resolves a 1-based line number or an item id to an item id.
func (a *app) line(ref string) (string, error) {
	items := a.store.Items()
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(items) {
			return "", fmt.Errorf("%w: %d", errNoSuchLine, n)
		}
		return items[n-1].ID, nil
	}
	if _, ok := (cart.State{Items: items}).Find(ref); ok {
		return ref, nil
	}
	return "", fmt.Errorf("%w: %s", errNoSuchLine, ref)
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <line>",
		Aliases: []string{"rm"},
		Short:   "Remove a line from the cart",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.line(args[0])
			if err != nil {
				return err
			}
			a.store.Remove(id)
			fmt.Fprintln(a.out, "Removed.")
			return nil
		},
	}
}

func newSetQtyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-qty <line> <quantity>",
		Short: "Change the quantity of a line; 0 removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.line(args[0])
			if err != nil {
				return err
			}
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quantity %q: %w", args[1], err)
			}
			s := a.store.UpdateQuantity(id, qty)
			fmt.Fprintf(a.out, "Total %s\n", order.FormatMoney(s.Total()))
			return nil
		},
	}
}

func newClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.store.Clear()
			fmt.Fprintln(a.out, "Cart cleared.")
			return nil
		},
	}
}

func newCheckoutCmd(a *app) *cobra.Command {
	var clearAfter bool
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Print the WhatsApp order message and link",
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := a.formatter.Format(a.store.Items())
			fmt.Fprintln(a.out, msg.Text)
			fmt.Fprintln(a.out)
			fmt.Fprintln(a.out, msg.Link)
			if clearAfter && msg.Units > 0 {
				a.store.Clear()
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&clearAfter, "clear", false, "empty the cart after printing")
	return cmd
}
