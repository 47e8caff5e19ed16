package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"order-desk/internal/app"
	"order-desk/internal/core"
)

// Usage lists the one-shot commands.
const Usage = "Available: customers, catalog <customerID>, order <orderID>, reorder <customerID>"

// Run executes a one-shot CLI command, writing its report to out.
// args is os.Args[1:]; the first element is the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("no command given\n%s", Usage)
	}

	switch args[0] {
	case "customers", "cust":
		result, err := svc.ListCustomers(ctx)
		if err != nil {
			return fmt.Errorf("failed to list customers: %w", err)
		}
		printCustomers(out, result)

	case "catalog", "cat":
		customerID, err := idArg(args, "catalog <customerID>")
		if err != nil {
			return err
		}
		result, err := svc.QuoteCatalog(ctx, customerID)
		if err != nil {
			return fmt.Errorf("failed to price catalog: %w", err)
		}
		printQuote(out, result)

	case "order", "o":
		orderID, err := idArg(args, "order <orderID>")
		if err != nil {
			return err
		}
		draft, err := svc.LoadOrderForEdit(ctx, orderID)
		if err != nil {
			return fmt.Errorf("failed to load order %d: %w", orderID, err)
		}
		defer svc.DiscardDraft(ctx, draft.DraftID)
		printDraft(out, fmt.Sprintf("ORDER %s", draft.OrderNumber), draft)

	case "reorder", "re":
		customerID, err := idArg(args, "reorder <customerID>")
		if err != nil {
			return err
		}
		draft, err := svc.DuplicateLastOrder(ctx, customerID)
		if err != nil {
			return fmt.Errorf("failed to copy last order: %w", err)
		}
		defer svc.DiscardDraft(ctx, draft.DraftID)
		printDraft(out, "REORDER PREVIEW", draft)

	default:
		return fmt.Errorf("unknown command: %s\n%s", args[0], Usage)
	}
	return nil
}

func idArg(args []string, usage string) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("usage: app %s", usage)
	}
	id, err := strconv.Atoi(args[1])
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q\nusage: app %s", args[1], usage)
	}
	return id, nil
}

func printCustomers(out io.Writer, result *app.CustomerListResult) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %-6s %-10s %-40s\n", "ID", "CODE", "NAME")
	fmt.Fprintln(out, strings.Repeat("-", 62))
	for _, c := range result.Customers {
		fmt.Fprintf(out, "  %-6d %-10s %-40s\n", c.ID, c.Code, c.Name)
	}
	fmt.Fprintln(out, strings.Repeat("-", 62))
}

func printQuote(out io.Writer, result *app.QuoteResult) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", 78))
	fmt.Fprintf(out, "  PRICE LIST  %s (%s)\n", result.Customer.Name, result.Customer.Code)
	fmt.Fprintln(out, strings.Repeat("=", 78))
	fmt.Fprintf(out, "  %-12s %-32s %12s %6s  %s\n", "CODE", "NAME", "PRICE", "DISC%", "SOURCE")
	for _, l := range result.Lines {
		fmt.Fprintf(out, "  %-12s %-32s %12s %6s  %s\n",
			l.Variation.Code, l.Variation.Name, l.UnitPrice.StringFixed(2), l.DiscountPercent.StringFixed(2), l.Source)
	}
	fmt.Fprintln(out, strings.Repeat("=", 78))
}

func printDraft(out io.Writer, title string, d *app.DraftResult) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", 78))
	fmt.Fprintf(out, "  %s\n", title)
	fmt.Fprintf(out, "  Customer : %s (%s)\n", d.Customer.Name, d.Customer.Code)
	fmt.Fprintf(out, "  Delivery : %s\n", d.DeliveryDate)
	if d.Mutability.Editable {
		fmt.Fprintln(out, "  Editable : yes")
	} else {
		fmt.Fprintf(out, "  Editable : no (%s)\n", strings.Join(d.Mutability.Reasons, ", "))
	}
	fmt.Fprintln(out, strings.Repeat("=", 78))
	for _, b := range d.Branches {
		fmt.Fprintf(out, "  [%d] %s  shipping %s\n", b.Index+1, b.Name, b.ShippingFee.StringFixed(2))
		if b.Note != "" {
			fmt.Fprintf(out, "      note: %s\n", b.Note)
		}
		for _, it := range b.Items {
			disc := it.DiscountValue.StringFixed(2)
			if it.DiscountMode == core.DiscountPercent {
				disc += "%"
			}
			fmt.Fprintf(out, "      %-12s %-28s %4d x %10s  -%-8s %12s\n",
				it.Code, it.Name, it.Quantity, it.UnitPrice.StringFixed(2), disc, it.Total.StringFixed(2))
		}
		fmt.Fprintf(out, "      %60s %12s\n", "branch total", b.Total.StringFixed(2))
	}
	t := d.Totals
	fmt.Fprintln(out, strings.Repeat("-", 78))
	fmt.Fprintf(out, "  %-62s %12s\n", "Items", t.ItemsTotal.StringFixed(2))
	fmt.Fprintf(out, "  %-62s %12s\n", "Order discount", t.OrderDiscountAmount.Neg().StringFixed(2))
	fmt.Fprintf(out, "  %-62s %12s\n", "Shipping", t.ShippingTotal.StringFixed(2))
	fmt.Fprintf(out, "  %-62s %12s\n", "Grand total (incl. VAT)", t.GrandTotal.StringFixed(2))
	fmt.Fprintf(out, "  %-62s %12s\n", "  before VAT", t.PreVAT.StringFixed(2))
	fmt.Fprintf(out, "  %-62s %12s\n", "  VAT 7%", t.VAT.StringFixed(2))
	fmt.Fprintln(out, strings.Repeat("=", 78))
}
