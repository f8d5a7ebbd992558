package main

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"facturas/internal/domain"
	"facturas/internal/invoice"
)

func newCalcCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Compute VAT, II.BB and totals for an invoice",
		Example: `  # Type A with both VAT tiers and II.BB
  facturasctl calc --type A --amount 1000 --amount-105 500 --ii-bb

  # Machine-readable output
  facturasctl calc --type A --amount 1000 --json`,
		RunE: runCalc,
	}
	cmd.Flags().String("type", "A", "Invoice type (A or X)")
	cmd.Flags().String("amount", "0", "Amount taxed at 21%")
	cmd.Flags().String("amount-105", "0", "Amount taxed at 10.5%")
	cmd.Flags().Bool("ii-bb", false, "Apply the II.BB withholding")
	cmd.Flags().Bool("json", false, "Print derived amounts as JSON")
	return cmd
}

func runCalc(cmd *cobra.Command, _ []string) error {
	typ, _ := cmd.Flags().GetString("type")
	rawAmount, _ := cmd.Flags().GetString("amount")
	rawAmount105, _ := cmd.Flags().GetString("amount-105")
	hasIIBB, _ := cmd.Flags().GetBool("ii-bb")
	asJSON, _ := cmd.Flags().GetBool("json")

	t := domain.InvoiceType(typ)
	if !t.Valid() {
		return fmt.Errorf("invalid type %q: must be A or X", typ)
	}
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return fmt.Errorf("invalid --amount: %w", err)
	}
	amount105, err := decimal.NewFromString(rawAmount105)
	if err != nil {
		return fmt.Errorf("invalid --amount-105: %w", err)
	}

	in := invoice.Inputs{Type: t, Amount: amount, Amount105: amount105, HasIIBB: hasIIBB}
	derived := invoice.Recompute(in)

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(derived)
	}

	display := invoice.DisplayOf(in, derived)
	rows := []struct{ label, value string }{
		{"Importe 21%", display.Amount},
		{"Importe 10,5%", display.Amount105},
		{"IVA 21%", display.VATAmount21},
		{"IVA 10,5%", display.VATAmount105},
		{"Neto", display.TotalNeto},
		{"II.BB", display.IIBBAmount},
		{"Total", display.TotalAmount},
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(out, "%-14s %s\n", r.label, r.value); err != nil {
			return err
		}
	}
	return nil
}
