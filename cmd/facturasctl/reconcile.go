package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"facturas/internal/domain"
	"facturas/internal/logger"
	"facturas/internal/reconcile"
)

func newReconcileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Reconcile an extraction candidate against a supplier list",
		Long: `Reads an extraction candidate (or a raw OCR envelope with --envelope) and a
JSON array of suppliers, and prints the patch, supplier resolution and
warnings that applying it to a draft would produce.`,
		Example: `  facturasctl reconcile --candidate c.json --suppliers s.json
  facturasctl reconcile --candidate ocr.json --envelope`,
		RunE: runReconcile,
	}
	cmd.Flags().String("candidate", "", "Path to the candidate JSON file")
	cmd.Flags().String("suppliers", "", "Path to a JSON array of suppliers")
	cmd.Flags().Bool("envelope", false, "Treat the candidate file as a raw OCR envelope")
	_ = cmd.MarkFlagRequired("candidate")
	return cmd
}

func runReconcile(cmd *cobra.Command, _ []string) error {
	log := logger.WithComponent("reconcile")

	candidatePath, _ := cmd.Flags().GetString("candidate")
	suppliersPath, _ := cmd.Flags().GetString("suppliers")
	isEnvelope, _ := cmd.Flags().GetBool("envelope")

	var c reconcile.Candidate
	if isEnvelope {
		var env reconcile.ExtractionEnvelope
		if err := readJSON(candidatePath, &env); err != nil {
			return err
		}
		var err error
		if c, err = reconcile.Normalize(env); err != nil {
			return err
		}
	} else if err := readJSON(candidatePath, &c); err != nil {
		return err
	}

	var suppliers []domain.Supplier
	if suppliersPath != "" {
		if err := readJSON(suppliersPath, &suppliers); err != nil {
			return err
		}
	}

	res := reconcile.Reconcile(c, suppliers)
	log.Debug().
		Str("supplier_status", string(res.Supplier.Status)).
		Int("warnings", len(res.Warnings)).
		Msg("candidate reconciled")

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}
