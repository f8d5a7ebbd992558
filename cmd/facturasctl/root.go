package main

import (
	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "facturasctl",
		Short: "Offline tools for the invoice book",
		Long: `facturasctl exposes the invoice calculator and the extraction reconciler
without a running server, plus account provisioning against the database.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCalcCmd(), newReconcileCmd(), newUserAddCmd(), newSuppliersImportCmd())
	return root
}
