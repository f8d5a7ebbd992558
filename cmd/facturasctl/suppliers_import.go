package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"facturas/internal/config"
	"facturas/internal/domain"
	"facturas/internal/logger"
	"facturas/internal/repository/postgres"
	"facturas/internal/service"
)

// Header names accepted for each supplier column, lowercased.
var supplierColumns = map[string][]string{
	"name":        {"nombre", "proveedor", "razón social", "razon social", "name"},
	"cuit":        {"cuit"},
	"cbu":         {"cbu"},
	"paymentTerm": {"plazo", "plazo de pago", "payment term"},
}

func newSuppliersImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suppliers-import",
		Short: "Load the supplier directory from an Excel sheet",
		Long: `Reads a sheet whose first row holds the headers Nombre, CUIT, CBU and Plazo
(any order, CUIT/CBU/Plazo optional) and creates one supplier per row. Rows
repeating a CUIT or a name already seen in the file are skipped, as are
suppliers whose CUIT already exists.`,
		Example: `  facturasctl suppliers-import --file proveedores.xlsx
  facturasctl suppliers-import --file proveedores.xlsx --sheet Hoja1 --dry-run`,
		RunE: runSuppliersImport,
	}
	cmd.Flags().String("file", "", "Path to the .xlsx file")
	cmd.Flags().String("sheet", "", "Sheet name (default: first sheet)")
	cmd.Flags().Bool("dry-run", false, "Parse and print without writing to the database")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runSuppliersImport(cmd *cobra.Command, _ []string) error {
	log := logger.WithComponent("suppliers_import")

	path, _ := cmd.Flags().GetString("file")
	sheet, _ := cmd.Flags().GetString("sheet")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("open Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()

	inputs, err := parseSupplierSheet(f, sheet)
	if err != nil {
		return err
	}
	log.Info().Int("rows", len(inputs)).Str("file", path).Msg("supplier sheet parsed")

	out := cmd.OutOrStdout()
	if dryRun {
		for _, in := range inputs {
			if _, err := fmt.Fprintf(out, "%s\t%s\n", in.Name, deref(in.CUIT)); err != nil {
				return err
			}
		}
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	svc := service.NewSupplierService(postgres.NewSupplierRepo(db), log)
	var created, skipped int
	for _, in := range inputs {
		if _, err := svc.Create(cmd.Context(), in); err != nil {
			if errors.Is(err, domain.ErrDuplicateCUIT) {
				skipped++
				continue
			}
			return fmt.Errorf("creating supplier %q: %w", in.Name, err)
		}
		created++
	}

	_, err = fmt.Fprintf(out, "created %d suppliers, skipped %d existing\n", created, skipped)
	return err
}

// parseSupplierSheet reads supplier rows from sheet, or the first sheet when
// sheet is empty.
func parseSupplierSheet(f *excelize.File, sheet string) ([]service.SupplierInput, error) {
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	cols := headerIndex(rows[0])
	nameCol, ok := cols["name"]
	if !ok {
		return nil, fmt.Errorf("sheet %q has no Nombre column", sheet)
	}

	seen := make(map[string]bool)
	var inputs []service.SupplierInput
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		name := strings.TrimSpace(cellVal(row, nameCol))
		if name == "" {
			continue
		}

		in := service.SupplierInput{Name: name}
		if c, ok := cols["cuit"]; ok {
			in.CUIT = optional(cellVal(row, c))
		}
		if c, ok := cols["cbu"]; ok {
			in.CBU = optional(cellVal(row, c))
		}
		if c, ok := cols["paymentTerm"]; ok {
			if days, err := strconv.Atoi(strings.TrimSpace(cellVal(row, c))); err == nil {
				in.PaymentTerm = &days
			}
		}

		key := "name:" + strings.ToLower(name)
		if in.CUIT != nil {
			key = "cuit:" + *in.CUIT
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		inputs = append(inputs, in)
	}
	return inputs, nil
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int)
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for field, names := range supplierColumns {
			for _, n := range names {
				if h == n {
					if _, dup := idx[field]; !dup {
						idx[field] = i
					}
				}
			}
		}
	}
	return idx
}

func cellVal(row []string, col int) string {
	if col < len(row) {
		return row[col]
	}
	return ""
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
