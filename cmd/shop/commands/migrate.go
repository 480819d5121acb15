package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/01moynul/stitchshop/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Add the category_id/style_id columns to an older products table",
	Long: `migrate upgrades a database created before products could belong to a
category and style. It adds products.category_id and products.style_id when
they are missing and leaves everything else alone. Running it twice is safe.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		report, err := database.MigrateProductParents(ctx, db)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch {
		case report.TableMissing:
			fmt.Fprintln(out, "products table not found; start the app once with `shop serve` to create the schema, then run migrate again if needed.")
		case len(report.Added) == 0:
			fmt.Fprintln(out, "products table is up to date; nothing to do.")
		default:
			fmt.Fprintf(out, "added columns to products: %s\n", strings.Join(report.Added, ", "))
		}
		return nil
	},
}
