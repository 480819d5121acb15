package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/01moynul/stitchshop/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Turn every site toggle on and load demo data into an empty catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := prepareSchema(ctx, db); err != nil {
			return err
		}
		if err := store.Seed(ctx, db); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "seed complete")
		return nil
	},
}
