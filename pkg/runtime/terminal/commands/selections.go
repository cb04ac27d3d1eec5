package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/floraos/retail-insights/pkg/models/domain"
	"github.com/floraos/retail-insights/pkg/runtime/terminal/export"
	"github.com/floraos/retail-insights/pkg/store/selections"
	"github.com/spf13/cobra"
)

type SelectionsCmd struct {
	store    selections.Store
	reporter *export.Reporter
}

func NewSelectionsCmd(store selections.Store, reporter *export.Reporter) *cobra.Command {
	sc := &SelectionsCmd{store: store, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "selections",
		Short: "Manage saved date range selections",
	}

	cmd.AddCommand(sc.newListCmd())
	cmd.AddCommand(sc.newSaveCmd())

	return cmd
}

func (sc *SelectionsCmd) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved date ranges in selection order",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			sels, err := sc.store.Load(ctx)
			if err != nil {
				return err
			}
			return sc.reporter.Selections(sels)
		},
	}
}

func (sc *SelectionsCmd) newSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save <start> <end>",
		Short: "Save a date range (YYYY-MM-DD) for later comparison",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			r, err := domain.ParseDateRange(args[0], args[1])
			if err != nil {
				return err
			}
			sel := domain.SavedSelection{Start: r.Start, End: r.End}
			if err := sc.store.Save(ctx, sel); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", sel.Label())
			return nil
		},
	}
}
