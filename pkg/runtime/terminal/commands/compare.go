package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/floraos/retail-insights/pkg/models/domain"
	"github.com/floraos/retail-insights/pkg/runtime/terminal/export"
	"github.com/floraos/retail-insights/pkg/services/compare"
	"github.com/floraos/retail-insights/pkg/store/selections"
	"github.com/spf13/cobra"
)

type CompareCmd struct {
	first     int
	second    int
	summarize bool
	engine    *compare.Engine
	store     selections.Store
	reporter  *export.Reporter
}

func NewCompareCmd(engine *compare.Engine, store selections.Store, reporter *export.Reporter) *cobra.Command {
	cc := &CompareCmd{engine: engine, store: store, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "compare <kind>",
		Short: "Run one report for two saved date ranges side by side",
		Args:  cobra.ExactArgs(1),
		RunE:  cc.run,
	}

	cmd.Flags().IntVar(&cc.first, "first", 1, "1-based index of the first saved selection")
	cmd.Flags().IntVar(&cc.second, "second", 2, "1-based index of the second saved selection")
	cmd.Flags().BoolVar(&cc.summarize, "summarize", false, "Generate a narrative summary of both periods")

	return cmd
}

func (cc *CompareCmd) run(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 120*time.Second)
	defer cancel()

	wf := compare.NewWorkflow()
	if err := wf.LoadSelections(ctx, cc.store); err != nil {
		return err
	}
	if err := wf.Begin(); err != nil {
		return err
	}

	sels, err := pick(wf.Available(), cc.first, cc.second)
	if err != nil {
		return err
	}
	if err := wf.Choose(sels...); err != nil {
		return err
	}

	cmp, err := cc.engine.Compare(ctx, args[0], wf.Chosen(), cc.summarize)
	wf.Complete()
	if err != nil {
		return err
	}

	return cc.reporter.HandleComparison(*cmp)
}

func pick(available []domain.SavedSelection, first, second int) ([]domain.SavedSelection, error) {
	if first == second {
		return nil, &domain.ValidationError{Msg: "pick two different saved selections"}
	}
	for _, idx := range []int{first, second} {
		if idx < 1 || idx > len(available) {
			return nil, &domain.ValidationError{
				Msg: fmt.Sprintf("selection index %d out of range, %d saved", idx, len(available)),
			}
		}
	}
	return []domain.SavedSelection{available[first-1], available[second-1]}, nil
}
