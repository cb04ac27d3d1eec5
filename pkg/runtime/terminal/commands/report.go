package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/floraos/retail-insights/pkg/models/domain"
	"github.com/floraos/retail-insights/pkg/runtime/terminal/export"
	"github.com/floraos/retail-insights/pkg/services/format"
	"github.com/floraos/retail-insights/pkg/services/reports"
	"github.com/spf13/cobra"
)

type ReportCmd struct {
	start      string
	end        string
	dispatcher reports.Dispatcher
	reporter   *export.Reporter
}

func NewReportCmd(dispatcher reports.Dispatcher, reporter *export.Reporter) *cobra.Command {
	rc := &ReportCmd{dispatcher: dispatcher, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "report <kind>",
		Short: "Run one report for a date range",
		Long:  "Run one report for a date range. With no flags the previous calendar month is used.\n\nAvailable kinds:\n  " + strings.Join(reportKeys(dispatcher), "\n  "),
		Args:  cobra.ExactArgs(1),
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.start, "start", "", "Range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&rc.end, "end", "", "Range end (YYYY-MM-DD)")

	return cmd
}

func (rc *ReportCmd) run(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	r, err := resolveRange(rc.start, rc.end)
	if err != nil {
		return err
	}

	key := args[0]
	def, err := rc.dispatcher.Get(key)
	if err != nil {
		return err
	}

	res, err := rc.dispatcher.Run(ctx, key, r)
	if err != nil {
		return fmt.Errorf("report %s failed: %w", key, err)
	}

	ranked := make([]domain.RankedList, 0, len(def.Rankings))
	for _, ranking := range def.Rankings {
		list, err := format.TopN(res, ranking, def.LabelColumns, format.MaxEntries)
		if err != nil {
			return err
		}
		ranked = append(ranked, list)
	}

	return rc.reporter.Handle(def.Title, res, ranked)
}

func reportKeys(dispatcher reports.Dispatcher) []string {
	defs := dispatcher.Reports()
	keys := make([]string, 0, len(defs))
	for _, def := range defs {
		keys = append(keys, def.Key)
	}
	return keys
}

// resolveRange turns the start/end flags into a validated range. Both empty
// falls back to the previous calendar month; one empty is an error.
func resolveRange(start, end string) (domain.DateRange, error) {
	if start == "" && end == "" {
		return domain.PreviousMonth(time.Now()), nil
	}
	if start == "" || end == "" {
		return domain.DateRange{}, &domain.ValidationError{
			Msg: "either provide both --start and --end or neither",
		}
	}
	return domain.ParseDateRange(start, end)
}
