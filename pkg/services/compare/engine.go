// Package compare implements the two-period comparison workflow: pick
// exactly two saved date ranges, run the same report once per range, and
// pair the results for side-by-side display.
package compare

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/floraos/retail-insights/pkg/models/domain"
	"github.com/floraos/retail-insights/pkg/services/format"
	"github.com/floraos/retail-insights/pkg/services/reports"
	"github.com/floraos/retail-insights/pkg/services/summary"
)

type Engine struct {
	dispatcher reports.Dispatcher
	summarizer summary.Summarizer // nil disables the summary step
}

func NewEngine(dispatcher reports.Dispatcher, summarizer summary.Summarizer) (*Engine, error) {
	if dispatcher == nil {
		return nil, errors.New("dispatcher is nil")
	}
	return &Engine{dispatcher: dispatcher, summarizer: summarizer}, nil
}

// Compare runs the report once per selection and pairs the results in the
// order the operator selected them. Anything other than exactly two
// selections is operator input error, not a system fault. One side failing
// still yields a comparison with that side's failure recorded; both sides
// failing is a query failure.
func (e *Engine) Compare(
	ctx context.Context,
	reportKey string,
	sels []domain.SavedSelection,
	summarize bool,
) (*domain.Comparison, error) {
	if len(sels) != 2 {
		return nil, &domain.ValidationError{
			Msg: fmt.Sprintf("select exactly two date ranges to compare, got %d", len(sels)),
		}
	}

	def, err := e.dispatcher.Get(reportKey)
	if err != nil {
		return nil, err
	}

	var results [2]domain.ReportResult
	var failures [2]error

	g, gctx := errgroup.WithContext(ctx)
	for i := range sels {
		g.Go(func() error {
			res, err := e.dispatcher.Run(gctx, reportKey, sels[i].Range())
			if err != nil {
				failures[i] = err
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	if failures[0] != nil && failures[1] != nil {
		return nil, failures[0]
	}

	cmp := &domain.Comparison{Report: reportKey}
	sides := [2]*domain.ComparisonSide{&cmp.First, &cmp.Second}
	for i, side := range sides {
		side.Range = sels[i].Range()
		if failures[i] != nil {
			side.Failure = failures[i].Error()
			cmp.Warnings = append(cmp.Warnings,
				fmt.Sprintf("no results for %s: %v", side.Range, failures[i]))
			continue
		}
		side.Result = results[i]
		for _, ranking := range def.Rankings {
			list, err := format.TopN(results[i], ranking, def.LabelColumns, format.MaxEntries)
			if err != nil {
				return nil, err
			}
			side.Ranked = append(side.Ranked, list)
		}
	}

	if summarize {
		e.summarizeSides(ctx, def, cmp)
	}
	return cmp, nil
}

// summarizeSides asks the text-generation collaborator for per-side and
// cross-period summaries. Every failure degrades to a warning; the
// comparison itself always renders.
func (e *Engine) summarizeSides(ctx context.Context, def reports.ReportDef, cmp *domain.Comparison) {
	logger := zerolog.Ctx(ctx)

	if e.summarizer == nil {
		cmp.Warnings = append(cmp.Warnings, "summarization is not configured")
		return
	}

	sides := [2]*domain.ComparisonSide{&cmp.First, &cmp.Second}
	var texts [2]string
	for _, side := range sides {
		if side.Failure != "" {
			continue
		}
		text := sideText(def, side)
		s, err := e.summarizer.Summarize(ctx, text)
		if err != nil {
			logger.Warn().Err(err).Stringer("range", side.Range).Msg("side summary failed")
			cmp.Warnings = append(cmp.Warnings,
				fmt.Sprintf("summary unavailable for %s", side.Range))
			continue
		}
		side.Summary = s
	}
	texts[0] = sideText(def, &cmp.First)
	texts[1] = sideText(def, &cmp.Second)

	combined := fmt.Sprintf("Comparison between %s and %s:\n\n%s\n\n%s",
		cmp.First.Range, cmp.Second.Range, texts[0], texts[1])
	s, err := e.summarizer.Summarize(ctx, combined)
	if err != nil {
		logger.Warn().Err(err).Msg("comparison summary failed")
		cmp.Warnings = append(cmp.Warnings, "comparison summary unavailable")
		return
	}
	cmp.Summary = s
}

// sideText renders one side as plain text for the summarizer.
func sideText(def reports.ReportDef, side *domain.ComparisonSide) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s for %s\n", def.Title, side.Range)
	if side.Failure != "" {
		b.WriteString("(no results: query failed)\n")
		return b.String()
	}
	if len(side.Ranked) == 0 {
		for _, row := range side.Result.Rows {
			for _, col := range side.Result.Columns {
				fmt.Fprintf(&b, "%s=%v ", col, row[col])
			}
			b.WriteString("\n")
		}
		return b.String()
	}
	for _, list := range side.Ranked {
		fmt.Fprintf(&b, "%s:\n%s", list.Title, format.Render(list))
	}
	return b.String()
}
