package terminal

import (
	"io"
	"os"

	"github.com/floraos/retail-insights/pkg/runtime/terminal/commands"
	"github.com/floraos/retail-insights/pkg/runtime/terminal/export"
	"github.com/floraos/retail-insights/pkg/services/compare"
	"github.com/floraos/retail-insights/pkg/services/reports"
	"github.com/floraos/retail-insights/pkg/store/selections"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	dispatcher reports.Dispatcher
	engine     *compare.Engine
	store      selections.Store
	reporter   *export.Reporter
	rootCmd    *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Dispatcher reports.Dispatcher
	Engine     *compare.Engine
	Store      selections.Store
	Output     io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		dispatcher: opts.Dispatcher,
		engine:     opts.Engine,
		store:      opts.Store,
		reporter:   export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Retail analytics reporting tool",
	}

	cmd.AddCommand(commands.NewReportCmd(cli.dispatcher, cli.reporter))
	cmd.AddCommand(commands.NewCompareCmd(cli.engine, cli.store, cli.reporter))
	cmd.AddCommand(commands.NewSelectionsCmd(cli.store, cli.reporter))

	return cmd
}
