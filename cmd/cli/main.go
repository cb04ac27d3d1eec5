package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/floraos/retail-insights/pkg/runtime/terminal"
	"github.com/floraos/retail-insights/pkg/services/compare"
	"github.com/floraos/retail-insights/pkg/services/config"
	"github.com/floraos/retail-insights/pkg/services/reports"
	"github.com/floraos/retail-insights/pkg/services/summary"
	"github.com/floraos/retail-insights/pkg/store/selections"
	"github.com/floraos/retail-insights/pkg/store/warehouse"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfgPath := os.Getenv("INSIGHTS_CONFIG")
	if cfgPath == "" {
		cfgPath = "retail-insights.yaml"
	}

	app, err := config.LoadApp(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	registry, err := config.NewRegistry(app.Warehouse.RegistryPath)
	if err != nil {
		return fmt.Errorf("failed to create warehouse registry: %w", err)
	}
	profile, err := registry.GetProfile(context.Background(), app.Warehouse.Profile)
	if err != nil {
		return fmt.Errorf("failed to resolve warehouse profile %q: %w", app.Warehouse.Profile, err)
	}

	db, err := warehouse.Open(profile)
	if err != nil {
		return fmt.Errorf("failed to open warehouse %q: %w", profile.Name, err)
	}
	defer db.Close()

	exec, err := warehouse.NewSQLExecutor(db)
	if err != nil {
		return err
	}
	dispatcher, err := reports.NewDispatcher(exec, app.Warehouse.QueryTimeout)
	if err != nil {
		return err
	}

	var summarizer summary.Summarizer
	if app.Summary.Enabled {
		client, err := summary.NewClient(os.Getenv("OPENAI_API_KEY"), app.Summary.Model)
		if err != nil {
			return err
		}
		summarizer = client
	}

	engine, err := compare.NewEngine(dispatcher, summarizer)
	if err != nil {
		return err
	}
	selStore, err := selections.NewFileStore(app.Selections.Path)
	if err != nil {
		return err
	}

	cli := terminal.NewCLI(terminal.Options{
		Dispatcher: dispatcher,
		Engine:     engine,
		Store:      selStore,
		Output:     os.Stdout,
	})

	return cli.Execute()
}
