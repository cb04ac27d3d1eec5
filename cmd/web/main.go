package main

import (
	"fmt"
	"net"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/floraos/retail-insights/pkg/server"
	"github.com/floraos/retail-insights/pkg/services/compare"
	"github.com/floraos/retail-insights/pkg/services/config"
	"github.com/floraos/retail-insights/pkg/services/reports"
	"github.com/floraos/retail-insights/pkg/services/summary"
	"github.com/floraos/retail-insights/pkg/store/selections"
	"github.com/floraos/retail-insights/pkg/store/warehouse"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the retail insights API server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "retail-insights.yaml",
		"Path to the service configuration file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	app, err := config.LoadApp(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	registry, err := config.NewRegistry(app.Warehouse.RegistryPath)
	if err != nil {
		return fmt.Errorf("failed to create warehouse registry: %w", err)
	}

	profiles, err := registry.GetProfiles(ctx)
	if err != nil {
		return fmt.Errorf("failed to read warehouse profiles: %w", err)
	}
	logger.Info().Msgf("Warehouse registry at `%s` successfully loaded.", app.Warehouse.RegistryPath)
	for _, profile := range profiles {
		logger.Info().Msgf("Name: `%s`, Type: `%s`", profile.Name, profile.Type)
	}

	profile, err := registry.GetProfile(ctx, app.Warehouse.Profile)
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
		return fmt.Errorf("failed to create warehouse executor: %w", err)
	}

	dispatcher, err := reports.NewDispatcher(exec, app.Warehouse.QueryTimeout)
	if err != nil {
		return fmt.Errorf("failed to create report dispatcher: %w", err)
	}

	var summarizer summary.Summarizer
	if app.Summary.Enabled {
		client, err := summary.NewClient(os.Getenv("OPENAI_API_KEY"), app.Summary.Model)
		if err != nil {
			return fmt.Errorf("failed to create summarizer: %w", err)
		}
		summarizer = client
	}

	engine, err := compare.NewEngine(dispatcher, summarizer)
	if err != nil {
		return fmt.Errorf("failed to create comparison engine: %w", err)
	}

	selStore, err := selections.NewFileStore(app.Selections.Path)
	if err != nil {
		return fmt.Errorf("failed to create selection store: %w", err)
	}

	api := server.NewWebAPI(server.Config{
		Addr:            net.JoinHostPort(app.Server.Host, app.Server.Port),
		ShutdownTimeout: app.Server.ShutdownTimeout,
		CORSOrigins:     app.Server.CORSOrigins,
		Dependencies: server.Dependencies{
			Dispatcher: dispatcher,
			Engine:     engine,
			Selections: selStore,
			Logger:     logger,
		},
	})

	return api.Start()
}
