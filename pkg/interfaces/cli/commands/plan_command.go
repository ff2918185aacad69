package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/vsinha/palletplan/pkg/application/services/orchestration"
	"github.com/vsinha/palletplan/pkg/application/services/planning"
	"github.com/vsinha/palletplan/pkg/infrastructure/config"
	"github.com/vsinha/palletplan/pkg/infrastructure/events"
	"github.com/vsinha/palletplan/pkg/infrastructure/logging"
	"github.com/vsinha/palletplan/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/palletplan/pkg/infrastructure/repositories/sheets"
	"github.com/vsinha/palletplan/pkg/interfaces/api"
	"github.com/vsinha/palletplan/pkg/interfaces/cli/output"
)

// Config holds configuration for the plan command. Zero values leave the
// setting from the config file or environment in place.
type Config struct {
	Input         string
	Sheet         string
	ConfigFile    string
	TargetDays    int
	ExtraArticles int
	Rounding      string
	OutputDir     string
	Format        string
	Verbose       bool
	Serve         bool
	Addr          string
	Help          bool
	// Out receives command output; nil means stdout
	Out io.Writer
}

// PlanCommand plans a single sheet or serves the HTTP API
type PlanCommand struct {
	config Config
}

// NewPlanCommand creates a new plan command with the given configuration
func NewPlanCommand(config Config) *PlanCommand {
	return &PlanCommand{
		config: config,
	}
}

// Execute runs the plan command
func (c *PlanCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	settings, err := c.loadSettings()
	if err != nil {
		return err
	}

	logCfg := settings.Log
	if c.config.Verbose {
		logCfg = logging.Verbose(logCfg)
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	planningConfig, err := settings.Planning.ToPlanningConfig()
	if err != nil {
		return fmt.Errorf("invalid planning configuration: %w", err)
	}
	planner, err := planning.NewPlanningServiceWithConfig(planningConfig, logger)
	if err != nil {
		return fmt.Errorf("failed to create planner: %w", err)
	}

	eventStore := events.NewInMemoryEventStore(logger)
	if err := eventStore.Subscribe(events.AllPlanningEvents, events.NewLogHandler(logger, events.AllPlanningEvents)); err != nil {
		return fmt.Errorf("failed to subscribe event logger: %w", err)
	}
	defer eventStore.Flush()

	orchestrator := orchestration.NewPlanningOrchestrator(
		planner,
		memory.NewPlanRepository(settings.Server.PlanRetained),
		eventStore,
		logger,
	)

	if c.config.Serve {
		router := api.NewRouter(orchestrator, logger, settings.Server.MaxUploadMB<<20)
		return api.Serve(ctx, settings.Server.Addr, router, logger)
	}

	return c.plan(ctx, orchestrator, settings.Output, logger)
}

func (c *PlanCommand) plan(
	ctx context.Context,
	orchestrator *orchestration.PlanningOrchestrator,
	out config.OutputConfig,
	logger *zap.Logger,
) error {
	sheet, columns, err := sheets.Load(c.config.Input, c.config.Sheet)
	if err != nil {
		return fmt.Errorf("error loading articles: %w", err)
	}
	logger.Debug("sheet loaded",
		zap.String("input", c.config.Input),
		zap.Int("rows", len(sheet.Records)),
		zap.Strings("columns", columns.Detected))

	startTime := time.Now()
	result, err := orchestrator.RunPlanning(ctx, c.config.Input, sheet)
	if err != nil {
		return fmt.Errorf("error planning order: %w", err)
	}
	planTime := time.Since(startTime)

	outputConfig := output.Config{
		Format:    out.Format,
		OutputDir: out.Dir,
		Verbose:   c.config.Verbose,
		PlanTime:  planTime,
		InputFile: c.config.Input,
		Out:       c.config.Out,
	}
	if err := output.Generate(result, outputConfig); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}
	return nil
}

// loadSettings reads the config file and environment, then applies flags on top
func (c *PlanCommand) loadSettings() (config.Config, error) {
	settings, err := config.Load(c.config.ConfigFile, c.config.ConfigFile == "")
	if err != nil {
		return config.Config{}, err
	}

	if c.config.TargetDays != 0 {
		settings.Planning.TargetDays = c.config.TargetDays
	}
	if c.config.ExtraArticles != 0 {
		settings.Planning.NumArticlesForExtra = c.config.ExtraArticles
	}
	if c.config.Rounding != "" {
		settings.Planning.Rounding = c.config.Rounding
	}
	if c.config.Format != "" {
		settings.Output.Format = c.config.Format
	}
	if c.config.OutputDir != "" {
		settings.Output.Dir = c.config.OutputDir
	}
	if c.config.Addr != "" {
		settings.Server.Addr = c.config.Addr
	}
	return settings, nil
}

// validateInputs validates the command configuration
func (c *PlanCommand) validateInputs() error {
	if c.config.Serve {
		return nil
	}
	if c.config.Input == "" {
		return fmt.Errorf("must specify -input with a CSV or XLSX article sheet, or -serve")
	}
	if _, err := os.Stat(c.config.Input); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", c.config.Input)
	}
	if _, err := sheets.FormatFromPath(c.config.Input); err != nil {
		return err
	}
	return nil
}

func (c *PlanCommand) out() io.Writer {
	if c.config.Out == nil {
		return os.Stdout
	}
	return c.config.Out
}

// showHelp displays the help message
func (c *PlanCommand) showHelp() {
	fmt.Fprint(c.out(), `palletplan - replenishment order planning for full-truck shipments

USAGE:
    palletplan -input <file> [options]     # Plan one article sheet
    palletplan -serve [-addr :8080]        # Serve the planning API

OPTIONS:
    -input <file>          Article sheet (.csv or .xlsx)
    -sheet <name>          Worksheet to read from a workbook (default: first)
    -config <file>         YAML configuration file (optional)
    -target-days <n>       Days of cover to plan for, 1-90 (default: 21)
    -extra-articles <n>    Articles that share the pallet top-up, 1-20 (default: 10)
    -rounding <mode>       half_up or half_even (default: half_up)
    -output <dir>          Output directory for result files (optional)
    -format <fmt>          Output format: text, json, csv, xlsx (default: text)
    -verbose               Enable debug logging and timings
    -serve                 Start the HTTP API instead of planning a file
    -addr <addr>           Listen address for -serve (default: :8080)
    -help                  Show this help message

INPUT COLUMNS (header names are matched case-insensitively):
    Articulo, Descripción de artículo, 21 días, Stock Virtual,
    CajasCapas, CajasPalet, Última venta (optional)

ENVIRONMENT:
    Every config key can be set as PALLETPLAN_<SECTION>_<KEY>, for example
    PALLETPLAN_PLANNING_TARGET_DAYS=28 or PALLETPLAN_LOG_LEVEL=debug.
    A .env file in the working directory is loaded first.

OUTPUT FILES:
    Planificacion_Pedidos_<timestamp>           Full plan
    Errores_CajasCapas_<timestamp>              Articles with zero pack sizes
    Productos_Para_Descatalogar_<timestamp>     Articles without demand
    Pedido_para_SAP_<timestamp>                 Order lines to submit

EXAMPLES:
    # Plan a sheet and print the summary
    palletplan -input pedido.xlsx

    # Write the four result workbooks
    palletplan -input pedido.xlsx -format xlsx -output results/

    # Plan four weeks of cover, top-up spread over 5 articles
    palletplan -input pedido.csv -target-days 28 -extra-articles 5 -format json
`)
}
