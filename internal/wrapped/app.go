package wrapped

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Afrawles/jirawrapped/internal/config"
	"github.com/Afrawles/jirawrapped/internal/jira"
	"github.com/Afrawles/jirawrapped/internal/report"
)

// Application wires the config, logger, jira client and report pipeline
// together for one wrapped run.
type Application struct {
	Config *config.Config
	Logger *slog.Logger
	Client *jira.Client
	Out    io.Writer
}

func New(cfg *config.Config) (*Application, error) {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	// logs go to stderr so the report itself owns stdout
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	client, err := jira.NewClient(cfg.Jira.Server, cfg.Jira.Token)
	if err != nil {
		return nil, err
	}

	return &Application{
		Config: cfg,
		Logger: logger,
		Client: client,
		Out:    os.Stdout,
	}, nil
}

// ListFields prints every custom field on the instance so users can discover
// names for IMPORTANT_CUSTOM_FIELDS.
func (app *Application) ListFields(ctx context.Context) error {
	custom, err := app.Client.CustomFields(ctx)
	if err != nil {
		return err
	}
	app.Logger.Debug("custom fields fetched", "count", len(custom))
	fmt.Fprint(app.Out, jira.FormatFieldList(custom))
	return nil
}

// Fetch resolves the configured custom fields, pulls the user's issues for
// the wrapped timeline and aggregates them.
func (app *Application) Fetch(ctx context.Context) (*report.Summary, error) {
	cfg := app.Config

	fieldMap := jira.FieldMap{}
	if len(cfg.Jira.TrackedFields) > 0 {
		custom, err := app.Client.CustomFields(ctx)
		if err != nil {
			return nil, err
		}
		app.Logger.Debug("custom fields fetched", "count", len(custom))

		fieldMap, err = jira.ResolveFields(custom, cfg.Jira.TrackedFields)
		if err != nil {
			return nil, err
		}
	}

	source := jira.NewSource(app.Client, fieldMap, cfg.Jira.ProjectFilter)
	gen := report.NewGenerator(source)

	app.Logger.Info("generating wrapped",
		"user", cfg.Jira.Username,
		"days", cfg.Jira.TimelineDays,
		"projects", cfg.Jira.ProjectFilter,
	)

	issues, err := gen.Generate(ctx, cfg.Jira.Username, cfg.Jira.TimelineDays)
	if err != nil {
		return nil, err
	}
	app.Logger.Info("issues fetched", "count", len(issues))

	return report.Summarize(issues, cfg.Jira.TrackedFields), nil
}

// Report prints the summary and writes any configured exports.
func (app *Application) Report(s *report.Summary) error {
	cfg := app.Config

	reporter := report.NewReporter(app.Out, cfg.Report.LineLength, cfg.Verbose)
	reporter.Print(cfg.Jira.Username, cfg.Jira.TimelineDays, s)

	if len(cfg.Report.Formats) == 0 {
		return nil
	}

	exporter := report.NewExporter(cfg.Report.OutputDir)
	user := cfg.Jira.Username

	for _, format := range cfg.Report.Formats {
		var path string
		var err error

		switch format {
		case "json":
			path, err = exporter.ExportJSON(s.Issues, fmt.Sprintf("wrapped_%s.json", user))
		case "csv":
			path, err = exporter.ExportCSV(s.Issues, cfg.Jira.TrackedFields, fmt.Sprintf("wrapped_%s.csv", user))
		case "xlsx":
			excel := report.NewExcelExporter(cfg.Report.OutputDir)
			path, err = excel.Export(s, cfg.Jira.TrackedFields, fmt.Sprintf("wrapped_%s.xlsx", user))
		case "details":
			path, err = exporter.ExportDetails(s.Issues, user, cfg.Report.LineLength)
		}

		if err != nil {
			return fmt.Errorf("failed to export %s: %w", format, err)
		}
		app.Logger.Info("report exported", "format", format, "file", path)
		fmt.Fprintf(app.Out, "  -> %s\n", path)
	}

	return nil
}

// Run executes the whole pipeline once.
func (app *Application) Run(ctx context.Context) error {
	if app.Config.Jira.ListCustomFields {
		return app.ListFields(ctx)
	}

	summary, err := app.Fetch(ctx)
	if err != nil {
		return err
	}
	return app.Report(summary)
}
