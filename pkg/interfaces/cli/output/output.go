package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vsinha/palletplan/pkg/application/dto"
	"github.com/vsinha/palletplan/pkg/domain/entities"
	"github.com/vsinha/palletplan/pkg/infrastructure/repositories/sheets"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	PlanTime  time.Duration
	InputFile string
	// Out receives printed output; nil means stdout
	Out io.Writer
}

func (c Config) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Formats lists the supported output formats
var Formats = []string{"text", "json", "csv", "xlsx"}

// Generate creates output in the specified format
func Generate(result *dto.PlanResult, config Config) error {
	switch config.Format {
	case "text":
		return generateTextOutput(result, config)
	case "json":
		return generateJSONOutput(result, config)
	case "csv":
		return generateFileOutput(result, config, sheets.FormatCSV)
	case "xlsx":
		return generateFileOutput(result, config, sheets.FormatXLSX)
	default:
		return fmt.Errorf("unsupported output format: %s (expected: %s)", config.Format, strings.Join(Formats, ", "))
	}
}

// generateTextOutput prints a human-readable summary and the submittable order
func generateTextOutput(result *dto.PlanResult, config Config) error {
	w := config.out()

	fmt.Fprintln(w, titleStyle.Render("📊 Replenishment Plan"))
	fmt.Fprintln(w, boxStyle.Render(summaryText(result, config)))
	fmt.Fprintln(w)

	if len(result.Submittable) > 0 {
		fmt.Fprintln(w, headerStyle.Render("🚚 Order to submit:"))
		fmt.Fprintf(w, "%-15s %-30s %10s %10s %10s %10s %10s\n",
			"Article", "Description", "Base", "Extra", "Pallets", "Adjust", "Final")
		fmt.Fprintf(w, "%-15s %-30s %10s %10s %10s %10s %10s\n",
			"---------------", "------------------------------", "----------", "----------", "----------", "----------", "----------")

		for _, order := range result.Plan {
			if order.FinalOrder <= 0 {
				continue
			}
			fmt.Fprintf(w, "%-15s %-30s %10d %10d %10s %10d %10d\n",
				truncate(string(order.Article.ID), 15),
				truncate(order.Article.Description, 30),
				order.BaseOrder,
				order.AdditionalOrder,
				order.TotalPallets.StringFixed(2),
				order.Adjustment,
				order.FinalOrder)
		}
		fmt.Fprintln(w)
	}

	if len(result.Errors) > 0 {
		fmt.Fprintln(w, warningStyle.Render(fmt.Sprintf("⚠️  Packaging errors (%d):", len(result.Errors))))
		for _, order := range result.Errors {
			fmt.Fprintf(w, "  %-15s %s\n", order.Article.ID, issueNames(order.Article.PackagingIssues()))
		}
		fmt.Fprintln(w)
	}

	if len(result.DiscontinueCandidates) > 0 {
		fmt.Fprintln(w, warningStyle.Render(fmt.Sprintf("🗑  Discontinue candidates (%d):", len(result.DiscontinueCandidates))))
		for _, order := range result.DiscontinueCandidates {
			fmt.Fprintf(w, "  %-15s demand21=%s\n", order.Article.ID, order.Article.Demand21)
		}
		fmt.Fprintln(w)
	}

	if config.OutputDir != "" {
		return writeViews(result, config, sheets.FormatCSV)
	}
	return nil
}

func summaryText(result *dto.PlanResult, config Config) string {
	var b strings.Builder
	summary := result.Summary

	if config.InputFile != "" {
		fmt.Fprintf(&b, "Input: %s\n", config.InputFile)
	}
	fmt.Fprintf(&b, "Run: %s\n", result.RunID)
	fmt.Fprintf(&b, "Target days: %d   Extra articles: %d   Rounding: %s\n",
		result.Parameters.TargetDays, result.Parameters.NumArticlesForExtra, result.Parameters.Rounding)
	fmt.Fprintf(&b, "Articles: %d read, %d planned", summary.InputRows, summary.PlannedRows)
	if summary.StalenessApplied {
		fmt.Fprintf(&b, ", %d without a sale in %d days", summary.StaleDropped, result.Parameters.StaleAfterDays)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Pallets: %s ordered, %s short of %d, %s after top-up\n",
		result.Balance.TotalPallets.StringFixed(2),
		result.Balance.Shortfall.StringFixed(2),
		result.Parameters.TruckPallets,
		result.Balance.ResultingPallets.StringFixed(2))
	fmt.Fprintf(&b, "Units: %d base, %d final (%s pallets)",
		summary.TotalBaseUnits, summary.TotalFinalUnits, summary.FinalPallets.StringFixed(2))
	if config.Verbose {
		fmt.Fprintf(&b, "\nPlanned in %v", config.PlanTime)
	}
	return b.String()
}

// generateJSONOutput creates JSON output
func generateJSONOutput(result *dto.PlanResult, config Config) error {
	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Fprintln(config.out(), string(jsonData))
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, fmt.Sprintf("plan_%s.json", result.GeneratedAt.Format(dto.TimestampLayout)))
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	if config.Verbose {
		fmt.Fprintln(config.out(), successStyle.Render(fmt.Sprintf("💾 JSON results saved to: %s", filename)))
	}
	return nil
}

// generateFileOutput writes the four views as files
func generateFileOutput(result *dto.PlanResult, config Config, format sheets.Format) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for %s format", format)
	}
	return writeViews(result, config, format)
}

func writeViews(result *dto.PlanResult, config Config, format sheets.Format) error {
	paths, err := sheets.NewWriter(format).WriteAll(config.OutputDir, result)
	if err != nil {
		return fmt.Errorf("failed to write %s files: %w", format, err)
	}

	w := config.out()
	fmt.Fprintln(w, successStyle.Render(fmt.Sprintf("💾 %s results saved to:", strings.ToUpper(format.String()))))
	for _, path := range paths {
		fmt.Fprintln(w, infoStyle.Render("  "+path))
	}
	return nil
}

func issueNames(issues []entities.PackagingIssue) string {
	names := make([]string, len(issues))
	for i, issue := range issues {
		names[i] = issue.String()
	}
	return strings.Join(names, ", ")
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
