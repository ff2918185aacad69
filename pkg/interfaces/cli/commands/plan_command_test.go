package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sheetCSV = "Articulo;Descripción de artículo;21 días;Stock Virtual;CajasCapas;CajasPalet\n" +
	"A;Article A;100;0;10;100\n" +
	"B;Article B;200;0;12;120\n" +
	"C;Article C;300;0;15;150\n" +
	"D;Article D;400;0;20;200\n" +
	"E;Article E;500;0;25;250\n"

func writeSheet(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pedido.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write sheet: %v", err)
	}
	return path
}

func TestPlanCommand_JSON(t *testing.T) {
	var buf bytes.Buffer
	cmd := NewPlanCommand(Config{
		Input:         writeSheet(t, sheetCSV),
		ExtraArticles: 3,
		Format:        "json",
		Out:           &buf,
	})

	if err := cmd.Execute(context.Background()); err != nil {
		t.Fatalf("Failed to execute: %v", err)
	}

	var decoded struct {
		Parameters struct {
			TargetDays          int `json:"target_days"`
			NumArticlesForExtra int `json:"num_articles_for_extra"`
		} `json:"parameters"`
		Submittable []map[string]any `json:"submittable"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Output is not JSON: %v", err)
	}
	if decoded.Parameters.TargetDays != 21 {
		t.Errorf("Expected default target days 21, got %d", decoded.Parameters.TargetDays)
	}
	if decoded.Parameters.NumArticlesForExtra != 3 {
		t.Errorf("Expected 3 extra articles, got %d", decoded.Parameters.NumArticlesForExtra)
	}
	if len(decoded.Submittable) != 5 {
		t.Errorf("Expected 5 submittable lines, got %d", len(decoded.Submittable))
	}
}

func TestPlanCommand_WritesFiles(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	cmd := NewPlanCommand(Config{
		Input:     writeSheet(t, sheetCSV),
		Format:    "xlsx",
		OutputDir: dir,
		Out:       &buf,
	})

	if err := cmd.Execute(context.Background()); err != nil {
		t.Fatalf("Failed to execute: %v", err)
	}

	files, _ := filepath.Glob(filepath.Join(dir, "Pedido_para_SAP_*.xlsx"))
	if len(files) != 1 {
		t.Errorf("Expected one submittable workbook, got %d", len(files))
	}
}

func TestPlanCommand_ConfigFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "palletplan.yaml")
	yaml := "planning:\n  target_days: 28\noutput:\n  format: json\n"
	if err := os.WriteFile(configPath, []byte(yaml), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	var buf bytes.Buffer
	cmd := NewPlanCommand(Config{Input: writeSheet(t, sheetCSV), ConfigFile: configPath, Out: &buf})
	if err := cmd.Execute(context.Background()); err != nil {
		t.Fatalf("Failed to execute: %v", err)
	}

	if !strings.Contains(buf.String(), `"target_days": 28`) {
		t.Errorf("Expected target days from config file in output")
	}
}

func TestPlanCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{"no input", Config{}, "must specify -input"},
		{"missing file", Config{Input: "/nonexistent/pedido.csv"}, "input file not found"},
		{"bad target days", Config{Input: writeSheet(t, sheetCSV), TargetDays: 120}, "target_days"},
		{"bad rounding", Config{Input: writeSheet(t, sheetCSV), Rounding: "ceiling"}, "rounding"},
		{"missing columns", Config{Input: writeSheet(t, "Articulo;CajasCapas\nA;10\n")}, "missing required fields"},
		{"unknown format", Config{Input: writeSheet(t, sheetCSV), Format: "pdf"}, "unsupported output format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.config.Out = &bytes.Buffer{}
			err := NewPlanCommand(tt.config).Execute(context.Background())
			if err == nil {
				t.Fatalf("Expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestPlanCommand_Help(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPlanCommand(Config{Help: true, Out: &buf}).Execute(context.Background()); err != nil {
		t.Fatalf("Failed to show help: %v", err)
	}
	if !strings.Contains(buf.String(), "USAGE:") {
		t.Errorf("Expected usage in help output")
	}
}
