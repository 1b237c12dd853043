package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"finreport/internal/app"
	"finreport/internal/chart"
	"finreport/internal/config"
	"finreport/internal/export"
	"finreport/internal/model"
	"finreport/internal/service"
)

var (
	metric    = flag.String("metric", string(model.MetricRevenue), "bar chart metric: revenue, operating_expense or net_profit")
	outputDir = flag.String("out", "", "output directory for charts.html and summary.xlsx (overrides OUTPUT_DIR)")
)

func main() {
	flag.Parse()

	cfg, err := config.Load("configs/.env")
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}

	opts := app.ReportOptions(cfg)
	if opts.Metric, err = model.ParseMetric(*metric); err != nil {
		log.Fatalf("Invalid -metric: %v", err)
	}

	if err := run(context.Background(), cfg, opts); err != nil {
		log.Fatalf("Report failed: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config, opts service.ReportOptions) error {
	svc, err := app.NewServices(cfg)
	if err != nil {
		return err
	}
	report, err := svc.Reports.Build(ctx, opts)
	if err != nil {
		return err
	}

	fmt.Printf("Interesting Fact: %s\n", report.Fact.Sentence())
	fmt.Println("\nSummary Table (in Million IDR):")
	if err := service.WriteSummary(os.Stdout, report.Summary); err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	chartsPath := filepath.Join(cfg.OutputDir, "charts.html")
	out, err := os.Create(chartsPath)
	if err != nil {
		return err
	}
	if err := chart.Render(out, report.Bar, report.Pie); err != nil {
		out.Close()
		return fmt.Errorf("failed to render charts: %w", err)
	}
	if err := out.Close(); err != nil {
		return err
	}

	wb, err := export.Workbook(report)
	if err != nil {
		return err
	}
	defer wb.Close()
	summaryPath := filepath.Join(cfg.OutputDir, "summary.xlsx")
	if err := wb.SaveAs(summaryPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	log.Printf("Report %s written to %s and %s", report.RunID, chartsPath, summaryPath)
	return nil
}
