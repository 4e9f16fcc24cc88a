package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"propertyscout/internal/models"
	"propertyscout/internal/report"
)

type analyzeOptions struct {
	address     string
	targetPrice float64
	area        int
	units       int
	asking      []float64
	outDir      string
	source      string
	save        bool
	notify      bool
}

func analyzeCmd(root *rootOptions) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score the target property at one or more asking prices and write a JSON report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.address, "address", "898 South Clinton Ave, Rochester NY 14620", "target property address")
	cmd.Flags().Float64Var(&opts.targetPrice, "price", 7_190_000, "reported target price")
	cmd.Flags().IntVar(&opts.area, "area", 22_000, "target square feet")
	cmd.Flags().IntVar(&opts.units, "units", 11, "target residential units")
	cmd.Flags().Float64SliceVar(&opts.asking, "asking", []float64{3_000_000, 7_190_000}, "asking price scenario (repeatable)")
	cmd.Flags().StringVar(&opts.outDir, "out", "", "report directory (default REPORT_DIR)")
	cmd.Flags().StringVar(&opts.source, "source", "", "comparables source: static, db or auto (default COMPS_SOURCE)")
	cmd.Flags().BoolVar(&opts.save, "save", true, "store each analysis in the database")
	cmd.Flags().BoolVar(&opts.notify, "notify", false, "send a Telegram message for qualifying scores")
	return cmd
}

func runAnalyze(cmd *cobra.Command, root *rootOptions, opts *analyzeOptions) error {
	if len(opts.asking) == 0 {
		return fmt.Errorf("at least one --asking price is required")
	}
	if err := report.CheckScenarios(opts.asking); err != nil {
		return err
	}

	a, err := loadApp(cmd, root)
	if err != nil {
		return err
	}
	defer a.Close()

	engine := a.Engine
	if opts.source != "" {
		if engine, err = a.NewEngine(opts.source); err != nil {
			return err
		}
	}
	outDir := opts.outDir
	if outDir == "" {
		outDir = a.Config.Server.ReportDir
	}

	ctx := cmd.Context()
	target := models.NewTargetProperty(opts.address, opts.targetPrice, opts.area, opts.units)
	console := report.NewConsole(cmd.OutOrStdout(), !root.noColor)
	console.Header()

	analyses := make([]*models.InvestmentAnalysis, 0, len(opts.asking))
	for _, asking := range opts.asking {
		analysis, err := engine.Analyze(ctx, target, asking)
		if err != nil {
			return fmt.Errorf("scenario %s: %w", report.ScenarioKey(asking), err)
		}
		analyses = append(analyses, analysis)
	}

	for i, analysis := range analyses {
		console.Scenario(i+1, analysis)

		if opts.save {
			if _, err := a.DB.SaveAnalysis(ctx, analysis); err != nil {
				return err
			}
		}
		if opts.notify {
			if _, err := a.Telegram.NotifyAnalysis(ctx, analysis); err != nil {
				a.Logger.WithError(err).Warn("Failed to send analysis notification")
			}
		}
	}

	path, err := report.WriteInvestmentReport(outDir, analyses, analyses[0].GeneratedAt)
	if err != nil {
		return err
	}
	console.Saved(path)
	return nil
}
