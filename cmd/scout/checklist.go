package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"propertyscout/internal/models"
	"propertyscout/internal/report"
)

func checklistCmd(root *rootOptions) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "checklist",
		Short: "Generate the due-diligence checklist for the target listing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd, root)
			if err != nil {
				return err
			}
			defer a.Close()

			records, err := a.DB.ListComparables(cmd.Context(), models.ComparableFilter{})
			if err != nil {
				return err
			}
			comps := make([]models.Property, 0, len(records))
			for _, r := range records {
				comps = append(comps, r.ToProperty())
			}

			if outDir == "" {
				outDir = a.Config.Server.ReportDir
			}
			r := report.GenerateChecklist(a.ChecklistTarget(), comps, time.Now())
			path, err := report.WriteChecklist(outDir, r)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Report saved: %s\n", path)
			data, err := json.MarshalIndent(r, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "report directory (default REPORT_DIR)")
	return cmd
}
