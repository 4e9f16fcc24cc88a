package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"propertyscout/internal/models"
)

func historyCmd(root *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent stored analyses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd, root)
			if err != nil {
				return err
			}
			defer a.Close()

			records, err := a.DB.ListAnalyses(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No analyses stored.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "RUN ID\tDATE\tADDRESS\tASKING\tSCORE\tTIER\tCOUNTER")
			for _, r := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
					r.RunID, r.CreatedAt.Format("2006-01-02 15:04"), r.Address,
					models.FormatUSD(r.AskingPrice), r.Score, r.Tier, models.FormatUSD(r.CounterOffer))
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "number of analyses to show")
	return cmd
}
