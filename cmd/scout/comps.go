package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"propertyscout/internal/app"
	"propertyscout/internal/models"
)

func compsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comps",
		Short: "Manage stored comparable sales",
	}
	cmd.AddCommand(compsImportCmd(root))
	cmd.AddCommand(compsListCmd(root))
	cmd.AddCommand(compsGeocodeCmd(root))
	return cmd
}

func compsImportCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file.json]",
		Short: "Import comparables from a JSON array",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read comparables file: %w", err)
			}
			var comps []models.Property
			if err := json.Unmarshal(data, &comps); err != nil {
				return fmt.Errorf("failed to parse comparables file: %w", err)
			}

			a, err := loadApp(cmd, root)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := importComparables(a, comps)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d comparables\n", n)
			return nil
		},
	}
}

// importComparables stores comps through the batch processor in
// BATCH_MAX_SIZE chunks, stopping at the first chunk that fails.
func importComparables(a *app.App, comps []models.Property) (int, error) {
	for i := range comps {
		if err := models.ValidateComparable(comps[i]); err != nil {
			return 0, fmt.Errorf("comparable %d: %w", i, err)
		}
	}

	batchSize := a.Config.BatchProcessing.MaxBatchSize
	imported := 0
	for start := 0; start < len(comps); start += batchSize {
		end := min(start+batchSize, len(comps))
		batch := make([]*models.Property, 0, end-start)
		for i := start; i < end; i++ {
			batch = append(batch, &comps[i])
		}
		if err := a.Processor.Process(batch); err != nil {
			return imported, err
		}
		imported += len(batch)
	}
	return imported, nil
}

func compsListCmd(root *rootOptions) *cobra.Command {
	var types []string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored comparables, most recent sales first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd, root)
			if err != nil {
				return err
			}
			defer a.Close()

			records, err := a.DB.ListComparables(cmd.Context(), models.ComparableFilter{PropertyTypes: types, Limit: limit})
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No comparables stored.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ADDRESS\tPRICE\tSF\tPSF\tTYPE\tSOLD")
			for _, r := range records {
				p := r.ToProperty()
				psf, _ := p.PricePerArea()
				sold := "N/A"
				if p.SaleDate != nil {
					sold = *p.SaleDate
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t$%.2f\t%s\t%s\n", p.Address, models.FormatUSD(p.Price), p.AreaValue(), psf, p.PropertyType, sold)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringSliceVar(&types, "type", nil, "filter by property type (repeatable)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows (0 = all)")
	return cmd
}

func compsGeocodeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "geocode",
		Short: "Geocode stored comparables that have no coordinates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd, root)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.DB.UpdateMissingCoordinates(cmd.Context(), a.Geocoder)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Geocoded %d comparables\n", n)
			return nil
		},
	}
}
