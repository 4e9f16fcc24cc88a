package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"propertyscout/internal/report"
)

func parcelCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "parcel [address]",
		Short: "Look up Rochester tax parcels by full or partial site address",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			address := strings.Join(args, " ")
			if strings.TrimSpace(address) == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Enter Address (or part of one): ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("failed to read address: %w", err)
				}
				address = strings.TrimSpace(line)
			}
			return runParcel(cmd, root, address)
		},
	}
}

func runParcel(cmd *cobra.Command, root *rootOptions, address string) error {
	a, err := loadApp(cmd, root)
	if err != nil {
		return err
	}
	defer a.Close()

	console := report.NewConsole(cmd.OutOrStdout(), !root.noColor)
	parcels, err := a.Parcels.LookupParcels(cmd.Context(), address)
	if err != nil {
		console.LookupError(err)
		return err
	}
	console.Parcels(address, parcels)
	return nil
}
