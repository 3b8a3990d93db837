package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LeonardoBeccarini/kisan_yatra/internal/scoring"
)

func newRegionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "region <location>",
		Short: "Show the priced region and the connect board a location maps to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			location := strings.Join(args, " ")
			resolver := scoring.DefaultResolver()
			prices := scoring.DefaultPriceTable()
			if path, _ := cmd.Flags().GetString("tables"); path != "" {
				cities, p, err := scoring.LoadTables(path)
				if err != nil {
					return err
				}
				resolver, prices = scoring.NewResolver(cities, p.Regions()), p
			}

			out := cmd.OutOrStdout()
			region, ok := resolver.Resolve(location)
			if !ok {
				fmt.Fprintln(out, "region: (none, default profits)")
			} else {
				fmt.Fprintf(out, "region: %s\n", region)
				if p, ok := prices.Lookup(region); ok {
					for _, crop := range []string{"Rice", "Maize", "Pulses", "Millets", "Potato"} {
						if v, ok := p.Price(crop); ok {
							fmt.Fprintf(out, "  %-8s %8.0f /quintal\n", crop, v)
						}
					}
				}
			}
			board, ok := scoring.BoardResolver().Resolve(location)
			if !ok {
				board = "unknown"
			}
			fmt.Fprintf(out, "board: %s\n", board)
			return nil
		},
	}
}
