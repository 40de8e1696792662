package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marketoracle/oracle/internal/feature"
	"github.com/marketoracle/oracle/internal/market"
)

func newFeaturesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "features",
		Short: "List registered feature calculators",
		RunE: func(cmd *cobra.Command, args []string) error {
			calcs := feature.DefaultCalculators()

			var category feature.Category
			for _, c := range calcs {
				if c.Category() != category {
					category = c.Category()
					fmt.Printf("\n%s\n", category)
				}
				scope := "all markets"
				if !c.Applicable(market.Spot) {
					scope = "derivatives only"
				}
				fmt.Printf("  %-22s %s\n", c.Name(), scope)
			}
			fmt.Printf("\n%d calculators registered\n", len(calcs))
			return nil
		},
	}
}
