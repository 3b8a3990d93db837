// kisanctl scores soil readings locally, resolves locations and simulates a farm
// posting readings to the recommendation service.
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "kisanctl",
		Short:         "KisanYatra crop recommendation toolkit",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("tables", "", "YAML region table overriding the built-in prices and city hints")
	root.AddCommand(newRecommendCmd(), newRegionCmd(), newSimulateCmd())
	return root
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
