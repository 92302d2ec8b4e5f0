// Command storefront browses the catalog and manages the local cart from a
// terminal. The cart is stored on this device and survives between runs.
package main

import (
	"context"
	"fmt"
	"os"

	"storefront/config"
	"storefront/internal/app"
	"storefront/internal/filter"
	"storefront/internal/util"

	"github.com/spf13/cobra"
)

var (
	storefront *app.App
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:           "storefront",
	Short:         "Browse products and manage your cart",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if err := util.InitLogger(cfg.Server.Env, cliLogLevel(cfg)); err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}

		a, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		storefront = a

		out := cmd.OutOrStdout()
		fc := a.Filters.Bind(filter.NavigatorFunc(func(ctx context.Context, route string) {
			printListing(out, a.Catalog, a.Filters.Selection())
		}))
		cmd.SetContext(filter.WithContext(cmd.Context(), fc))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		util.SyncLogger()
		if storefront == nil {
			return nil
		}
		err := storefront.Close()
		storefront = nil
		return err
	},
}

// cliLogLevel keeps the terminal quiet unless LOG_LEVEL asks otherwise
func cliLogLevel(cfg *config.Config) string {
	if cfg.Server.LogLevel != "" {
		return cfg.Server.LogLevel
	}
	return "warn"
}

func main() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON instead of tables")
	registerCommands(rootCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if storefront != nil {
			_ = storefront.Close()
		}
		os.Exit(1)
	}
}
