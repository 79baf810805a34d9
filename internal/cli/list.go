package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/naveenraj44125-creator/lightsail-deploy/internal/core/catalog"
	"github.com/naveenraj44125-creator/lightsail-deploy/internal/output"
	"github.com/naveenraj44125-creator/lightsail-deploy/internal/shell/lightsail"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List supported application types, regions, blueprints, and bundles",
	Long: `List what the generator supports.

By default the static catalog is shown. With --refresh, regions,
blueprints, and bundles are fetched from the Lightsail API; the static
catalog is used as a fallback when the API is unreachable.

Examples:
  lightsail-deploy list
  lightsail-deploy list --refresh`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().Bool("refresh", false, "fetch live catalog data from the Lightsail API")
}

func runList(cmd *cobra.Command, args []string) error {
	printer, err := newPrinter()
	if err != nil {
		return err
	}

	cat := lightsail.StaticCatalog()
	refresh, _ := cmd.Flags().GetBool("refresh")
	if refresh {
		svc, err := lightsail.NewFromConfig(context.Background(), cfg.AWS, logger)
		if err != nil {
			printer.Warning("Cannot reach the Lightsail API, showing static catalog: %v", err)
		} else {
			cat = svc.FetchCatalog(context.Background())
		}
	}
	if refresh && !cat.Live {
		printer.Warning("Live refresh failed, showing static catalog")
	}

	printer.Header("Application Types")
	appTable := output.NewQuietTable([]string{"Type", "Description", "Port", "Base Dependencies"}, quiet)
	for _, p := range catalog.Profiles() {
		appTable.AddRow([]string{p.Type, p.Name, fmt.Sprintf("%d", p.Port), strings.Join(p.Dependencies, ", ")})
	}
	appTable.Render()

	printer.Header("Regions")
	regionTable := output.NewQuietTable([]string{"ID", "Name"}, quiet)
	for _, r := range cat.Regions {
		regionTable.AddRow([]string{r.ID, r.Name})
	}
	regionTable.Render()

	printer.Header("OS Blueprints")
	blueprintTable := output.NewQuietTable([]string{"ID", "Name"}, quiet)
	for _, b := range cat.Blueprints {
		blueprintTable.AddRow([]string{b.ID, b.Name})
	}
	blueprintTable.Render()

	printer.Header("Instance Bundles")
	bundleTable := output.NewQuietTable([]string{"ID", "Name", "vCPU", "Memory", "Disk", "Price/mo"}, quiet)
	for _, b := range cat.Bundles {
		bundleTable.AddRow([]string{
			b.ID,
			b.Name,
			fmt.Sprintf("%.0f", b.CPUCores),
			fmt.Sprintf("%d MB", b.MemoryMB),
			fmt.Sprintf("%d GB", b.DiskGB),
			fmt.Sprintf("$%.0f", b.PriceMonthly),
		})
	}
	bundleTable.Render()

	return nil
}
