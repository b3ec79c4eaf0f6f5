package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sitescout/sitesim/internal/catalog"
)

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "List catalog and candidate sites",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		result := catalog.Load(cmd.Context(), env.Client)

		p := message.NewPrinter(language.English)
		for _, adv := range result.Advisories {
			p.Printf("warning: %s\n", adv)
		}

		p.Printf("catalog sites (%d):\n", len(result.Catalog))
		for _, site := range result.Catalog {
			p.Printf("  %-12s %-24s (%.4f, %.4f)\n", site.ID, site.Name, site.Coordinates.Lat, site.Coordinates.Lng)
		}

		if len(result.Candidates) > 0 {
			p.Printf("\ncandidate sites (%d):\n", len(result.Candidates))
			for _, site := range result.Candidates {
				p.Printf("  %-12s %-24s (%.4f, %.4f)\n", site.ID, site.Name, site.Coordinates.Lat, site.Coordinates.Lng)
			}
		}

		return nil
	},
}

var facilitiesCmd = &cobra.Command{
	Use:   "facilities",
	Short: "List buildable facility types",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		p := message.NewPrinter(language.English)
		for _, f := range env.Facilities {
			p.Printf("%d  %-32s $%d  efficiency %d  capacity %d  carbon %.1f\n",
				f.ID, f.Name, f.Cost, f.EnergyEfficiency, f.Capacity, f.CarbonImpact)
			if f.Description != "" {
				fmt.Printf("   %s\n", f.Description)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sitesCmd)
	rootCmd.AddCommand(facilitiesCmd)
}
