package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sitescout/sitesim/internal/catalog"
	"github.com/sitescout/sitesim/internal/scoring"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <site-id>",
	Short: "Resolve and score one site",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		siteID := args[0]
		sites := catalog.Load(cmd.Context(), env.Client).Sites()

		for _, record := range sites {
			if record.ID != siteID {
				continue
			}

			enriched, degraded := env.Resolver.Resolve(cmd.Context(), record)

			p := message.NewPrinter(language.English)
			p.Printf("%s (%s)\n", enriched.Name, enriched.ID)
			p.Printf("  coordinates:   (%.4f, %.4f)\n", enriched.Coordinates.Lat, enriched.Coordinates.Lng)
			p.Printf("  land cost:     $%d\n", enriched.LandCost)
			p.Printf("  climate:       %d\n", enriched.Climate)
			p.Printf("  renewable:     %d\n", enriched.Renewable)
			p.Printf("  grid:          %d\n", enriched.Grid)
			p.Printf("  risk:          %d\n", enriched.Risk)
			p.Printf("  overall score: %.1f\n", scoring.OverallScore(&enriched))
			p.Printf("  electricity:   %s\n", enriched.ElectricityCost)
			p.Printf("  connectivity:  %s\n", enriched.Connectivity)
			p.Printf("  water:         %s\n", enriched.WaterAvailability)
			p.Printf("  incentives:    %s\n", enriched.TaxIncentives)
			p.Printf("  zoning:        %s\n", enriched.ZoneType)
			p.Printf("  %s\n", enriched.Description)
			if degraded {
				p.Printf("  (detail source unavailable, values are estimates)\n")
			}
			return nil
		}

		return eris.Errorf("unknown site id %q", siteID)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
