package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sitescout/sitesim/internal/catalog"
	"github.com/sitescout/sitesim/internal/forecast"
	"github.com/sitescout/sitesim/internal/model"
)

var forecastFacilities []int

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Project the climate trajectory of a hypothetical build-out",
	Long:  "Projects warming, fossil reserves, and survivability through 2100. With --facility flags, each facility is placed on successive built-in catalog sites.",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		sites := catalog.Fallback()

		var installations []model.Installation
		for i, facilityID := range forecastFacilities {
			facility, found := model.FacilityByID(env.Facilities, facilityID)
			if !found {
				return eris.Errorf("unknown facility id %d", facilityID)
			}
			site := sites[i%len(sites)]
			enriched, _ := env.Resolver.Resolve(cmd.Context(), site)
			installations = append(installations, model.Installation{
				Site:     enriched,
				Facility: facility,
			})
		}

		proj := forecast.Run(installations)

		p := message.NewPrinter(language.English)
		p.Printf("facilities: %d, total warming contribution: %.4f°C\n",
			len(installations), proj.TotalContribution)
		p.Printf("years to survivability collapse: %d (vs %d with no facilities)\n",
			proj.YearsToCollapse, proj.YearsToCollapse+proj.YearsBoughtBack)

		p.Printf("\n%-6s %-10s %-10s %-10s\n", "year", "temp °C", "reserves", "surviv.")
		for i, pt := range proj.Points {
			if i%10 != 0 && pt.Year != forecast.EndYear {
				continue
			}
			p.Printf("%-6d %-10.2f %-10.2f %-10d\n",
				pt.Year, pt.TotalTemperature, pt.FossilFuelReserves, pt.Survivability)
		}

		return nil
	},
}

func init() {
	forecastCmd.Flags().IntSliceVar(&forecastFacilities, "facility", nil, "facility id to place (repeatable)")
	rootCmd.AddCommand(forecastCmd)
}
