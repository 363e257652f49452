package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"revcast/internal/analytics"
)

var forecastFlags struct {
	source   string
	method   string
	periods  int
	scenario string
	seasonal bool
	json     bool
}

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Forecast revenue for a source or for all revenue",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := forecastFlags
		req := analytics.ForecastRequest{
			SourceID: f.source,
			Method:   f.method,
			Scenario: f.scenario,
			Seasonal: f.seasonal,
		}
		if cmd.Flags().Changed("periods") {
			req.Periods = &f.periods
		}

		res, err := svc.Forecast(cmd.Context(), req)
		if err != nil {
			return err
		}

		if f.json {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}

		fmt.Printf("%s (%s, %s): trend %s, %+.1f%% per month\n\n", res.Name, res.Method, res.Scenario, res.Trend, res.GrowthRate)
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintf(w, "Period\tPredicted\tLow\tHigh\tConfidence\t\n")
		for _, p := range res.Points {
			fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%.0f%%\t\n", p.PeriodKey, p.Predicted, p.LowerBound, p.UpperBound, p.Confidence)
		}
		return w.Flush()
	},
}

func init() {
	fl := forecastCmd.Flags()
	fl.StringVarP(&forecastFlags.source, "source", "s", "", "source id (default all revenue)")
	fl.StringVarP(&forecastFlags.method, "method", "m", "", "simple, weighted, exponential or linear (default FORECAST_METHOD)")
	fl.IntVarP(&forecastFlags.periods, "periods", "p", 0, "months to forecast (default FORECAST_PERIODS)")
	fl.StringVar(&forecastFlags.scenario, "scenario", "", "conservative, baseline, optimistic or custom")
	fl.BoolVar(&forecastFlags.seasonal, "seasonal", false, "apply detected seasonal factors")
	fl.BoolVar(&forecastFlags.json, "json", false, "print the result as JSON")
}
