package commands

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"revcast/internal/report"
)

var summaryStyle string

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the year-to-date report to the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := report.Collect(cmd.Context(), svc)
		if err != nil {
			return err
		}
		md := report.Markdown(data)

		style := summaryStyle
		if style == "" && !isatty.IsTerminal(os.Stdout.Fd()) {
			style = "notty"
		}
		out, err := report.Terminal(md, style)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	summaryCmd.Flags().StringVar(&summaryStyle, "style", "", "glamour style: dark, light, notty, ascii (default detected)")
}
