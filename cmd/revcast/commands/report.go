package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"revcast/internal/report"
)

var reportFlags struct {
	html bool
	out  string
	open bool
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write the report as Markdown or HTML",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := reportFlags
		data, err := report.Collect(cmd.Context(), svc)
		if err != nil {
			return err
		}
		md := report.Markdown(data)

		asHTML := f.html || f.open
		content := []byte(md)
		if asHTML {
			if content, err = report.HTML(data.Title, md); err != nil {
				return err
			}
		}

		out := f.out
		if out == "" {
			ext := ".md"
			if asHTML {
				ext = ".html"
			}
			out = filepath.Join(cfg.DataPath, "reports", fmt.Sprintf("revenue-%d%s", data.FiscalYear, ext))
		}
		if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(out, content, 0644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		log.Info().Str("path", out).Msg("Report written")
		fmt.Println(out)

		if f.open {
			return browser.OpenFile(out)
		}
		return nil
	},
}

func init() {
	fl := reportCmd.Flags()
	fl.BoolVar(&reportFlags.html, "html", false, "render HTML instead of Markdown")
	fl.StringVarP(&reportFlags.out, "out", "o", "", "output file (default <DATA_PATH>/reports/revenue-<year>.<ext>)")
	fl.BoolVar(&reportFlags.open, "open", false, "render HTML and open it in the browser")
}
