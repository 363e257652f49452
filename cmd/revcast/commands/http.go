package commands

import (
	"github.com/spf13/cobra"

	"revcast/internal/api"
)

var httpAddr string

var httpCmd = &cobra.Command{
	Use:   "http",
	Short: "Serve the JSON API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.HTTPAddr
		if httpAddr != "" {
			addr = httpAddr
		}
		router := api.NewRouter(api.NewHandler(svc, cfg.LedgerFile))
		return api.Serve(cmd.Context(), addr, router)
	},
}

func init() {
	httpCmd.Flags().StringVar(&httpAddr, "addr", "", "listen address (default HTTP_ADDR)")
}
