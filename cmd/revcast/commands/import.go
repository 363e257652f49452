package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [file.jsonl]",
	Short: "Append ledger entries from a JSONL file (or stdin) and save the ledger",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = os.Stdin
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			r = f
		}

		added, err := store.Import(r)
		if err != nil {
			return err
		}
		if err := store.Save(cfg.LedgerFile); err != nil {
			return fmt.Errorf("failed to save ledger: %w", err)
		}

		log.Info().Int("added", added).Int("total", store.Count()).Str("path", cfg.LedgerFile).Msg("Entries imported")
		fmt.Printf("Imported %d entries (%d total).\n", added, store.Count())
		return nil
	},
}
