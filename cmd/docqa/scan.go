package main

import (
	"github.com/spf13/cobra"
)

func newScanCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Print the title and summary of every PDF without asking the model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(opts, false)
			if err != nil {
				return err
			}
			defer a.logger.Sync() //nolint:errcheck

			batch, err := a.library().Scan(a.cfg.Library.Dir)
			if err != nil {
				return err
			}
			printCorpus(cmd.OutOrStdout(), batch.Corpus)
			return nil
		},
	}
}
