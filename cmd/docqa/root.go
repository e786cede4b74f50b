package main

import (
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	dir        string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "docqa",
		Short: "Ask questions about a folder of PDF documents",
		Long: `docqa extracts text from PDF documents, summarizes each one and asks
a chat model which documents are relevant to your question.

Without a subcommand it starts the interactive chat.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to YAML config file (optional; uses ~/.config/docqa/config.yaml if not provided)")
	root.PersistentFlags().StringVarP(&opts.dir, "dir", "d", "", "Directory of PDF documents (overrides library.dir)")

	root.AddCommand(
		newChatCmd(opts),
		newAskCmd(opts),
		newScanCmd(opts),
		newServeCmd(opts),
	)
	return root
}
