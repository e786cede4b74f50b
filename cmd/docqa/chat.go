package main

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"docqa/internal/corpus"
	"docqa/internal/session"
	"docqa/internal/tui"
)

func newChatCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive chat over the PDFs in the library directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, opts)
		},
	}
}

func runChat(cmd *cobra.Command, opts *rootOptions) error {
	a, err := loadApp(opts, true)
	if err != nil {
		return err
	}
	defer a.logger.Sync() //nolint:errcheck

	assistant, err := a.assistant()
	if err != nil {
		return err
	}
	lib := a.library()
	sess := session.New()
	defer sess.Close()

	// an empty library is fine, the user can /load later
	batch, err := lib.Scan(a.cfg.Library.Dir)
	switch {
	case err == nil:
		_ = sess.ReplaceCorpus(batch.Corpus, batch.StagingDir)
	case errors.Is(err, corpus.ErrNoPDFs):
		a.logger.Info("no PDFs in library", zap.String("dir", a.cfg.Library.Dir))
	default:
		return err
	}

	m := tui.New(cmd.Context(), tui.Connect(sess, assistant, lib), a.cfg.Library.Dir)
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
	return err
}
