package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"docqa/internal/service"
	"docqa/internal/session"
)

func newAskCmd(opts *rootOptions) *cobra.Command {
	var files []string
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Answer one question over the library directory or the given files",
		Long: `ask builds the corpus, prints every document summary and then the
model's answer. Without a question argument the question is read from stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(opts, false)
			if err != nil {
				return err
			}
			defer a.logger.Sync() //nolint:errcheck

			assistant, err := a.assistant()
			if err != nil {
				return err
			}
			lib := a.library()
			var batch service.Batch
			if len(files) > 0 {
				batch, err = lib.Files(files)
			} else {
				batch, err = lib.Scan(a.cfg.Library.Dir)
			}
			if err != nil {
				return err
			}
			sess := session.New()
			defer sess.Close()
			_ = sess.ReplaceCorpus(batch.Corpus, batch.StagingDir)

			out := cmd.OutOrStdout()
			printCorpus(out, batch.Corpus)

			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				fmt.Fprint(out, "Please enter your research topic or question: ")
				line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				query = strings.TrimSpace(line)
			}
			if query == "" {
				return fmt.Errorf("no question given")
			}

			answer, err := sess.Ask(cmd.Context(), assistant, query)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "\nGenerated response based on PDF documents:")
			fmt.Fprintln(out, answer)
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&files, "file", "f", nil, "PDF files to use instead of the library directory")
	return cmd
}
