package main

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"docqa/internal/config"
	"docqa/internal/corpus"
	"docqa/internal/domain"
	"docqa/internal/extract"
	"docqa/internal/llm/openai"
	"docqa/internal/logger"
	"docqa/internal/prompt"
	"docqa/internal/service"
	"docqa/internal/summarizer"
)

// app holds what every command needs: configuration and a logger.
type app struct {
	cfg     *config.AppConfig
	cfgPath string
	logger  *zap.Logger
}

// loadApp reads the configuration. When logToFile is set the logger writes to
// a file next to the config so it does not draw over the terminal UI.
func loadApp(opts *rootOptions, logToFile bool) (*app, error) {
	var (
		cfg  *config.AppConfig
		path = opts.configPath
		err  error
	)
	if path == "" {
		cfg, path, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.dir != "" {
		cfg.Library.Dir = opts.dir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var l *zap.Logger
	if logToFile {
		file := cfg.Log.File
		if file == "" {
			file = filepath.Join(filepath.Dir(path), "docqa.log")
		}
		l, err = logger.NewFile(file, cfg.Log.Level)
	} else {
		l, err = logger.New(cfg.Log.Debug, cfg.Log.Level)
	}
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, cfgPath: path, logger: l}, nil
}

func (a *app) library() *service.Library {
	ext := extract.NewPDFExtractor(a.cfg.Extract.MaxPages, a.logger.Named("extract"))
	sum := summarizer.NewPrefixSummarizer(a.cfg.Summarizer.MaxLength)
	b := corpus.NewBuilder(ext, sum, a.cfg.Summarizer.InputChars, a.logger.Named("corpus"))
	return service.NewLibrary(b, a.cfg.Library.StagingDir, a.logger)
}

func (a *app) assistant() (*service.Assistant, error) {
	c := a.cfg.Completion
	client, err := openai.NewClient(openai.Config{
		BaseURL:   c.BaseURL,
		APIKeyEnv: c.APIKeyEnv,
		Model:     c.Model,
		Timeout:   c.Timeout(),
		Sampling: openai.Sampling{
			Temperature:      c.Temperature,
			TopP:             c.TopP,
			MaxTokens:        c.MaxTokens,
			FrequencyPenalty: c.FrequencyPenalty,
			PresencePenalty:  c.PresencePenalty,
		},
		Retry: openai.Retry{
			Attempts: c.Retry.Attempts,
			Delay:    time.Duration(c.Retry.DelayMs) * time.Millisecond,
			MaxDelay: time.Duration(c.Retry.MaxDelayMs) * time.Millisecond,
		},
	}, a.logger)
	if err != nil {
		return nil, fmt.Errorf("completion client init failed: %w", err)
	}
	prompts := prompt.NewAssembler(a.cfg.Prompt.SampleChars, prompt.Limits{
		MaxDocuments: a.cfg.Prompt.MaxDocuments,
		MaxChars:     a.cfg.Prompt.MaxChars,
	})
	return service.NewAssistant(client, prompts, a.logger.Named("assistant")), nil
}

// printCorpus lists documents the way the one-shot mode reports them.
func printCorpus(w io.Writer, c domain.Corpus) {
	fmt.Fprintf(w, "\n%s\n", service.ProcessedMessage(len(c)))
	for i, doc := range c {
		fmt.Fprintf(w, "%d. %s\n", i+1, doc.Title)
		fmt.Fprintf(w, "   Summary: %s\n\n", doc.Summary)
	}
}
