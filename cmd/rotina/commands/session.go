// ABOUTME: Shared bootstrap for commands that talk to Notion
// ABOUTME: Loads config, sets up rotated logging, metrics and the API client
package commands

import (
	"io"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/JoaoVitorDomingos/automacao-rotina/internal/config"
	"github.com/JoaoVitorDomingos/automacao-rotina/internal/metrics"
	"github.com/JoaoVitorDomingos/automacao-rotina/internal/notion"
)

// Log rotation limits for --log-file.
const (
	logMaxSizeMB  = 10
	logMaxBackups = 5
	logMaxAgeDays = 28
)

type session struct {
	cfg      *config.Config
	logger   *log.Logger
	client   *notion.Client
	recorder *metrics.Recorder
	logSink  io.Closer
}

func openSession(cmd *cobra.Command) (*session, error) {
	// Load .env for the token and database ids
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	path := logFile
	if path == "" {
		path = cfg.LogFile
	}
	logger, sink := newLogger(cmd.ErrOrStderr(), path)

	recorder := metrics.NewRecorder()
	observers := notion.MultiObserver{recorder}
	if verbose {
		observers = append(observers, notion.NewLogObserver(logger))
	}

	clientCfg := notion.DefaultConfig(cfg.NotionToken)
	clientCfg.BaseURL = cfg.NotionBaseURL
	clientCfg.Version = cfg.NotionVersion
	clientCfg.Timeout = cfg.Timeout
	clientCfg.MaxRetries = cfg.MaxRetries
	clientCfg.RetryDelay = cfg.RetryDelay
	clientCfg.Observer = observers

	client, err := notion.NewClientWithConfig(clientCfg)
	if err != nil {
		_ = sink.Close()
		return nil, err
	}

	return &session{
		cfg:      cfg,
		logger:   logger,
		client:   client,
		recorder: recorder,
		logSink:  sink,
	}, nil
}

func (s *session) Close() error {
	return s.logSink.Close()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newLogger writes to stderr unless --quiet, and tees into a rotated file
// when path is set.
func newLogger(stderr io.Writer, path string) (*log.Logger, io.Closer) {
	var out io.Writer = stderr
	if quiet {
		out = io.Discard
	}
	if path == "" {
		return log.New(out, "", log.LstdFlags), nopCloser{}
	}

	rotated := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackups,
		MaxAge:     logMaxAgeDays,
	}
	return log.New(io.MultiWriter(out, rotated), "", log.LstdFlags), rotated
}
