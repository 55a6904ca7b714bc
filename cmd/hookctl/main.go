package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/knowledgehooks/khook/internal/config"
	"github.com/knowledgehooks/khook/internal/gitio"
	"github.com/knowledgehooks/khook/internal/logging"
	"github.com/knowledgehooks/khook/internal/orchestrator"
	"github.com/knowledgehooks/khook/internal/ports"
)

func buildApp(flags *rootFlags) (*AppContext, func(), error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, func() {}, err
	}

	logger := logging.New(logging.Options{
		Writer:    os.Stderr,
		Level:     cfg.LogLevel,
		Human:     true,
		Component: "hookctl",
		Layer:     "cli",
	})

	orc := orchestrator.New(cfg, logger)
	app := &AppContext{Logger: logger, Orchestrator: orc}
	return app, orc.Close, nil
}

func main() {
	flags := &rootFlags{}
	rootCmd := newRootCmd(flags, buildApp)

	correlationID := gitio.NewExecutionID(time.Now())
	ctx := ports.WithCorrelationID(context.Background(), correlationID)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		code := exitWorkflowFailed
		var ee *exitError
		if errors.As(err, &ee) {
			code = ee.code
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(code)
	}
}
