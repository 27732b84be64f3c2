// Command mock-backend serves deterministic synthetic answers for every
// prediction endpoint, for local development and end-to-end tests.
package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/agbru/stockbot/internal/logging"
	"github.com/agbru/stockbot/internal/mockbackend"
	"github.com/agbru/stockbot/internal/server"
)

const defaultAddr = ":8000"

func main() {
	logger := logging.NewConsoleLogger(os.Stderr, "mock-backend", logging.ParseLevel(os.Getenv("STOCKBOT_LOG_LEVEL")))

	addr := os.Getenv("STOCKBOT_MOCK_ADDR")
	if addr == "" {
		addr = defaultAddr
	}
	var opts mockbackend.Options
	if seed := os.Getenv("STOCKBOT_MOCK_SEED"); seed != "" {
		v, err := strconv.ParseInt(seed, 10, 64)
		if err != nil {
			logger.Error("invalid STOCKBOT_MOCK_SEED", err)
			os.Exit(1)
		}
		opts.Seed = v
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend := mockbackend.New(opts, logger)
	srv := server.New("mock-backend", addr, backend.Router(), logger)
	logger.Info("mock back end listening", logging.String("addr", addr))
	if err := srv.ListenAndServe(ctx); err != nil {
		logger.Error("mock back end stopped", err)
		os.Exit(1)
	}
}
