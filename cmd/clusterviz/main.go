// Command clusterviz plots document embeddings colored by cluster, with the
// relations mined for each cluster shown on hover.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"clusterviz/internal/logger"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{logger: logger.New()}
	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		a.logger.Error("command failed", "err", err)
		stop()
		os.Exit(1)
	}
}
