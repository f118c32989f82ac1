package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"lector/internal/cli"
	"lector/internal/logging"

	_ "lector/reader/kafka"
	_ "lector/reader/stdout"
	_ "lector/transform/builtin"
)

func main() {
	logging.InitFromEnv()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "lector:", err)
		stop()
		os.Exit(1)
	}
}
