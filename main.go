package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/goto/salt/audit"

	"github.com/goto/truora/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = audit.WithActor(ctx, os.Getenv("USER"))

	if err := cli.New().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
