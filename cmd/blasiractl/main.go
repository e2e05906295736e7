package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

var goEnv = "development"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	c := newCLI(os.Stdout, os.Stderr)
	if err := newRootCmd(c).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, userMessage(err))
		c.close()
		os.Exit(1)
	}
	c.close()
}
