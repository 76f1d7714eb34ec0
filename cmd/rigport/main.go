package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rigport/rigport/internal/cli"
	rperrors "github.com/rigport/rigport/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c := cli.New(os.Stderr, cli.LogInfo)
	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			os.Exit(130) // SIGINT convention
		}
		fmt.Fprintln(os.Stderr, "Error:", rperrors.UserMessage(err))
		os.Exit(1)
	}
}
