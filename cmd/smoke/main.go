package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/k-javaman/my-practices/internal/tools/smoke"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := smoke.NewRootCommand().ExecuteContext(ctx); err != nil {
		if smoke.IsCheckFailure(err) {
			stop()
			os.Exit(smoke.ExitFailure)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
