// Command ghx extracts a single file or directory of a GitHub
// repository without cloning it.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/ghx-dev/ghx/internal/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	log.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
