// shoehive is a command-line client for shoehive game servers.
//
// Usage:
//
//	shoehive --url ws://localhost:3000 stream --verbose
//	shoehive --config configs/client.yaml send --action table:join --data '{"tableId":"t1"}'
//	shoehive version
//
// Configuration values support ${VAR} expansion; variables may be supplied
// through a .env file (see --env-file).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "shoehive:", err)
		os.Exit(1)
	}
}
