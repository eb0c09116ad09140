package main

import (
	"context"
	"fmt"
	"os"

	"innkeep/internal/interfaces/cli/worker"
)

func main() {
	if err := worker.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "worker failed: %v\n", err)
		os.Exit(1)
	}
}
