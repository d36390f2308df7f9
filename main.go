package main

import (
	"context"
	"os"

	"github.com/Gravesjacob778/visualflow-assets/pkg/cli"
)

func main() {
	if err := cli.Run(context.Background(), os.Args); err != nil {
		os.Exit(1)
	}
}
