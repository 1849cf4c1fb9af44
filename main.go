package main

import (
	"context"
	"os"

	"github.com/example/wordnet/internal/cli"
)

func main() {
	if err := cli.RootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
