package main

import (
	"os"

	"github.com/ten-exorcism/backend/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
