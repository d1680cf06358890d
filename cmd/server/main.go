package main

import (
	"os"

	"studio/internal/cli"
	"studio/internal/logutil"
)

func main() {
	if err := cli.Execute(); err != nil {
		logutil.Errorf("%v", err)
		os.Exit(1)
	}
}
