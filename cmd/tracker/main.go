package main

import (
	"fmt"
	"os"

	"job-tracker-service/internal/cli"
)

// @title Job Tracker API
// @version 1.0
// @description Reacts to finished tasks and drives raster jobs through their task flows.
// @BasePath /
func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
