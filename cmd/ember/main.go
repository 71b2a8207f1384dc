package main

import (
	"fmt"
	"os"

	"github.com/pmadden/ember/internal/cmd"
	"github.com/pmadden/ember/internal/report"
)

func main() {
	rootCmd := cmd.NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		if output := report.ToolOutput(err); output != "" {
			fmt.Fprint(os.Stderr, output)
		}
		fmt.Fprintln(os.Stderr, report.Failure(err))
		os.Exit(report.ExitCode(err))
	}
}
