package main

import (
	"github.com/urfave/cli/v2"

	"github.com/osse101/luckydraw/internal/config"
)

func runCheckEnv(_ *cli.Context) error {
	PrintHeader("Checking environment")
	warnings, err := config.ValidateEnvWithWarnings()
	if err != nil {
		return err
	}
	for _, w := range warnings {
		PrintWarning("%s", w)
	}
	PrintSuccess("Environment looks valid")
	return nil
}
