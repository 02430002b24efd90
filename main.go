package main

import (
	"errors"
	"fmt"
	"os"

	logger "github.com/sirupsen/logrus"

	"github.com/tipee-sa/vendors-upgrade-report-action/application"
	"github.com/tipee-sa/vendors-upgrade-report-action/cmd"
)

// Exit statuses of the generate command. noUpgradesExitCode signals an empty
// diff: expected, not a failure.
const (
	errorExitCode      = 1
	noUpgradesExitCode = 2
)

func main() {
	//nolint:exhaustruct // Minimal TextFormatter initialization with required fields only
	logger.SetFormatter(&logger.TextFormatter{
		FullTimestamp: true,
	})
	logger.SetOutput(os.Stderr)

	if err := cmd.Execute(); err != nil {
		if errors.Is(err, application.ErrNoUpgrades) {
			logger.Info("No upgrades detected")
			os.Exit(noUpgradesExitCode)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(errorExitCode)
	}
}
