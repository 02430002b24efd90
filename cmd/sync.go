package cmd

import (
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tipee-sa/vendors-upgrade-report-action/application"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Converge the pull request's comments onto the current report",
	Long: `The CI entry point. Recovers the base-revision content of each
configured lock file from the local git checkout, generates the upgrade
report, and converges the pull request's comment set: one comment per vendor,
updated in place, with stale vendors deleted.

A run where nothing changed performs zero comment API calls.`,
	SilenceUsage: true,
	RunE:         runSync,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateForSync(); err != nil {
		return err
	}

	service, err := injectSyncService(cfg)
	if err != nil {
		return err
	}

	logger.Infof("Syncing upgrade report for %s PR #%d (base %s)",
		cfg.GitHub.Repository, cfg.GitHub.PullNumber, cfg.BaseRevision)

	return service.Run(cmd.Context(), application.SyncOptions{
		ComposerLock: cfg.ComposerLock,
		YarnLocks:    cfg.YarnLocks,
	})
}
