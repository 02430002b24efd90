package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tipee-sa/vendors-upgrade-report-action/application"
	"github.com/tipee-sa/vendors-upgrade-report-action/config"
	"github.com/tipee-sa/vendors-upgrade-report-action/domain"
	githubInfra "github.com/tipee-sa/vendors-upgrade-report-action/infrastructure/github"
	"github.com/tipee-sa/vendors-upgrade-report-action/infrastructure/registry"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	fromLock     bool
	fromYarnLock bool
	reportScript string
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var generateCmd = &cobra.Command{
	Use:   "generate <oldPath> <newPath>",
	Short: "Generate the upgrade report for one lock-file pair",
	Long: `Diffs two versions of a lock file and writes the per-vendor markdown
report to stdout, enriched with the upstream release notes of every version
between the old and new pins.

Exactly one of --from-lock (composer) or --from-yarn-lock must be given.
Exits with status 2 when the diff contains no upgrades; callers must treat
that status as expected, not as failure.`,
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runGenerate,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	generateCmd.Flags().BoolVar(&fromLock, "from-lock", false,
		"Treat the inputs as composer lock manifests")
	generateCmd.Flags().BoolVar(&fromYarnLock, "from-yarn-lock", false,
		"Treat the inputs as yarn lock manifests")
	generateCmd.Flags().StringVar(&reportScript, "report-script", "",
		"Composer diff script (overrides config)")
	generateCmd.MarkFlagsMutuallyExclusive("from-lock", "from-yarn-lock")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if !fromLock && !fromYarnLock {
		return errors.New("one of --from-lock or --from-yarn-lock is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	script := cfg.ReportScript
	if reportScript != "" {
		script = reportScript
	}

	repository := cfg.GitHub.Repository
	if repository == "" {
		// Release listing works against any slug; the client just needs a
		// well-formed home repository to be constructed.
		repository = "tipee-sa/vendors-upgrade-report-action"
	}

	ghClient, err := githubInfra.NewClient(cfg.GitHub.Token, repository, cfg.GitHub.PullNumber)
	if err != nil {
		return err
	}

	reportType := domain.ReportTypeComposer
	if fromYarnLock {
		reportType = domain.ReportTypeYarn
	}

	service := application.NewReportService(registry.NewClient(), ghClient, script)
	reports, err := service.BuildPackageReports(cmd.Context(), application.LockPair{
		Type:    reportType,
		Label:   args[1],
		OldPath: args[0],
		NewPath: args[1],
	})
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		return application.ErrNoUpgrades
	}

	sections := domain.AssembleSections(reports)
	fmt.Fprintln(os.Stdout, application.RenderReport(sections))
	return nil
}

// loadConfig resolves the configuration from --config, the default search
// locations, or the bare environment.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		if found, err := config.FindConfigFile(); err == nil {
			path = found
		}
	}
	return config.Load(path)
}
