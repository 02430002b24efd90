package cmd

import (
	"fmt"

	"go.uber.org/dig"

	"github.com/tipee-sa/vendors-upgrade-report-action/application"
	"github.com/tipee-sa/vendors-upgrade-report-action/config"
	"github.com/tipee-sa/vendors-upgrade-report-action/domain"
	githubInfra "github.com/tipee-sa/vendors-upgrade-report-action/infrastructure/github"
	"github.com/tipee-sa/vendors-upgrade-report-action/infrastructure/gitrepo"
	"github.com/tipee-sa/vendors-upgrade-report-action/infrastructure/registry"
)

// injectSyncService wires the sync service graph through a DIG container:
// config -> infrastructure clients -> application services.
func injectSyncService(cfg *config.Config) (*application.SyncService, error) {
	container := dig.New()

	providers := []interface{}{
		func() *config.Config { return cfg },
		func(c *config.Config) (*githubInfra.Client, error) {
			return githubInfra.NewClient(c.GitHub.Token, c.GitHub.Repository, c.GitHub.PullNumber)
		},
		func(c *githubInfra.Client) domain.CommentAPI { return c },
		func(c *githubInfra.Client) domain.ReleaseSource { return c },
		func() domain.SourceResolver { return registry.NewClient() },
		func(c *config.Config) application.BaseReader {
			return gitrepo.Checkout{Path: ".", Revision: c.BaseRevision}
		},
		application.NewWritePacer,
		func(comments domain.CommentAPI, pacer *application.WritePacer) *application.CommentReconciler {
			return application.NewCommentReconciler(comments, pacer)
		},
		func(resolver domain.SourceResolver, releases domain.ReleaseSource, c *config.Config) *application.ReportService {
			return application.NewReportService(resolver, releases, c.ReportScript)
		},
		application.NewSyncService,
	}

	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return nil, fmt.Errorf("failed to register provider: %w", err)
		}
	}

	var service *application.SyncService
	if err := container.Invoke(func(s *application.SyncService) {
		service = s
	}); err != nil {
		return nil, fmt.Errorf("failed to build sync service: %w", err)
	}

	return service, nil
}
