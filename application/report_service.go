package application

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/tipee-sa/vendors-upgrade-report-action/domain"
	"github.com/tipee-sa/vendors-upgrade-report-action/infrastructure/lockfile"
)

// ErrNoUpgrades signals that a lock-file pair contains no upgrades, an
// expected outcome callers must not treat as failure.
var ErrNoUpgrades = errors.New("no upgrades between lock files")

// LockPair is one lock file in its before/after form.
type LockPair struct {
	Type          domain.ReportType
	Label         string // Repo-relative path, for logs and heading suffixes
	OldPath       string
	NewPath       string
	HeadingSuffix string // Set when several lock files share the ecosystem
}

// ReportService turns a lock-file pair into per-vendor report material:
// diff the pair, resolve each package's source repository, fetch and
// range-filter its releases.
type ReportService struct {
	resolver   domain.SourceResolver
	releases   domain.ReleaseSource
	diffScript string // External diff script for composer listings

	// Sleep is the backoff sleeper for retried fetches, injectable for tests.
	Sleep func(time.Duration)

	releaseCache map[string][]domain.Release // keyed by repo slug
}

// NewReportService creates a report service. diffScript may be empty when only
// yarn pairs will be processed.
func NewReportService(
	resolver domain.SourceResolver,
	releases domain.ReleaseSource,
	diffScript string,
) *ReportService {
	return &ReportService{
		resolver:     resolver,
		releases:     releases,
		diffScript:   diffScript,
		Sleep:        time.Sleep,
		releaseCache: make(map[string][]domain.Release),
	}
}

// BuildPackageReports diffs the pair and enriches each upgrade with upstream
// release notes. Registry absence degrades to an unenriched report entry;
// exhausted release fetches are fatal for the pair.
func (s *ReportService) BuildPackageReports(ctx context.Context, pair LockPair) ([]domain.PackageReport, error) {
	upgrades, err := s.upgrades(ctx, pair)
	if err != nil {
		return nil, err
	}
	if len(upgrades) == 0 {
		return nil, nil
	}

	logger.Infof("[%s] %s: %d upgraded packages", pair.Type, pair.Label, len(upgrades))

	reports := make([]domain.PackageReport, 0, len(upgrades))
	for _, upgrade := range upgrades {
		report := domain.PackageReport{Upgrade: upgrade, HeadingSuffix: pair.HeadingSuffix}

		source, ok, resolveErr := s.resolve(ctx, pair.Type, upgrade.Package)
		if resolveErr != nil {
			return nil, resolveErr
		}
		if !ok {
			logger.Warnf("[%s] No source repository for %s, skipping release notes",
				pair.Type, upgrade.Package)
			reports = append(reports, report)
			continue
		}

		releases, listErr := s.listReleases(ctx, source.RepoSlug)
		if listErr != nil {
			return nil, listErr
		}

		report.Source = source
		report.Releases = domain.FilterReleasesInRange(
			releases, source.TagPrefix, upgrade.FromVersion, upgrade.ToVersion,
		)
		logger.Debugf("[%s] %s: %d releases in (%s, %s]", pair.Type, upgrade.Package,
			len(report.Releases), upgrade.FromVersion, upgrade.ToVersion)

		reports = append(reports, report)
	}

	return reports, nil
}

// RenderReport concatenates vendor sections into the final markdown document.
func RenderReport(sections []domain.VendorSection) string {
	bodies := make([]string, 0, len(sections))
	for _, section := range sections {
		bodies = append(bodies, section.Body)
	}
	return strings.Join(bodies, "\n")
}

func (s *ReportService) upgrades(ctx context.Context, pair LockPair) ([]domain.Upgrade, error) {
	switch pair.Type {
	case domain.ReportTypeComposer:
		if s.diffScript == "" {
			return nil, errors.New("no composer diff script configured")
		}
		listing, err := lockfile.RunDiffScript(ctx, s.diffScript, pair.OldPath, pair.NewPath)
		if err != nil {
			return nil, err
		}
		return lockfile.ParseUpgradeListing(listing), nil

	case domain.ReportTypeYarn:
		oldText, err := os.ReadFile(pair.OldPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read %q: %w", pair.OldPath, err)
		}
		newText, err := os.ReadFile(pair.NewPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read %q: %w", pair.NewPath, err)
		}
		return lockfile.DiffManifests(
			lockfile.ParseLockManifest(string(oldText)),
			lockfile.ParseLockManifest(string(newText)),
		), nil

	default:
		return nil, fmt.Errorf("unknown report type %q", pair.Type)
	}
}

func (s *ReportService) resolve(
	ctx context.Context,
	reportType domain.ReportType,
	pkg string,
) (domain.PackageSource, bool, error) {
	if reportType == domain.ReportTypeComposer {
		return s.resolver.ResolveComposer(ctx, pkg)
	}
	return s.resolver.ResolveNpm(ctx, pkg)
}

// listReleases fetches a repository's releases under the bounded retry policy,
// memoized per slug since several packages of one vendor often share a repo.
func (s *ReportService) listReleases(ctx context.Context, repoSlug string) ([]domain.Release, error) {
	if cached, ok := s.releaseCache[repoSlug]; ok {
		return cached, nil
	}

	var releases []domain.Release
	err := Retry(fmt.Sprintf("list releases of %s", repoSlug), s.Sleep, func() error {
		var listErr error
		releases, listErr = s.releases.ListReleases(ctx, repoSlug)
		return listErr
	})
	if err != nil {
		return nil, err
	}

	s.releaseCache[repoSlug] = releases
	return releases, nil
}
