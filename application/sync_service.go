package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/tipee-sa/vendors-upgrade-report-action/domain"
)

// BaseReader recovers the pre-change content of a file. The boolean is false
// when the file does not exist at the base revision.
type BaseReader interface {
	FileAtRevision(path string) (string, bool, error)
}

// SyncOptions enumerates the lock files one sync run covers.
type SyncOptions struct {
	ComposerLock string   // Primary lock manifest path, optional
	YarnLocks    []string // Secondary lock manifest paths, zero or more
}

// SyncService is the CI entry point: it snapshots the pull request's comments
// once, then processes each configured lock file sequentially — recover the
// base content, build the report, converge the comment set. One lock file
// group failing fatally does not stop the others; previously converged
// comments are left intact and an idempotent re-run recovers.
type SyncService struct {
	reports    *ReportService
	comments   domain.CommentAPI
	reconciler *CommentReconciler
	base       BaseReader

	// Sleep is the backoff sleeper for retried fetches, injectable for tests.
	Sleep func(time.Duration)
}

// NewSyncService wires a sync service from its collaborators.
func NewSyncService(
	reports *ReportService,
	comments domain.CommentAPI,
	reconciler *CommentReconciler,
	base BaseReader,
) *SyncService {
	return &SyncService{
		reports:    reports,
		comments:   comments,
		reconciler: reconciler,
		base:       base,
		Sleep:      time.Sleep,
	}
}

// Run executes one full sync cycle for the configured lock files.
func (s *SyncService) Run(ctx context.Context, opts SyncOptions) error {
	var snapshot []domain.Comment
	err := Retry("list PR comments", s.Sleep, func() error {
		var listErr error
		snapshot, listErr = s.comments.ListComments(ctx)
		return listErr
	})
	if err != nil {
		return err
	}
	logger.Infof("Fetched %d existing comments", len(snapshot))

	type group struct {
		reportType domain.ReportType
		paths      []string
	}
	groups := []group{
		{domain.ReportTypeComposer, compact([]string{opts.ComposerLock})},
		{domain.ReportTypeYarn, compact(opts.YarnLocks)},
	}

	failed := 0
	for _, g := range groups {
		if len(g.paths) == 0 {
			continue
		}
		if groupErr := s.syncGroup(ctx, g.reportType, g.paths, snapshot); groupErr != nil {
			logger.Errorf("[%s] Sync failed: %v", g.reportType, groupErr)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d lock file group(s) failed to sync", failed)
	}
	return nil
}

// syncGroup builds one merged report for all lock files of an ecosystem and
// reconciles the comments carrying that report type. The content fingerprint
// covers the current bytes of every lock file in the group, so a change
// anywhere invalidates freshness for all vendors uniformly.
func (s *SyncService) syncGroup(
	ctx context.Context,
	reportType domain.ReportType,
	paths []string,
	snapshot []domain.Comment,
) error {
	var allReports []domain.PackageReport
	hasher := sha256.New()
	diffed := 0

	for _, path := range paths {
		newContent, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %q: %w", path, err)
		}

		baseContent, found, err := s.base.FileAtRevision(path)
		if err != nil {
			return err
		}
		if !found {
			logger.Infof("[%s] %s is new at the base revision, nothing to diff", reportType, path)
			continue
		}

		oldPath, cleanup, err := writeTempFile(baseContent)
		if err != nil {
			return err
		}

		suffix := ""
		if len(paths) > 1 {
			suffix = fmt.Sprintf(" (%s)", path)
		}

		reports, buildErr := s.reports.BuildPackageReports(ctx, LockPair{
			Type:          reportType,
			Label:         path,
			OldPath:       oldPath,
			NewPath:       path,
			HeadingSuffix: suffix,
		})
		cleanup()
		if buildErr != nil {
			return buildErr
		}

		hasher.Write(newContent)
		allReports = append(allReports, reports...)
		diffed++
	}

	if diffed == 0 {
		logger.Infof("[%s] No lock file had a base version, skipping", reportType)
		return nil
	}

	contentHash := hex.EncodeToString(hasher.Sum(nil))
	sections := domain.AssembleSections(allReports)

	return s.reconciler.Reconcile(ctx, reportType, snapshot, sections, contentHash)
}

// writeTempFile stores content in a temporary file and returns its path with a
// cleanup function.
func writeTempFile(content string) (string, func(), error) {
	file, err := os.CreateTemp("", "vendors-report-base-*.lock")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := file.WriteString(content); err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return "", nil, fmt.Errorf("failed to close temp file: %w", err)
	}

	path := file.Name()
	return path, func() { os.Remove(path) }, nil
}

func compact(paths []string) []string {
	var out []string
	for _, p := range paths {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
