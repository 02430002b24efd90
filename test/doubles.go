// Package testdoubles provides test doubles (spies, stubs, dummies) for domain
// interfaces. These are hand-crafted implementations — no mock frameworks.
package testdoubles

import (
	"context"
	"errors"

	"github.com/tipee-sa/vendors-upgrade-report-action/domain"
)

// ---------------------------------------------------------------------------
// SpyCommentAPI
// ---------------------------------------------------------------------------

// SpyCommentAPI implements domain.CommentAPI as a configurable spy. Configure
// the response fields for the methods your test exercises, then inspect the
// call-tracking fields to verify behavior.
type SpyCommentAPI struct {
	// --- ListComments ---
	Comments []domain.Comment
	ListErr  error
	// spy: number of list calls
	ListCalls int

	// --- CreateComment ---
	CreateErr error
	NextID    int64
	// spy: bodies received
	CreatedBodies []string

	// --- UpdateComment ---
	UpdateErr error
	// spy: updates received
	UpdatedIDs    []int64
	UpdatedBodies []string

	// --- DeleteComment ---
	DeleteErr error
	// spy: IDs received
	DeletedIDs []int64

	// FailuresBeforeSuccess makes every write fail this many times before
	// succeeding, to exercise the retry policy.
	FailuresBeforeSuccess int
	failures              int
}

var _ domain.CommentAPI = (*SpyCommentAPI)(nil)

func (s *SpyCommentAPI) ListComments(_ context.Context) ([]domain.Comment, error) {
	s.ListCalls++
	return s.Comments, s.ListErr
}

func (s *SpyCommentAPI) CreateComment(_ context.Context, body string) (int64, error) {
	if err := s.maybeFail(s.CreateErr); err != nil {
		return 0, err
	}
	s.CreatedBodies = append(s.CreatedBodies, body)
	s.NextID++
	return s.NextID, nil
}

func (s *SpyCommentAPI) UpdateComment(_ context.Context, id int64, body string) error {
	if err := s.maybeFail(s.UpdateErr); err != nil {
		return err
	}
	s.UpdatedIDs = append(s.UpdatedIDs, id)
	s.UpdatedBodies = append(s.UpdatedBodies, body)
	return nil
}

func (s *SpyCommentAPI) DeleteComment(_ context.Context, id int64) error {
	if err := s.maybeFail(s.DeleteErr); err != nil {
		return err
	}
	s.DeletedIDs = append(s.DeletedIDs, id)
	return nil
}

// WriteCount returns the total number of successful write operations.
func (s *SpyCommentAPI) WriteCount() int {
	return len(s.CreatedBodies) + len(s.UpdatedIDs) + len(s.DeletedIDs)
}

func (s *SpyCommentAPI) maybeFail(configured error) error {
	if configured != nil {
		return configured
	}
	if s.failures < s.FailuresBeforeSuccess {
		s.failures++
		return errors.New("transient comment API failure")
	}
	return nil
}

// ---------------------------------------------------------------------------
// StubSourceResolver
// ---------------------------------------------------------------------------

// StubSourceResolver implements domain.SourceResolver from a fixed table of
// package -> source. Packages missing from the table resolve as absent.
type StubSourceResolver struct {
	Sources map[string]domain.PackageSource
	Err     error
}

var _ domain.SourceResolver = (*StubSourceResolver)(nil)

func (s *StubSourceResolver) ResolveComposer(_ context.Context, pkg string) (domain.PackageSource, bool, error) {
	return s.lookup(pkg)
}

func (s *StubSourceResolver) ResolveNpm(_ context.Context, pkg string) (domain.PackageSource, bool, error) {
	return s.lookup(pkg)
}

func (s *StubSourceResolver) lookup(pkg string) (domain.PackageSource, bool, error) {
	if s.Err != nil {
		return domain.PackageSource{}, false, s.Err
	}
	source, ok := s.Sources[pkg]
	return source, ok, nil
}

// ---------------------------------------------------------------------------
// StubReleaseSource
// ---------------------------------------------------------------------------

// StubReleaseSource implements domain.ReleaseSource from a fixed table of
// repo slug -> releases.
type StubReleaseSource struct {
	Releases map[string][]domain.Release
	Err      error
	// spy: slugs requested
	RequestedSlugs []string
}

var _ domain.ReleaseSource = (*StubReleaseSource)(nil)

func (s *StubReleaseSource) ListReleases(_ context.Context, repoSlug string) ([]domain.Release, error) {
	s.RequestedSlugs = append(s.RequestedSlugs, repoSlug)
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Releases[repoSlug], nil
}

// ---------------------------------------------------------------------------
// StubBaseReader
// ---------------------------------------------------------------------------

// StubBaseReader implements application.BaseReader from a fixed table of
// path -> base-revision content. Paths missing from the table read as absent.
type StubBaseReader struct {
	Files map[string]string
	Err   error
}

func (s *StubBaseReader) FileAtRevision(path string) (string, bool, error) {
	if s.Err != nil {
		return "", false, s.Err
	}
	content, ok := s.Files[path]
	return content, ok, nil
}
