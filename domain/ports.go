package domain

import "context"

// CommentAPI abstracts the comment surface of one pull request. Implementations
// handle authentication and pagination; callers see the flat comment set.
type CommentAPI interface {
	// ListComments returns every comment on the pull request, ordered by ID ascending.
	ListComments(ctx context.Context) ([]Comment, error)

	// CreateComment posts a new comment and returns its ID.
	CreateComment(ctx context.Context, body string) (int64, error)

	// UpdateComment replaces the body of an existing comment.
	UpdateComment(ctx context.Context, id int64, body string) error

	// DeleteComment removes an existing comment.
	DeleteComment(ctx context.Context, id int64) error
}

// ReleaseSource lists the published releases of a source-control repository,
// most recent first.
type ReleaseSource interface {
	ListReleases(ctx context.Context, repoSlug string) ([]Release, error)
}

// SourceResolver maps a package identifier to its source-control location by
// querying a public package registry. The boolean is false when the package
// cannot be resolved — a valid outcome, distinct from a transport error.
type SourceResolver interface {
	// ResolveComposer resolves a PHP package through Packagist.
	ResolveComposer(ctx context.Context, pkg string) (PackageSource, bool, error)

	// ResolveNpm resolves a JavaScript package through the npm registry.
	ResolveNpm(ctx context.Context, pkg string) (PackageSource, bool, error)
}
