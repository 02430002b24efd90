// Package gitrepo reads file contents out of a local git checkout at an
// arbitrary revision, used to recover the pre-change version of a lock file.
package gitrepo

import (
	"errors"
	"fmt"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Checkout is a local repository pinned to one base revision.
type Checkout struct {
	Path     string // Filesystem path inside the checkout
	Revision string // Revision identifier (SHA, ref name)
}

// FileAtRevision returns the content of filePath at the checkout's revision.
// The boolean is false when the file does not exist at that revision, which is
// a valid outcome (the file was added by the change under review), distinct
// from a real error.
func (c Checkout) FileAtRevision(filePath string) (string, bool, error) {
	repo, err := git.PlainOpenWithOptions(c.Path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", false, fmt.Errorf("failed to open repository at %q: %w", c.Path, err)
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(c.Revision))
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve revision %q: %w", c.Revision, err)
	}

	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return "", false, fmt.Errorf("failed to read commit %s: %w", hash, err)
	}

	file, err := commit.File(filePath)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to look up %q at %q: %w", filePath, c.Revision, err)
	}

	content, err := file.Contents()
	if err != nil {
		return "", false, fmt.Errorf("failed to read %q at %q: %w", filePath, c.Revision, err)
	}
	return content, true, nil
}
