package domain

import "strings"

// ReportType identifies the ecosystem a report belongs to. It is embedded in
// every comment marker so that reports for different lock-file ecosystems can
// coexist on the same pull request without interfering.
type ReportType string

const (
	ReportTypeComposer ReportType = "composer"
	ReportTypeYarn     ReportType = "yarn"
)

// Upgrade represents one dependency bump detected between two versions of a
// lock file.
type Upgrade struct {
	Package     string // Full package identifier (e.g. "symfony/console", "@babel/core")
	FromVersion string // Resolved version before the change
	ToVersion   string // Resolved version after the change
}

// PackageSource is the canonical source-control location of a package,
// resolved once per package per run from a public registry.
type PackageSource struct {
	RepoSlug  string // "owner/name" on the source-control host
	TagPrefix string // "" or "v", matching the repository's release tag convention
}

// Release is one published release of an upstream repository.
type Release struct {
	TagName string
	Body    string // Release notes as markdown
}

// VendorSection is the rendered markdown for one vendor, prefixed with its
// boundary marker.
type VendorSection struct {
	Vendor string
	Body   string
}

// Comment is a pull request comment as seen through the comment API.
type Comment struct {
	ID   int64
	Body string
}

// VendorName returns the grouping key for a package identifier: the segment
// before the first "/" (which keeps a leading "@scope" intact), or the whole
// identifier when it is unscoped.
func VendorName(pkg string) string {
	if idx := strings.Index(pkg, "/"); idx >= 0 {
		return pkg[:idx]
	}
	return pkg
}
