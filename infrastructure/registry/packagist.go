package registry

import (
	"encoding/json"
	"regexp"

	"github.com/tipee-sa/vendors-upgrade-report-action/domain"
)

type packagistResponse struct {
	Packages map[string][]packagistVersion `json:"packages"`
}

type packagistVersion struct {
	Version string `json:"version"`
	Source  struct {
		URL string `json:"url"`
	} `json:"source"`
	Support struct {
		Issues string `json:"issues"`
	} `json:"support"`
}

var (
	gitURLSlugPattern = regexp.MustCompile(`github\.com[:/]([^/\s]+/[^/\s]+?)(?:\.git)?$`)
	issuesSlugPattern = regexp.MustCompile(`github\.com/([^/\s]+/[^/\s]+)`)
	vPrefixPattern    = regexp.MustCompile(`^v[0-9]`)
)

// ParsePackagistSource extracts a package's source-control location from a
// Packagist metadata response. It is a pure function of the response body and
// the package identifier; the caller supplies the already-fetched body.
//
// The repository slug is taken from the newest version entry's source URL when
// it points at GitHub, falling back to a slug parsed out of the support issues
// URL. The tag prefix is "v" iff the newest entry's version string starts with
// a literal "v" followed by a digit. The boolean is false when the body is not
// valid JSON, the package key is missing, or no GitHub slug can be derived.
func ParsePackagistSource(body []byte, pkg string) (domain.PackageSource, bool) {
	var response packagistResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return domain.PackageSource{}, false
	}

	entries, ok := response.Packages[pkg]
	if !ok || len(entries) == 0 {
		return domain.PackageSource{}, false
	}

	// Packagist orders version entries newest first.
	newest := entries[0]

	slug := slugFromGitURL(newest.Source.URL)
	if slug == "" {
		slug = slugFromIssuesURL(newest.Support.Issues)
	}
	if slug == "" {
		return domain.PackageSource{}, false
	}

	tagPrefix := ""
	if vPrefixPattern.MatchString(newest.Version) {
		tagPrefix = "v"
	}

	return domain.PackageSource{RepoSlug: slug, TagPrefix: tagPrefix}, true
}

// slugFromGitURL parses "owner/repo" out of a GitHub clone URL such as
// "https://github.com/owner/repo.git" or "git@github.com:owner/repo.git".
func slugFromGitURL(url string) string {
	match := gitURLSlugPattern.FindStringSubmatch(url)
	if match == nil {
		return ""
	}
	return match[1]
}

// slugFromIssuesURL parses "owner/repo" out of a GitHub issues URL such as
// "https://github.com/owner/repo/issues".
func slugFromIssuesURL(url string) string {
	match := issuesSlugPattern.FindStringSubmatch(url)
	if match == nil {
		return ""
	}
	return match[1]
}
