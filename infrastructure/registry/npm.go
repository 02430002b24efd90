package registry

import (
	"encoding/json"
	"regexp"

	"github.com/tipee-sa/vendors-upgrade-report-action/domain"
)

type npmResponse struct {
	Repository struct {
		URL string `json:"url"`
	} `json:"repository"`
}

// npmRepoSlugPattern matches the GitHub slug inside the git URL forms found in
// npm metadata: "git+https://github.com/o/r.git", "git://github.com/o/r.git",
// "git+ssh://git@github.com/o/r.git", or a plain https URL.
var npmRepoSlugPattern = regexp.MustCompile(`github\.com[:/]([^/\s]+/[^/\s#]+?)(?:\.git)?(?:#.*)?$`)

// ParseNpmSource extracts a package's source-control location from an npm
// registry metadata response. Pure function of the response body. The boolean
// is false when the body is not valid JSON, the repository URL field is
// missing, or the URL does not point at GitHub. Resolved packages default to
// the "v" tag prefix, the npm ecosystem convention.
func ParseNpmSource(body []byte) (domain.PackageSource, bool) {
	var response npmResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return domain.PackageSource{}, false
	}

	match := npmRepoSlugPattern.FindStringSubmatch(response.Repository.URL)
	if match == nil {
		return domain.PackageSource{}, false
	}

	return domain.PackageSource{RepoSlug: match[1], TagPrefix: "v"}, true
}
