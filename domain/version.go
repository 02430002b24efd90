package domain

import (
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// FilterReleasesInRange selects the releases whose version, after stripping
// tagPrefix from the tag name, lies strictly above from and at or below to,
// using semantic-version precedence (prereleases order before their release).
// Releases whose tag does not parse as a full semantic version are dropped
// silently. The result is sorted ascending by version.
func FilterReleasesInRange(releases []Release, tagPrefix, from, to string) []Release {
	fromVer, err := semver.NewVersion(from)
	if err != nil {
		return nil
	}
	toVer, err := semver.NewVersion(to)
	if err != nil {
		return nil
	}

	type versionedRelease struct {
		release Release
		version *semver.Version
	}

	var inRange []versionedRelease
	for _, release := range releases {
		bare := strings.TrimPrefix(release.TagName, tagPrefix)
		version, parseErr := semver.StrictNewVersion(bare)
		if parseErr != nil {
			continue // not in the host's canonical tag format
		}
		if version.GreaterThan(fromVer) && !version.GreaterThan(toVer) {
			inRange = append(inRange, versionedRelease{release: release, version: version})
		}
	}

	sort.SliceStable(inRange, func(i, j int) bool {
		return inRange[i].version.LessThan(inRange[j].version)
	})

	result := make([]Release, 0, len(inRange))
	for _, vr := range inRange {
		result = append(result, vr.release)
	}
	return result
}

// GreaterVersion returns the greater of two version strings by semantic-version
// ordering. An unparseable side loses to a parseable one; when both are
// unparseable the first is returned.
func GreaterVersion(a, b string) string {
	verA, errA := semver.NewVersion(a)
	verB, errB := semver.NewVersion(b)

	switch {
	case errA != nil && errB != nil:
		return a
	case errA != nil:
		return b
	case errB != nil:
		return a
	case verB.GreaterThan(verA):
		return b
	default:
		return a
	}
}
