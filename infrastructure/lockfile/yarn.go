package lockfile

import (
	"regexp"
	"sort"
	"strings"

	"github.com/tipee-sa/vendors-upgrade-report-action/domain"
)

// versionLinePattern matches the indented resolved-version field of a yarn
// lock entry: `  version "4.17.21"`.
var versionLinePattern = regexp.MustCompile(`^\s+version "([^"]+)"`)

// ParseLockManifest parses a yarn-style lock manifest into a map of package
// name to resolved version. A lock entry starts with an unindented header of
// comma-separated, optionally quoted specifiers ("lodash@^4.17.20", possibly
// several for the same package) followed by an indented version field. When
// the same package name resolves to different installed versions under
// different range specifiers, the greatest version by semantic-version
// ordering wins. Scoped names ("@scope/name") are preserved verbatim as keys.
func ParseLockManifest(text string) map[string]string {
	versions := make(map[string]string)
	var pending []string

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if !strings.HasPrefix(line, " ") && strings.HasSuffix(trimmed, ":") {
			pending = specifierNames(strings.TrimSuffix(trimmed, ":"))
			continue
		}

		match := versionLinePattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		for _, name := range pending {
			if prev, ok := versions[name]; ok {
				versions[name] = domain.GreaterVersion(prev, match[1])
			} else {
				versions[name] = match[1]
			}
		}
		pending = nil
	}

	return versions
}

// specifierNames extracts the distinct package names from a lock entry header
// such as `"@babel/core@^7.0.0", "@babel/core@^7.12.0"`.
func specifierNames(header string) []string {
	var names []string
	seen := make(map[string]bool)

	for _, part := range strings.Split(header, ",") {
		specifier := strings.Trim(strings.TrimSpace(part), `"`)
		if specifier == "" {
			continue
		}

		// The range starts at the last "@"; a leading "@" belongs to the scope.
		name := specifier
		if idx := strings.LastIndex(specifier, "@"); idx > 0 {
			name = specifier[:idx]
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// DiffManifests returns the packages whose resolved version changed between
// two parsed manifests, sorted by package name for deterministic output.
// Packages present on only one side are not upgrades and are skipped.
func DiffManifests(oldVersions, newVersions map[string]string) []domain.Upgrade {
	var upgrades []domain.Upgrade
	for name, newVersion := range newVersions {
		oldVersion, ok := oldVersions[name]
		if !ok || oldVersion == newVersion {
			continue
		}
		upgrades = append(upgrades, domain.Upgrade{
			Package:     name,
			FromVersion: oldVersion,
			ToVersion:   newVersion,
		})
	}

	sort.Slice(upgrades, func(i, j int) bool {
		return upgrades[i].Package < upgrades[j].Package
	})
	return upgrades
}
