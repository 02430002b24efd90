package domain

import (
	"fmt"
	"regexp"
	"strings"
)

const sourceHostBase = "https://github.com/"

// PackageReport is one upgraded package together with whatever upstream
// enrichment could be resolved for it. Source and Releases stay zero when the
// registry could not resolve the package.
type PackageReport struct {
	Upgrade       Upgrade
	Source        PackageSource
	Releases      []Release // In range, ascending
	HeadingSuffix string    // Lock file disambiguator, empty for single-file runs
}

var (
	inlineLinkPattern  = regexp.MustCompile(`\[([^\]]*)\]\(([^)]+)\)`)
	absoluteURLPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)
)

// RewriteRelativeLinks rewrites every relative inline link in markdown into an
// absolute blob URL under the given repository and ref. Absolute links,
// fragment-only links and mailto links pass through unchanged. One leading "/"
// is stripped from the original target before joining.
func RewriteRelativeLinks(markdown, repoSlug, ref string) string {
	return inlineLinkPattern.ReplaceAllStringFunc(markdown, func(link string) string {
		parts := inlineLinkPattern.FindStringSubmatch(link)
		target := parts[2]

		if absoluteURLPattern.MatchString(target) ||
			strings.HasPrefix(target, "#") ||
			strings.HasPrefix(target, "mailto:") {
			return link
		}

		target = strings.TrimPrefix(target, "/")
		return fmt.Sprintf("[%s](%s%s/blob/%s/%s)", parts[1], sourceHostBase, repoSlug, ref, target)
	})
}

// AssembleSections groups package reports by vendor, preserving first-appearance
// order, and renders one markdown section per vendor. Each section starts with
// its boundary marker; each package gets a top-level heading (with the lock
// file suffix appended when set) followed by one subheading per release, with
// the release notes rewritten against the resolved repository and tag.
func AssembleSections(reports []PackageReport) []VendorSection {
	var vendorOrder []string
	byVendor := make(map[string][]PackageReport)

	for _, report := range reports {
		vendor := VendorName(report.Upgrade.Package)
		if _, seen := byVendor[vendor]; !seen {
			vendorOrder = append(vendorOrder, vendor)
		}
		byVendor[vendor] = append(byVendor[vendor], report)
	}

	sections := make([]VendorSection, 0, len(vendorOrder))
	for _, vendor := range vendorOrder {
		var builder strings.Builder
		builder.WriteString(SectionMarker(vendor))
		builder.WriteString("\n")

		for _, report := range byVendor[vendor] {
			builder.WriteString(renderPackage(report))
		}

		sections = append(sections, VendorSection{Vendor: vendor, Body: builder.String()})
	}
	return sections
}

func renderPackage(report PackageReport) string {
	var builder strings.Builder

	fmt.Fprintf(
		&builder, "\n## %s (%s => %s)%s\n",
		report.Upgrade.Package, report.Upgrade.FromVersion,
		report.Upgrade.ToVersion, report.HeadingSuffix,
	)

	for _, release := range report.Releases {
		fmt.Fprintf(&builder, "\n### %s\n", release.TagName)
		notes := strings.TrimSpace(
			RewriteRelativeLinks(release.Body, report.Source.RepoSlug, release.TagName),
		)
		if notes != "" {
			builder.WriteString("\n" + notes + "\n")
		}
	}

	return builder.String()
}
