package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// CommentMarker is the machine-readable identity of a tracked comment. It is
// encoded as an HTML comment on the first line of the body, so it round-trips
// through the comment API without altering the rendered appearance.
type CommentMarker struct {
	ReportType  ReportType
	Vendor      string
	ContentHash string // Fingerprint of the entire lock file's bytes
	VendorCount int    // Total number of tracked comments written in the same run
}

// TrackedComment is a remote comment recognized as belonging to a report,
// recovered each run by parsing its marker.
type TrackedComment struct {
	ID     int64
	Marker CommentMarker
}

var commentMarkerPattern = regexp.MustCompile(
	`^<!-- ([a-z]+)-upgrade-report:(\S+) ([0-9a-f]+) total:([0-9]+) -->`,
)

// Encode renders the marker as the first line of a comment body.
func (m CommentMarker) Encode() string {
	return fmt.Sprintf(
		"<!-- %s-upgrade-report:%s %s total:%d -->",
		m.ReportType, m.Vendor, m.ContentHash, m.VendorCount,
	)
}

// ParseCommentMarker recovers a marker from the first line of a comment body.
// The boolean is false when the body does not start with a well-formed marker;
// such comments are invisible to reconciliation.
func ParseCommentMarker(body string) (CommentMarker, bool) {
	firstLine := body
	if idx := strings.IndexByte(body, '\n'); idx >= 0 {
		firstLine = body[:idx]
	}

	match := commentMarkerPattern.FindStringSubmatch(strings.TrimRight(firstLine, "\r"))
	if match == nil {
		return CommentMarker{}, false
	}

	count, err := strconv.Atoi(match[4])
	if err != nil {
		return CommentMarker{}, false
	}

	return CommentMarker{
		ReportType:  ReportType(match[1]),
		Vendor:      match[2],
		ContentHash: match[3],
		VendorCount: count,
	}, true
}

// SectionMarker is the boundary marker prefixed to every vendor section in
// generated markdown, so downstream splitting is exact and lossless.
func SectionMarker(vendor string) string {
	return "<!-- vendor-section:" + vendor + " -->"
}
