package lockfile

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/tipee-sa/vendors-upgrade-report-action/domain"
)

const diffScriptTimeout = 60 * time.Second

// upgradeLinePattern matches one line of the textual upgrade listing produced
// by the composer diff script: "- vendor/package (1.2.3 => 1.3.0)".
var upgradeLinePattern = regexp.MustCompile(`^\s*- (\S+) \((\S+) => (\S+)\)\s*$`)

// ParseUpgradeListing extracts upgrade triples from a line-oriented listing.
// Lines that do not match the upgrade pattern are ignored; empty or fully
// non-matching input yields an empty slice. Output order follows input order.
func ParseUpgradeListing(text string) []domain.Upgrade {
	var upgrades []domain.Upgrade
	for _, line := range strings.Split(text, "\n") {
		match := upgradeLinePattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		upgrades = append(upgrades, domain.Upgrade{
			Package:     match[1],
			FromVersion: match[2],
			ToVersion:   match[3],
		})
	}
	return upgrades
}

// RunDiffScript executes the external composer diff script against two lock
// file paths and returns its stdout, which is expected to be an upgrade
// listing parseable by ParseUpgradeListing.
func RunDiffScript(ctx context.Context, script, oldPath, newPath string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, diffScriptTimeout)
	defer cancel()

	logger.Debugf("Running diff script: %s %s %s", script, oldPath, newPath)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, script, oldPath, newPath)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf(
			"failed to run diff script %q: %w (stderr: %s)",
			script, err, strings.TrimSpace(stderr.String()),
		)
	}
	return stdout.String(), nil
}
