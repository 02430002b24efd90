package lockfile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tipee-sa/vendors-upgrade-report-action/domain"
	"github.com/tipee-sa/vendors-upgrade-report-action/infrastructure/lockfile"
)

func TestParseUpgradeListing(t *testing.T) {
	t.Parallel()

	t.Run("should extract upgrade triples preserving input order", func(t *testing.T) {
		t.Parallel()

		// given
		listing := `Upgrading dependencies:
  - symfony/console (v6.0.0 => v6.1.2)
  - monolog/monolog (3.0.0 => 3.1.0)
Done.`

		// when
		upgrades := lockfile.ParseUpgradeListing(listing)

		// then
		require.Len(t, upgrades, 2)
		assert.Equal(t, domain.Upgrade{
			Package: "symfony/console", FromVersion: "v6.0.0", ToVersion: "v6.1.2",
		}, upgrades[0])
		assert.Equal(t, domain.Upgrade{
			Package: "monolog/monolog", FromVersion: "3.0.0", ToVersion: "3.1.0",
		}, upgrades[1])
	})

	t.Run("should ignore non-matching lines", func(t *testing.T) {
		t.Parallel()

		// given
		listing := "- broken line\n- pkg (1.0.0)\nnothing here"

		// when
		upgrades := lockfile.ParseUpgradeListing(listing)

		// then
		assert.Empty(t, upgrades)
	})

	t.Run("should yield an empty slice for empty input", func(t *testing.T) {
		t.Parallel()

		// when
		upgrades := lockfile.ParseUpgradeListing("")

		// then
		assert.Empty(t, upgrades)
	})
}

func TestRunDiffScript(t *testing.T) {
	t.Parallel()

	t.Run("should capture the script's stdout", func(t *testing.T) {
		t.Parallel()

		// given
		script := filepath.Join(t.TempDir(), "diff.sh")
		require.NoError(t, os.WriteFile(script,
			[]byte("#!/bin/sh\necho \"- $1 => $2 placeholder\"\necho \"- acme/pkg (1.0.0 => 1.1.0)\"\n"),
			0o700))

		// when
		output, err := lockfile.RunDiffScript(context.Background(), script, "old.lock", "new.lock")

		// then
		require.NoError(t, err)
		upgrades := lockfile.ParseUpgradeListing(output)
		require.Len(t, upgrades, 1)
		assert.Equal(t, "acme/pkg", upgrades[0].Package)
	})

	t.Run("should surface stderr on failure", func(t *testing.T) {
		t.Parallel()

		// given
		script := filepath.Join(t.TempDir(), "diff.sh")
		require.NoError(t, os.WriteFile(script,
			[]byte("#!/bin/sh\necho \"boom\" >&2\nexit 3\n"), 0o700))

		// when
		_, err := lockfile.RunDiffScript(context.Background(), script, "old.lock", "new.lock")

		// then
		require.Error(t, err)
		assert.ErrorContains(t, err, "boom")
	})
}
