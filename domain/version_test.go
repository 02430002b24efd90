package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tipee-sa/vendors-upgrade-report-action/domain"
)

func releases(tags ...string) []domain.Release {
	result := make([]domain.Release, 0, len(tags))
	for _, tag := range tags {
		result = append(result, domain.Release{TagName: tag})
	}
	return result
}

func tagNames(rels []domain.Release) []string {
	names := make([]string, 0, len(rels))
	for _, rel := range rels {
		names = append(names, rel.TagName)
	}
	return names
}

func TestFilterReleasesInRange(t *testing.T) {
	t.Parallel()

	t.Run("should exclude the from boundary and include the to boundary", func(t *testing.T) {
		t.Parallel()

		// given
		all := releases("v2.0.0", "v1.3.0", "v1.2.0", "v1.1.0", "v1.0.0")

		// when
		result := domain.FilterReleasesInRange(all, "v", "1.0.0", "1.3.0")

		// then
		assert.Equal(t, []string{"v1.1.0", "v1.2.0", "v1.3.0"}, tagNames(result))
	})

	t.Run("should sort ascending by true semver order", func(t *testing.T) {
		t.Parallel()

		// given
		all := releases("v1.9.0", "v1.10.0", "v1.2.0")

		// when
		result := domain.FilterReleasesInRange(all, "v", "1.0.0", "2.0.0")

		// then: lexical comparison would misorder 1.9.0 after 1.10.0
		assert.Equal(t, []string{"v1.2.0", "v1.9.0", "v1.10.0"}, tagNames(result))
	})

	t.Run("should order prereleases before their release", func(t *testing.T) {
		t.Parallel()

		// given
		all := releases("v2.0.0", "v2.0.0-rc.1", "v2.0.0-beta.2")

		// when
		result := domain.FilterReleasesInRange(all, "v", "1.0.0", "2.0.0")

		// then
		assert.Equal(t, []string{"v2.0.0-beta.2", "v2.0.0-rc.1", "v2.0.0"}, tagNames(result))
	})

	t.Run("should drop tags outside the canonical format silently", func(t *testing.T) {
		t.Parallel()

		// given
		all := releases("v1.1.0", "nightly-2024-01-01", "v1.x", "v1.2.0")

		// when
		result := domain.FilterReleasesInRange(all, "v", "1.0.0", "2.0.0")

		// then
		assert.Equal(t, []string{"v1.1.0", "v1.2.0"}, tagNames(result))
	})

	t.Run("should handle the empty tag prefix", func(t *testing.T) {
		t.Parallel()

		// given
		all := releases("1.1.0", "1.0.0")

		// when
		result := domain.FilterReleasesInRange(all, "", "1.0.0", "1.1.0")

		// then
		require.Len(t, result, 1)
		assert.Equal(t, "1.1.0", result[0].TagName)
	})

	t.Run("should yield an empty slice for empty input", func(t *testing.T) {
		t.Parallel()

		// when
		result := domain.FilterReleasesInRange(nil, "v", "1.0.0", "2.0.0")

		// then
		assert.Empty(t, result)
	})

	t.Run("should yield an empty slice when no release is in range", func(t *testing.T) {
		t.Parallel()

		// given
		all := releases("v3.0.0", "v0.9.0")

		// when
		result := domain.FilterReleasesInRange(all, "v", "1.0.0", "2.0.0")

		// then
		assert.Empty(t, result)
	})
}

func TestGreaterVersion(t *testing.T) {
	t.Parallel()

	t.Run("should pick the greater version numerically", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "4.17.21", domain.GreaterVersion("4.17.20", "4.17.21"))
		assert.Equal(t, "4.17.21", domain.GreaterVersion("4.17.21", "4.17.20"))
		assert.Equal(t, "1.10.0", domain.GreaterVersion("1.9.0", "1.10.0"))
	})

	t.Run("should prefer the parseable side", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "1.0.0", domain.GreaterVersion("not-a-version", "1.0.0"))
		assert.Equal(t, "1.0.0", domain.GreaterVersion("1.0.0", "not-a-version"))
	})
}
