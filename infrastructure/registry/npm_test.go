package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tipee-sa/vendors-upgrade-report-action/infrastructure/registry"
)

func TestParseNpmSource(t *testing.T) {
	t.Parallel()

	t.Run("should parse a git+https repository URL", func(t *testing.T) {
		t.Parallel()

		// given
		body := `{"repository":{"type":"git","url":"git+https://github.com/lodash/lodash.git"}}`

		// when
		source, ok := registry.ParseNpmSource([]byte(body))

		// then
		require.True(t, ok)
		assert.Equal(t, "lodash/lodash", source.RepoSlug)
		assert.Equal(t, "v", source.TagPrefix)
	})

	t.Run("should parse a git+ssh repository URL", func(t *testing.T) {
		t.Parallel()

		// given
		body := `{"repository":{"url":"git+ssh://git@github.com/babel/babel.git"}}`

		// when
		source, ok := registry.ParseNpmSource([]byte(body))

		// then
		require.True(t, ok)
		assert.Equal(t, "babel/babel", source.RepoSlug)
	})

	t.Run("should parse a plain https repository URL", func(t *testing.T) {
		t.Parallel()

		// given
		body := `{"repository":{"url":"https://github.com/facebook/react"}}`

		// when
		source, ok := registry.ParseNpmSource([]byte(body))

		// then
		require.True(t, ok)
		assert.Equal(t, "facebook/react", source.RepoSlug)
	})

	t.Run("should be absent for invalid JSON", func(t *testing.T) {
		t.Parallel()

		// when
		_, ok := registry.ParseNpmSource([]byte("not json"))

		// then
		assert.False(t, ok)
	})

	t.Run("should be absent when the repository field is missing", func(t *testing.T) {
		t.Parallel()

		// when
		_, ok := registry.ParseNpmSource([]byte(`{"name":"lodash"}`))

		// then
		assert.False(t, ok)
	})

	t.Run("should be absent for a non-GitHub host", func(t *testing.T) {
		t.Parallel()

		// given
		body := `{"repository":{"url":"git+https://gitlab.com/acme/tool.git"}}`

		// when
		_, ok := registry.ParseNpmSource([]byte(body))

		// then
		assert.False(t, ok)
	})
}
