package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tipee-sa/vendors-upgrade-report-action/domain"
)

func TestCommentMarker_Encode(t *testing.T) {
	t.Parallel()

	t.Run("should encode all four fields on one line", func(t *testing.T) {
		t.Parallel()

		// given
		marker := domain.CommentMarker{
			ReportType:  domain.ReportTypeComposer,
			Vendor:      "symfony",
			ContentHash: "deadbeef",
			VendorCount: 3,
		}

		// when
		encoded := marker.Encode()

		// then
		assert.Equal(t, "<!-- composer-upgrade-report:symfony deadbeef total:3 -->", encoded)
	})
}

func TestParseCommentMarker(t *testing.T) {
	t.Parallel()

	t.Run("should round-trip an encoded marker", func(t *testing.T) {
		t.Parallel()

		// given
		marker := domain.CommentMarker{
			ReportType:  domain.ReportTypeYarn,
			Vendor:      "@babel",
			ContentHash: "0123456789abcdef",
			VendorCount: 12,
		}
		body := marker.Encode() + "\n\n## some report content\n"

		// when
		parsed, ok := domain.ParseCommentMarker(body)

		// then
		require.True(t, ok)
		assert.Equal(t, marker, parsed)
	})

	t.Run("should only look at the first line", func(t *testing.T) {
		t.Parallel()

		// given
		body := "human text\n<!-- composer-upgrade-report:symfony deadbeef total:1 -->"

		// when
		_, ok := domain.ParseCommentMarker(body)

		// then
		assert.False(t, ok)
	})

	t.Run("should reject a body without a marker", func(t *testing.T) {
		t.Parallel()

		// given
		body := "Looks good to me!"

		// when
		_, ok := domain.ParseCommentMarker(body)

		// then
		assert.False(t, ok)
	})

	t.Run("should reject a malformed marker", func(t *testing.T) {
		t.Parallel()

		// given
		body := "<!-- composer-upgrade-report:symfony -->"

		// when
		_, ok := domain.ParseCommentMarker(body)

		// then
		assert.False(t, ok)
	})

	t.Run("should tolerate a trailing carriage return", func(t *testing.T) {
		t.Parallel()

		// given
		body := "<!-- yarn-upgrade-report:lodash cafe total:2 -->\r\ncontent"

		// when
		parsed, ok := domain.ParseCommentMarker(body)

		// then
		require.True(t, ok)
		assert.Equal(t, "lodash", parsed.Vendor)
		assert.Equal(t, 2, parsed.VendorCount)
	})
}

func TestVendorName(t *testing.T) {
	t.Parallel()

	t.Run("should return the owner of a namespaced identifier", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "vendor", domain.VendorName("vendor/package"))
	})

	t.Run("should keep the at sign of a scoped identifier", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "@scope", domain.VendorName("@scope/package"))
	})

	t.Run("should return an unscoped identifier unchanged", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "package", domain.VendorName("package"))
	})
}
