package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volleymatch/pkg/domain"
)

const validUUID = "6b1f4a9e-3c2d-4e8f-9a1b-2c3d4e5f6a7b"

func TestParseUUID(t *testing.T) {
	t.Run("valid strings produce equal identifiers", func(t *testing.T) {
		a, err := domain.ParseUUID(validUUID)
		require.NoError(t, err)
		b, err := domain.ParseUUID(validUUID)
		require.NoError(t, err)

		assert.True(t, a.Equals(b))
		assert.Equal(t, a, b)
		assert.Equal(t, validUUID, a.String())
	})

	t.Run("invalid strings fail with InvalidIdentifierError", func(t *testing.T) {
		for _, raw := range []string{
			"",
			"fake id",
			"6b1f4a9e3c2d4e8f9a1b2c3d4e5f6a7b",
			"{6b1f4a9e-3c2d-4e8f-9a1b-2c3d4e5f6a7b}",
			"urn:uuid:6b1f4a9e-3c2d-4e8f-9a1b-2c3d4e5f6a7b",
			"6b1f4a9e-3c2d-4e8f-9a1b-2c3d4e5f6a7z",
		} {
			_, err := domain.ParseUUID(raw)
			require.Error(t, err, raw)
			assert.ErrorIs(t, err, domain.ErrInvalidIdentifier)

			var target *domain.InvalidIdentifierError
			require.ErrorAs(t, err, &target)
			assert.Equal(t, raw, target.Value)
		}
	})

	t.Run("equality is case sensitive", func(t *testing.T) {
		lower := domain.MustParseUUID(validUUID)
		upper := domain.MustParseUUID(strings.ToUpper(validUUID))

		assert.False(t, lower.Equals(upper))
	})
}

func TestNewUUID(t *testing.T) {
	a := domain.NewUUID()
	b := domain.NewUUID()

	assert.False(t, a.Equals(b))
	assert.False(t, a.IsZero())

	parsed, err := domain.ParseUUID(a.String())
	require.NoError(t, err)
	assert.True(t, parsed.Equals(a))
}

func TestMustParseUUIDPanicsOnInvalidInput(t *testing.T) {
	assert.Panics(t, func() { domain.MustParseUUID("not-a-uuid") })
}
