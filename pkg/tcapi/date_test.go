package tcapi_test

import (
	"errors"
	"testing"
	"time"

	"github.com/fivetwenty-io/tcapi/pkg/tcapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDate(t *testing.T) {
	t.Parallel()

	plusOne := time.FixedZone("CET", 60*60)
	minusFiveThirty := time.FixedZone("X", -(5*60*60 + 30*60))

	tests := []struct {
		name     string
		input    time.Time
		expected string
	}{
		{
			name:     "utc uses numeric offset",
			input:    time.Date(2024, 1, 31, 15, 45, 1, 0, time.UTC),
			expected: "20240131T154501+0000",
		},
		{
			name:     "positive offset",
			input:    time.Date(2023, 12, 1, 8, 5, 9, 0, plusOne),
			expected: "20231201T080509+0100",
		},
		{
			name:     "negative half hour offset",
			input:    time.Date(2022, 6, 15, 23, 59, 59, 0, minusFiveThirty),
			expected: "20220615T235959-0530",
		},
		{
			name:     "sub-second precision is discarded",
			input:    time.Date(2024, 1, 1, 0, 0, 0, 999_999_999, time.UTC),
			expected: "20240101T000000+0000",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.expected, tcapi.FormatDate(testCase.input))
		})
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		parsed, err := tcapi.ParseDate("20240131T154501+0100")
		require.NoError(t, err)
		assert.True(t, parsed.Equal(time.Date(2024, 1, 31, 14, 45, 1, 0, time.UTC)))

		_, offset := parsed.Zone()
		assert.Equal(t, 3600, offset)
	})

	invalid := []string{
		"",
		"2024-01-31T15:45:01Z",
		"20240131T154501Z",
		"20240131T154501+01:00",
		"20240131154501+0000",
		"20241331T154501+0000",
		"not a date",
	}

	for _, value := range invalid {
		t.Run("invalid "+value, func(t *testing.T) {
			t.Parallel()

			_, err := tcapi.ParseDate(value)
			require.Error(t, err)

			var parseErr *tcapi.DateParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, value, parseErr.Value)
		})
	}
}

func TestDateRoundTrip(t *testing.T) {
	t.Parallel()

	zones := []*time.Location{
		time.UTC,
		time.FixedZone("east", 9*60*60),
		time.FixedZone("west", -7*60*60),
	}

	for _, zone := range zones {
		original := time.Date(2021, 3, 14, 1, 59, 26, 535_897_932, zone)

		decoded, err := tcapi.ParseDate(tcapi.FormatDate(original))
		require.NoError(t, err)
		assert.True(t, decoded.Equal(original.Truncate(time.Second)), "zone %s", zone)
	}
}
