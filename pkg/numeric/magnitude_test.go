package numeric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMagnitude(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		cases := map[string]float64{
			"750":   750,
			"1.5m":  1_500_000,
			"200k":  200_000,
			"1.1m":  1_100_000,
			"2b":    2_000_000_000,
			"10t":   10_000_000_000_000,
			" 3K ":  3_000,
			"0.25k": 250,
		}
		for input, want := range cases {
			got, err := ParseMagnitude(input)
			require.NoError(t, err, input)
			assert.Equal(t, want, got, input)
		}
	})

	t.Run("Comma Rejected", func(t *testing.T) {
		_, err := ParseMagnitude("1,5m")
		assert.ErrorIs(t, err, ErrForbiddenSeparator)

		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, "1,5m", parseErr.Input)
	})

	t.Run("Bad Format", func(t *testing.T) {
		for _, input := range []string{"abc", "1.5x", "-5", "1..5", "1.5mm", ".5", "5."} {
			_, err := ParseMagnitude(input)
			assert.ErrorIs(t, err, ErrBadFormat, input)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := ParseMagnitude("   ")
		assert.ErrorIs(t, err, ErrEmpty)
	})

	t.Run("Too Large", func(t *testing.T) {
		_, err := ParseMagnitude("10.01t")
		assert.ErrorIs(t, err, ErrTooLarge)

		_, err = ParseMagnitude("20000b")
		assert.ErrorIs(t, err, ErrTooLarge)
	})
}

func TestAutocorrect(t *testing.T) {
	t.Run("Promotes Tier", func(t *testing.T) {
		cases := map[string]string{
			"1000k":    "1m",
			"2500000":  "2.5m",
			"1500000k": "1.5b",
			"1.50m":    "1.5m",
			"999":      "999",
			"5000t":    "5000t",
		}
		for input, want := range cases {
			got, err := Autocorrect(input)
			if input == "5000t" {
				assert.ErrorIs(t, err, ErrTooLarge)
				continue
			}
			require.NoError(t, err, input)
			assert.Equal(t, want, got, input)
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		for _, input := range []string{"1000k", "123456789", "0.5m", "42", "9999b"} {
			once, err := Autocorrect(input)
			require.NoError(t, err)
			twice, err := Autocorrect(once)
			require.NoError(t, err)
			assert.Equal(t, once, twice)

			original, _ := ParseMagnitude(input)
			corrected, _ := ParseMagnitude(once)
			assert.Equal(t, original, corrected)
		}
	})

	t.Run("Reports Correction", func(t *testing.T) {
		m, err := ParseMagnitudeDetailed("1000k")
		require.NoError(t, err)
		assert.True(t, m.Corrected)

		m, err = ParseMagnitudeDetailed("1m")
		require.NoError(t, err)
		assert.False(t, m.Corrected)
	})
}

func TestFormatMagnitude(t *testing.T) {
	cases := map[float64]string{
		0:                  "0",
		999:                "999",
		12.5:               "12.5",
		1_000:              "1K",
		1_500_000:          "1.5M",
		1_545_000:          "1.55M",
		1_045_000:          "1.05M",
		2_000_000_000:      "2B",
		10_000_000_000_000: "10T",
		999_999:            "1M",
		999.999:            "1K",
	}
	for v, want := range cases {
		assert.Equal(t, want, FormatMagnitude(v), "%v", v)
	}

	t.Run("Round Trip", func(t *testing.T) {
		for input, want := range map[string]string{"1.50m": "1.5M", "200k": "200K", "3.25b": "3.25B", "7": "7"} {
			v, err := ParseMagnitude(input)
			require.NoError(t, err)
			assert.Equal(t, want, FormatMagnitude(v))
		}
	})

	t.Run("Non Finite", func(t *testing.T) {
		assert.NotPanics(t, func() {
			assert.Equal(t, "+Inf", FormatMagnitude(math.Inf(1)))
			assert.Equal(t, "-Inf", FormatMagnitude(math.Inf(-1)))
			assert.Equal(t, "NaN", FormatMagnitude(math.NaN()))
		})
	})
}

func TestRoundCents(t *testing.T) {
	assert.Equal(t, 1060.9, RoundCents(1060.9000000000001))
	assert.Equal(t, 1000.0, RoundCents(999.99995))
	assert.Equal(t, 0.01, RoundCents(0.005))
	assert.True(t, math.IsInf(RoundCents(math.Inf(1)), 1))
}
