package calc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearToMassAndCount_Scenario(t *testing.T) {
	got, err := LinearToMassAndCount(100, 185)
	require.NoError(t, err)

	rounded := got.Rounded()
	assert.Equal(t, 133.33, rounded.UnitCount)
	assert.Equal(t, 24666.67, rounded.MassKg)
}

func TestMassToLinearAndCount(t *testing.T) {
	got, err := MassToLinearAndCount(1820, 182)
	require.NoError(t, err)

	assert.InDelta(t, 10, got.UnitCount, 1e-9)
	assert.InDelta(t, 7.5, got.Linear, 1e-9)
}

func TestConversionRoundTrip(t *testing.T) {
	linears := []float64{0, 0.75, 1, 12.5, 100, 333.33, 9999.99}

	for _, factor := range StandardFactors {
		for _, linear := range linears {
			forward, err := LinearToMassAndCount(linear, factor)
			require.NoError(t, err)

			back, err := MassToLinearAndCount(forward.MassKg, factor)
			require.NoError(t, err)

			assert.InDelta(t, linear, back.Linear, 1e-6, "factor %v linear %v", factor, linear)
			assert.InDelta(t, forward.UnitCount, back.UnitCount, 1e-6)
		}
	}
}

func TestConversion_AcceptsNonStandardFactor(t *testing.T) {
	assert.False(t, IsStandardFactor(200))
	assert.True(t, IsStandardFactor(184))

	got, err := LinearToMassAndCount(7.5, 200)
	require.NoError(t, err)
	assert.InDelta(t, 2000, got.MassKg, 1e-9)
}

func TestConversion_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		factor float64
		want   error
		field  string
	}{
		{name: "zero factor", value: 10, factor: 0, want: ErrInvalidFactor, field: "kg_per_unit"},
		{name: "negative factor", value: 10, factor: -182, want: ErrInvalidFactor, field: "kg_per_unit"},
		{name: "nan factor", value: 10, factor: math.NaN(), want: ErrInvalidFactor, field: "kg_per_unit"},
		{name: "infinite value", value: math.Inf(1), factor: 182, want: ErrInvalidInput},
		{name: "nan value", value: math.NaN(), factor: 182, want: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LinearToMassAndCount(tt.value, tt.factor)
			assert.ErrorIs(t, err, tt.want)

			_, err = MassToLinearAndCount(tt.value, tt.factor)
			assert.ErrorIs(t, err, tt.want)

			if tt.field != "" {
				var fe *FieldError
				require.ErrorAs(t, err, &fe)
				assert.Equal(t, tt.field, fe.Field)
			}
		})
	}
}
