package usecase

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selectExtras(t *testing.T, keys ...string) []Extra {
	t.Helper()
	extras, err := NewExtrasCatalog(testPricing()).Select(keys)
	require.NoError(t, err)
	return extras
}

func TestComputeTotal_Scenarios(t *testing.T) {
	tests := []struct {
		name   string
		guests int
		extras []string
		want   float64
	}{
		{"minimum guests no extras", 10, nil, 15000},
		{"overage guests", 30, nil, 16700},
		{"security only", 10, []string{ExtraSecurity}, 17500},
		{"overage and both extras", 30, []string{ExtraSecurity, ExtraCleaning}, 21000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotal(15000, tt.guests, 10, 85, selectExtras(t, tt.extras...))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeTotal_FloorIsBasePrice(t *testing.T) {
	for _, rate := range []float64{0, 1, 85, 1000.5} {
		assert.Equal(t, 15000.0, ComputeTotal(15000, 10, 10, rate, selectExtras(t)))
	}
}

func TestComputeTotal_Monotonic(t *testing.T) {
	extras := selectExtras(t, ExtraCleaning)
	for _, rate := range []float64{0, 85} {
		prev := ComputeTotal(15000, 10, 10, rate, extras)
		for g := 11; g <= 60; g++ {
			cur := ComputeTotal(15000, g, 10, rate, extras)
			if rate > 0 {
				assert.Greater(t, cur, prev, "guests=%d", g)
			} else {
				assert.Equal(t, prev, cur, "guests=%d", g)
			}
			prev = cur
		}
	}
}

func TestComputeTotal_ExtrasAdditive(t *testing.T) {
	security := ComputeTotal(15000, 25, 10, 85, selectExtras(t, ExtraSecurity))
	cleaning := ComputeTotal(15000, 25, 10, 85, selectExtras(t, ExtraCleaning))
	both := ComputeTotal(15000, 25, 10, 85, selectExtras(t, ExtraSecurity, ExtraCleaning))
	none := ComputeTotal(15000, 25, 10, 85, selectExtras(t))

	assert.Equal(t, security+cleaning-none, both)
}

func TestComputeTotal_BelowMinimumIsNotDiscounted(t *testing.T) {
	assert.Equal(t, 15000.0, ComputeTotal(15000, 3, 10, 85, nil))
}

func TestExtrasCatalog_Select(t *testing.T) {
	catalog := NewExtrasCatalog(testPricing())

	extras, err := catalog.Select([]string{ExtraCleaning})
	require.NoError(t, err)
	assert.False(t, selected(extras, ExtraSecurity))
	assert.True(t, selected(extras, ExtraCleaning))

	// the catalog itself stays untouched
	for _, e := range catalog {
		assert.False(t, e.Selected)
	}

	_, err = catalog.Select([]string{"fireworks"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.EqualError(t, err, "unknown extra: fireworks")
}

func TestEffectivePricePerPerson(t *testing.T) {
	venue := testVenue(uuid.New())
	assert.Equal(t, DefaultPricePerPerson, EffectivePricePerPerson(venue, DefaultPricePerPerson))

	own := 120.0
	venue.PricePerPerson = &own
	assert.Equal(t, 120.0, EffectivePricePerPerson(venue, DefaultPricePerPerson))
}

func TestBuildQuote(t *testing.T) {
	venue := testVenue(uuid.New())

	q := BuildQuote(venue, 30, selectExtras(t, ExtraSecurity, ExtraCleaning), DefaultPricePerPerson)

	assert.Equal(t, 15000.0, q.BasePrice)
	assert.Equal(t, 20, q.ExtraGuests)
	assert.Equal(t, 1700.0, q.GuestsAmount)
	assert.Equal(t, 4300.0, q.ExtrasAmount)
	assert.Equal(t, 21000.0, q.Total)
	assert.Equal(t, q.BasePrice+q.GuestsAmount+q.ExtrasAmount, q.Total)
}
