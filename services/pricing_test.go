package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airline-backoffice/models"
)

func TestComputeQuote(t *testing.T) {
	rates := Rates{
		Baggage:   models.AdditionalItem{CostPerUnit: dec("237.00")},
		Insurance: models.AdditionalItem{CostPerUnit: dec("208.00")},
	}
	cases := []struct {
		name      string
		flights   string
		bags      int
		insurance bool
		want      string
	}{
		{"nothing extra", "3100", 0, false, "3100.00"},
		{"bags and insurance", "2000", 2, true, "2682.00"},
		{"insurance only", "0", 0, true, "208.00"},
		{"cents survive", "99.99", 1, false, "336.99"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := ComputeQuote(dec(tc.flights), tc.bags, tc.insurance, rates)
			assert.Equal(t, tc.want, q.TotalCost.StringFixed(2))
			assert.True(t, q.TotalCost.Equal(q.FlightsCost.Add(q.AdditionalCost)))
		})
	}
}

func TestEnsureRates_CreatesOnceAndKeepsEdits(t *testing.T) {
	db := newTestDB(t)
	svc := NewPricingService(db)
	ctx := context.Background()

	require.NoError(t, svc.EnsureRates(ctx))
	require.NoError(t, db.Model(&models.AdditionalItem{}).
		Where("description = ?", InsuranceItemDescription).
		Update("cost_per_unit", dec("300.00")).Error)
	require.NoError(t, svc.EnsureRates(ctx))

	assert.Equal(t, int64(2), count(t, db, &models.AdditionalItem{}))
	rates, err := svc.Rates(ctx)
	require.NoError(t, err)
	assert.Equal(t, "237.00", rates.Baggage.CostPerUnit.StringFixed(2))
	assert.Equal(t, "300.00", rates.Insurance.CostPerUnit.StringFixed(2))
}

func TestPriceOf(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	_, err := w.pricing.PriceOf(ctx, w.outbound.FlightNo)
	assert.ErrorIs(t, err, ErrNotFound)

	p, err := w.pricing.FlightPrice(ctx, w.outbound.FlightNo)
	require.NoError(t, err)
	assert.True(t, p.IsZero())

	w.itemize(t, w.outbound, "880.50")
	p, err = w.pricing.PriceOf(ctx, w.outbound.FlightNo)
	require.NoError(t, err)
	assert.Equal(t, "880.50", p.StringFixed(2))
}
