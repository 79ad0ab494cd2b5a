package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airline-backoffice/models"
)

func TestCreateRoute_ReusesCitiesIgnoringCase(t *testing.T) {
	db := newTestDB(t)
	svc := NewRouteService(db)
	ctx := context.Background()

	r1, err := svc.CreateRoute(ctx, CreateRouteInput{OriginCityName: " Bangkok ", DestinationCityName: "Phuket", Duration: 85})
	require.NoError(t, err)
	assert.Equal(t, "Bangkok", r1.OriginCity.CityName)

	r2, err := svc.CreateRoute(ctx, CreateRouteInput{OriginCityName: "PHUKET", DestinationCityName: "bangkok", Duration: 90})
	require.NoError(t, err)
	assert.Equal(t, r1.OriginCityID, r2.DestinationCityID)
	assert.Equal(t, r1.DestinationCityID, r2.OriginCityID)
	assert.Equal(t, int64(2), count(t, db, &models.City{}))

	cities, err := svc.ListCities(ctx)
	require.NoError(t, err)
	require.Len(t, cities, 2)
	assert.Equal(t, "Bangkok", cities[0].CityName)

	routes, err := svc.ListRoutes(ctx)
	require.NoError(t, err)
	require.Len(t, routes, 2)
	assert.Equal(t, "Phuket", routes[1].OriginCity.CityName)
}

func TestCreateRoute_Validation(t *testing.T) {
	db := newTestDB(t)
	svc := NewRouteService(db)
	ctx := context.Background()

	_, err := svc.CreateRoute(ctx, CreateRouteInput{OriginCityName: "Bangkok", DestinationCityName: "bangkok "})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateRoute(ctx, CreateRouteInput{OriginCityName: "Bangkok", DestinationCityName: "Krabi", Duration: -5})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateRoute(ctx, CreateRouteInput{DestinationCityName: "Krabi"})
	assert.ErrorIs(t, err, ErrValidation)

	assert.Equal(t, int64(0), count(t, db, &models.City{}))
	assert.Equal(t, int64(0), count(t, db, &models.FlightRoute{}))
}

func TestCreateCity_IsGetOrCreate(t *testing.T) {
	db := newTestDB(t)
	svc := NewRouteService(db)
	ctx := context.Background()

	a, err := svc.CreateCity(ctx, "Hat Yai")
	require.NoError(t, err)
	b, err := svc.CreateCity(ctx, "hat yai")
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, "Hat Yai", b.CityName)

	_, err = svc.GetRoute(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}
