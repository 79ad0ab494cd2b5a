package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"airline-backoffice/models"
)

type RouteService struct {
	DB *gorm.DB
}

func NewRouteService(db *gorm.DB) *RouteService {
	return &RouteService{DB: db}
}

// CreateRouteInput names the cities as typed by the user.
type CreateRouteInput struct {
	OriginCityName      string
	DestinationCityName string
	Duration            int
}

// getOrCreateCity matches name case-insensitively after trimming and creates
// the city with the trimmed spelling when there is none.
func getOrCreateCity(tx *gorm.DB, name string) (models.City, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.City{}, fieldError("city_name", "City name is required.")
	}

	var city models.City
	err := tx.Where("LOWER(city_name) = LOWER(?)", name).First(&city).Error
	if err == nil {
		return city, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.City{}, fmt.Errorf("find city %q: %w", name, err)
	}

	city = models.City{CityName: name}
	err = createOrFind(tx, "create_city", &city, func() error {
		city = models.City{}
		return tx.Where("LOWER(city_name) = LOWER(?)", name).First(&city).Error
	})
	if err != nil {
		return models.City{}, fmt.Errorf("create city %q: %w", name, err)
	}
	return city, nil
}

func (s *RouteService) ListCities(ctx context.Context) ([]models.City, error) {
	var cities []models.City
	if err := s.DB.WithContext(ctx).Order("city_name ASC").Find(&cities).Error; err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	return cities, nil
}

// CreateCity is get-or-create: an existing city with the same name (any case)
// is returned as is.
func (s *RouteService) CreateCity(ctx context.Context, name string) (models.City, error) {
	var city models.City
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := getOrCreateCity(tx, name)
		city = c
		return err
	})
	return city, err
}

func (s *RouteService) ListRoutes(ctx context.Context) ([]models.FlightRoute, error) {
	var routes []models.FlightRoute
	err := s.DB.WithContext(ctx).
		Preload("OriginCity").
		Preload("DestinationCity").
		Order("route_id ASC").
		Find(&routes).Error
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	return routes, nil
}

func (s *RouteService) GetRoute(ctx context.Context, id uint) (models.FlightRoute, error) {
	var route models.FlightRoute
	err := s.DB.WithContext(ctx).
		Preload("OriginCity").
		Preload("DestinationCity").
		First(&route, id).Error
	return route, dbError(err, "route", id)
}

// CreateRoute resolves both cities and inserts the route in one transaction.
func (s *RouteService) CreateRoute(ctx context.Context, in CreateRouteInput) (models.FlightRoute, error) {
	origin := strings.TrimSpace(in.OriginCityName)
	dest := strings.TrimSpace(in.DestinationCityName)

	if origin == "" {
		return models.FlightRoute{}, fieldError("origin_city_name", "Origin city is required.")
	}
	if dest == "" {
		return models.FlightRoute{}, fieldError("destination_city_name", "Destination city is required.")
	}
	if strings.EqualFold(origin, dest) {
		return models.FlightRoute{}, fieldError("destination_city_name", "Origin and destination must be different cities.")
	}
	if in.Duration < 0 {
		return models.FlightRoute{}, fieldError("duration", "Duration cannot be negative.")
	}

	var route models.FlightRoute
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		oc, err := getOrCreateCity(tx, origin)
		if err != nil {
			return err
		}
		dc, err := getOrCreateCity(tx, dest)
		if err != nil {
			return err
		}

		route = models.FlightRoute{
			OriginCityID:      oc.ID,
			DestinationCityID: dc.ID,
			Duration:          in.Duration,
		}
		if err := tx.Create(&route).Error; err != nil {
			return fmt.Errorf("create route: %w", err)
		}
		route.OriginCity = oc
		route.DestinationCity = dc
		return nil
	})
	if err != nil {
		return models.FlightRoute{}, err
	}
	return route, nil
}
